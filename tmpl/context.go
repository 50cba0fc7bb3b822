package tmpl

import (
	"reflect"
	"strconv"
)

// A Scope resolves the top-level names visible to a template.
type Scope interface {
	// Get returns the value stored under key. The boolean reports
	// whether key is present; a present key may hold nil.
	Get(key string) (any, bool)
}

// Context is a plain mapping used as a Scope. Page records decoded
// from JSON, YAML or SQLite are Contexts, and nested objects inside of
// them are map[string]any, which Lookup treats the same way.
type Context map[string]any

// Get implements Scope.
func (c Context) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

type overlay struct {
	top  map[string]any
	base Scope
}

// Overlay returns a Scope that resolves keys against top first and
// falls back to base. Neither argument is modified, so sibling
// overlays over the same base never observe each other's keys.
func Overlay(base Scope, top map[string]any) Scope {
	if base == nil {
		base = Context(nil)
	}
	return overlay{top: top, base: base}
}

func (o overlay) Get(key string) (any, bool) {
	if v, ok := o.top[key]; ok {
		return v, true
	}
	return o.base.Get(key)
}

// indexScope exposes a sequence element-by-index, which is how a
// sequence nested directly inside another sequence is merged into a
// section's scope.
type indexScope []any

func (s indexScope) Get(key string) (any, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= len(s) || strconv.Itoa(i) != key {
		return nil, false
	}
	return s[i], true
}

// asScope reports whether v can be descended into by name.
func asScope(v any) (Scope, bool) {
	switch v := v.(type) {
	case Scope:
		return v, true
	case map[string]any:
		return Context(v), true
	}

	if seq, ok := asSequence(v); ok {
		return indexScope(seq), true
	}
	return nil, false
}

// asSequence reports whether v is an ordered sequence, returning its
// elements.
func asSequence(v any) ([]any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []string:
		seq := make([]any, len(v))
		for i := range v {
			seq[i] = v[i]
		}
		return seq, true
	case []map[string]any:
		seq := make([]any, len(v))
		for i := range v {
			seq[i] = v[i]
		}
		return seq, true
	case string, []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	seq := make([]any, rv.Len())
	for i := range seq {
		seq[i] = rv.Index(i).Interface()
	}
	return seq, true
}
