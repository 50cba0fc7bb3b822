// Package tmpl implements the placeholder language used by page
// templates.
//
// A template contains two kinds of tags. A value tag, {{path}},
// is replaced with the value found at a dot-separated path. A
// section, {{#name}}body{{/name}}, repeats its body once for each
// element of the sequence stored under name. Inside a section body,
// {{.}} stands for the current element when the elements are scalars,
// and the fields of the current element are visible by name when they
// are mappings.
//
// Rendering never fails. Missing values, missing or empty sections,
// sections over non-sequences and sections whose closing tag names a
// different section all render as nothing.
package tmpl

import (
	"bytes"
	"strings"

	"github.com/DeedleFake/pagegen/internal/bufpool"
)

// Render expands template against scope. Sections are expanded
// first, each body being rendered recursively, and value tags in the
// result are then substituted in a single left-to-right pass.
func Render(template string, scope Scope) string {
	if scope == nil {
		scope = Context(nil)
	}

	expanded := bufpool.String(func(buf *bytes.Buffer) {
		expandSections(buf, template, scope)
	})
	return bufpool.String(func(buf *bytes.Buffer) {
		substitute(buf, expanded, scope)
	})
}

func expandSections(buf *bytes.Buffer, src string, scope Scope) {
	prev := 0
	for _, s := range scanSections(src) {
		buf.WriteString(src[prev:s.start])
		prev = s.end

		if !s.matched() {
			continue
		}
		v, _ := Lookup(scope, s.name)
		seq, ok := asSequence(v)
		if !ok {
			continue
		}

		for _, elem := range seq {
			buf.WriteString(renderElement(s.body, elem, scope))
		}
	}
	buf.WriteString(src[prev:])
}

// renderElement renders one repetition of a section body. Mapping
// elements are layered over scope; any other element replaces {{.}}
// in the body, which is then rendered against scope unchanged.
func renderElement(body string, elem any, scope Scope) string {
	switch e := elem.(type) {
	case Context:
		return Render(body, Overlay(scope, e))
	case map[string]any:
		return Render(body, Overlay(scope, e))
	}

	if e, ok := asScope(elem); ok {
		return Render(body, layered{top: e, base: scope})
	}
	return Render(strings.ReplaceAll(body, dotTag, Stringify(elem)), scope)
}

// layered is Overlay for a top layer that is itself a Scope.
type layered struct {
	top, base Scope
}

func (l layered) Get(key string) (any, bool) {
	if v, ok := l.top.Get(key); ok {
		return v, true
	}
	return l.base.Get(key)
}

func substitute(buf *bytes.Buffer, src string, scope Scope) {
	for {
		i := strings.Index(src, openValue)
		if i < 0 {
			buf.WriteString(src)
			return
		}

		path, end, ok := valueAt(src, i)
		if !ok {
			buf.WriteString(src[:i+1])
			src = src[i+1:]
			continue
		}

		buf.WriteString(src[:i])
		v, _ := Lookup(scope, path)
		buf.WriteString(Stringify(v))
		src = src[end:]
	}
}
