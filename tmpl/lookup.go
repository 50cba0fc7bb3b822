package tmpl

import "strings"

// Lookup resolves a dot-separated path against scope. Each segment
// must name a key held directly by the current mapping; resolution
// stops at the first segment that doesn't. Sequences may be indexed
// with decimal segments, as in "images.0.url".
//
// The boolean result is false when the path is absent. An empty path
// or a nil scope is always absent.
func Lookup(scope Scope, path string) (any, bool) {
	if path == "" || scope == nil {
		return nil, false
	}

	var cur Scope = scope
	for {
		seg, rest, more := strings.Cut(path, ".")
		v, ok := cur.Get(seg)
		if !ok {
			return nil, false
		}
		if !more {
			return v, true
		}

		cur, ok = asScope(v)
		if !ok {
			return nil, false
		}
		path = rest
	}
}
