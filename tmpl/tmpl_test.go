package tmpl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	ctx := Context{
		"a": map[string]any{
			"b": map[string]any{"c": 5},
		},
		"n":    nil,
		"tags": []any{"x", map[string]any{"url": "/y"}},
		"s":    "str",
	}

	tests := []struct {
		path  string
		want  any
		found bool
	}{
		{"a.b.c", 5, true},
		{"a.x.y", nil, false},
		{"a.b.c.d", nil, false},
		{"s.length", nil, false},
		{"n", nil, true},
		{"tags.0", "x", true},
		{"tags.1.url", "/y", true},
		{"tags.2", nil, false},
		{"tags.01", nil, false},
		{"", nil, false},
		{"missing", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Lookup(ctx, tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Lookup(Context{}, "")
	assert.False(t, ok)
	_, ok = Lookup(nil, "a")
	assert.False(t, ok)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		ctx  Context
		want string
	}{
		{
			name: "Value",
			tmpl: "Hi {{name}}!",
			ctx:  Context{"name": "Mat"},
			want: "Hi Mat!",
		},
		{
			name: "Missing",
			tmpl: "{{missing}}",
			ctx:  Context{},
			want: "",
		},
		{
			name: "DotPath",
			tmpl: "{{spec.size.width}}x{{spec.size.height}}",
			ctx: Context{"spec": map[string]any{
				"size": map[string]any{"width": 20, "height": 49.5},
			}},
			want: "20x49.5",
		},
		{
			name: "Null",
			tmpl: "[{{n}}]",
			ctx:  Context{"n": nil},
			want: "[]",
		},
		{
			name: "Falsy scalars",
			tmpl: "{{zero}} {{no}} {{empty}}",
			ctx:  Context{"zero": 0, "no": false, "empty": ""},
			want: "0 false ",
		},
		{
			name: "EmptyArray",
			tmpl: "{{#items}}X{{/items}}",
			ctx:  Context{"items": []any{}},
			want: "",
		},
		{
			name: "NotAnArray",
			tmpl: "{{#items}}X{{/items}}",
			ctx:  Context{"items": "not-an-array"},
			want: "",
		},
		{
			name: "MissingSection",
			tmpl: "a{{#items}}X{{/items}}b",
			ctx:  Context{},
			want: "ab",
		},
		{
			name: "ScalarLoop",
			tmpl: "{{#tags}}[{{.}}]{{/tags}}",
			ctx:  Context{"tags": []any{"a", "b"}},
			want: "[a][b]",
		},
		{
			name: "ScalarLoopOuterValues",
			tmpl: "{{#tags}}{{prefix}}{{.}};{{/tags}}",
			ctx:  Context{"prefix": "#", "tags": []string{"a", "b"}},
			want: "#a;#b;",
		},
		{
			name: "ObjectLoop",
			tmpl: "{{#rows}}{{name}}:{{shared}}|{{/rows}}",
			ctx: Context{
				"shared": "S",
				"rows": []any{
					map[string]any{"name": "x"},
					map[string]any{"name": "y"},
				},
			},
			want: "x:S|y:S|",
		},
		{
			name: "ElementOverridesOuter",
			tmpl: "{{#rows}}{{name}}{{/rows}}/{{name}}",
			ctx: Context{
				"name": "outer",
				"rows": []any{map[string]any{"name": "inner"}},
			},
			want: "inner/outer",
		},
		{
			name: "SiblingsIsolated",
			tmpl: "{{#rows}}[{{a}}{{b}}]{{/rows}}",
			ctx: Context{
				"rows": []any{
					map[string]any{"a": "1"},
					map[string]any{"b": "2"},
				},
			},
			want: "[1][2]",
		},
		{
			name: "Mismatched",
			tmpl: "{{#a}}body{{/b}}",
			ctx:  Context{"a": []any{1}},
			want: "",
		},
		{
			name: "MismatchedKeepsSurroundings",
			tmpl: "x{{#a}}body{{/b}}y",
			ctx:  Context{"a": []any{1}},
			want: "xy",
		},
		{
			name: "NearestCloseWins",
			tmpl: "{{#a}}{{#b}}x{{/b}}{{/a}}",
			ctx:  Context{"a": []any{1}, "b": []any{1}},
			want: "{{/a}}",
		},
		{
			name: "NestedThroughBody",
			tmpl: "{{#groups}}{{title}}:{{list}};{{/groups}}",
			ctx: Context{
				"groups": []any{
					map[string]any{"title": "g1", "list": []any{"a", "b"}},
				},
			},
			want: "g1:a,b;",
		},
		{
			name: "Unclosed",
			tmpl: "{{#a}}body",
			ctx:  Context{"a": []any{1}},
			want: "{{#a}}body",
		},
		{
			name: "SequentialSections",
			tmpl: "{{#a}}{{.}}{{/a}}-{{#b}}{{.}}{{/b}}",
			ctx:  Context{"a": []any{1, 2}, "b": []any{"z"}},
			want: "12-z",
		},
		{
			name: "Whitespace",
			tmpl: "  <p>\n\t{{v}}  </p>\n",
			ctx:  Context{"v": "x"},
			want: "  <p>\n\tx  </p>\n",
		},
		{
			name: "MalformedValues",
			tmpl: "{{a.}} {{ a }} {{.}} {{{a}}}",
			ctx:  Context{"a": "A"},
			want: "{{a.}} {{ a }} {{.}} {A}",
		},
		{
			name: "Numbers",
			tmpl: "{{i}} {{f}} {{n}}",
			ctx:  Context{"i": 3, "f": 29.99, "n": json.Number("1.50")},
			want: "3 29.99 1.50",
		},
		{
			name: "NullScalarElement",
			tmpl: "{{#xs}}<{{.}}>{{/xs}}",
			ctx:  Context{"xs": []any{nil, "a"}},
			want: "<><a>",
		},
		{
			name: "SequenceElement",
			tmpl: "{{#pairs}}{{0}}={{1}};{{/pairs}}",
			ctx:  Context{"pairs": []any{[]any{"k", "v"}}},
			want: "k=v;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.tmpl, tt.ctx))
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	const template = `<h1>{{title}}</h1>{{#features}}<li>{{name}}: {{detail}} ({{title}})</li>{{/features}}{{#tags}}#{{.}} {{/tags}}`
	ctx := Context{
		"title": "Mat",
		"features": []any{
			map[string]any{"name": "Heat", "detail": "even", "title": "override"},
			map[string]any{"name": "Size"},
		},
		"tags": []any{"warm", "safe"},
	}

	first := Render(template, ctx)
	second := Render(template, ctx)
	require.Equal(t, first, second)
	assert.Equal(t, "<h1>Mat</h1><li>Heat: even (override)</li><li>Size:  (Mat)</li>#warm #safe ", first)

	_, leaked := ctx["name"]
	assert.False(t, leaked, "section element fields leaked into outer context")
}

func TestOverlay(t *testing.T) {
	base := Context{"a": 1, "b": 2}
	o := Overlay(base, map[string]any{"b": 3, "c": nil})

	v, ok := o.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, _ = o.Get("b")
	assert.Equal(t, 3, v)

	v, ok = o.Get("c")
	assert.True(t, ok)
	assert.Nil(t, v)

	assert.Equal(t, 2, base["b"])
	assert.Len(t, base, 2)

	_, ok = Overlay(nil, nil).Get("x")
	assert.False(t, ok)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{true, "true"},
		{int64(-4), "-4"},
		{1.0, "1"},
		{0.1, "0.1"},
		{1e21, "1e+21"},
		{[]any{"a", 1, nil}, "a,1,"},
		{map[string]any{"a": 1}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stringify(tt.in), "Stringify(%#v)", tt.in)
	}
}
