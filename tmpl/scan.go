package tmpl

import "strings"

const (
	openSection  = "{{#"
	closeSection = "{{/"
	openValue    = "{{"
	closeTag     = "}}"
	dotTag       = "{{.}}"
)

// section is a span of a template holding one section block. Spans
// are half-open byte offsets into the template.
type section struct {
	start, end int
	name       string // name in the opening tag
	closing    string // name in the closing tag
	body       string
}

// matched reports whether the opening and closing tags agree.
func (s section) matched() bool {
	return s.name == s.closing
}

// isWord reports whether c may appear in a tag name.
func isWord(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// wordAt returns the end of the run of word characters starting at i.
func wordAt(src string, i int) int {
	for i < len(src) && isWord(src[i]) {
		i++
	}
	return i
}

// tagAt parses a tag of the form prefix + name + "}}" at offset i. It
// returns the name and the offset just past the tag.
func tagAt(src string, i int, prefix string) (name string, end int, ok bool) {
	if !strings.HasPrefix(src[i:], prefix) {
		return "", 0, false
	}

	start := i + len(prefix)
	stop := wordAt(src, start)
	if stop == start || !strings.HasPrefix(src[stop:], closeTag) {
		return "", 0, false
	}
	return src[start:stop], stop + len(closeTag), true
}

// nextClose finds the first closing tag at or after offset i,
// regardless of its name.
func nextClose(src string, i int) (name string, start, end int, ok bool) {
	for i <= len(src) {
		j := strings.Index(src[i:], closeSection)
		if j < 0 {
			return "", 0, 0, false
		}
		j += i

		name, end, ok := tagAt(src, j, closeSection)
		if ok {
			return name, j, end, true
		}
		i = j + 1
	}
	return "", 0, 0, false
}

// nextSection finds the leftmost section block at or after offset i.
// A block runs from an opening tag to the nearest closing tag of any
// name; an opening tag with no closing tag after it is plain text.
func nextSection(src string, i int) (section, bool) {
	for i <= len(src) {
		j := strings.Index(src[i:], openSection)
		if j < 0 {
			return section{}, false
		}
		j += i

		name, bodyStart, ok := tagAt(src, j, openSection)
		if ok {
			closing, bodyEnd, end, ok := nextClose(src, bodyStart)
			if ok {
				return section{
					start:   j,
					end:     end,
					name:    name,
					closing: closing,
					body:    src[bodyStart:bodyEnd],
				}, true
			}
		}
		i = j + 1
	}
	return section{}, false
}

// scanSections locates every non-overlapping section block in src,
// left to right.
func scanSections(src string) []section {
	var sections []section
	for i := 0; ; {
		s, ok := nextSection(src, i)
		if !ok {
			return sections
		}
		sections = append(sections, s)
		i = s.end
	}
}

// valueAt parses a value placeholder at offset i, returning its path
// and the offset just past it. Paths are word runs separated by
// single dots.
func valueAt(src string, i int) (path string, end int, ok bool) {
	if !strings.HasPrefix(src[i:], openValue) {
		return "", 0, false
	}

	start := i + len(openValue)
	stop := wordAt(src, start)
	if stop == start {
		return "", 0, false
	}
	for stop < len(src) && src[stop] == '.' {
		next := wordAt(src, stop+1)
		if next == stop+1 {
			return "", 0, false
		}
		stop = next
	}

	if !strings.HasPrefix(src[stop:], closeTag) {
		return "", 0, false
	}
	return src[start:stop], stop + len(closeTag), true
}
