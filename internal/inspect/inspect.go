// Package inspect examines rendered pages for template tags that
// survived rendering, such as an opening section tag with no closing
// tag.
package inspect

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const (
	tagStart = "{{"
	maxSnip  = 40
)

// Leftovers parses doc as HTML and returns a snippet for every text
// node, comment or attribute value that still contains "{{".
func Leftovers(doc []byte) ([]string, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var found []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode, html.CommentNode:
			found = appendSnips(found, node.Data)
		case html.ElementNode:
			for _, attr := range node.Attr {
				found = appendSnips(found, attr.Val)
			}
		}

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return found, nil
}

func appendSnips(found []string, text string) []string {
	for {
		i := strings.Index(text, tagStart)
		if i < 0 {
			return found
		}

		end := i + maxSnip
		if end > len(text) {
			end = len(text)
		}
		if j := strings.Index(text[i:end], "}}"); j >= 0 {
			end = i + j + 2
		}
		found = append(found, text[i:end])
		text = text[end:]
	}
}
