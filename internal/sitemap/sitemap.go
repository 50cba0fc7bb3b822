// Package sitemap builds the sitemaps.org list-of-locations document
// for a generated site.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// Namespace is the sitemaps.org schema namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq is how often a location is expected to change.
type ChangeFreq string

const (
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
)

const (
	rootPriority = "1.0"
	pagePriority = "0.7"
)

// Entry is a single location in a sitemap.
type Entry struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod"`
	ChangeFreq ChangeFreq `xml:"changefreq"`
	Priority   string     `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []Entry  `xml:"url"`
}

// Entries returns the root entry followed by one entry per generated
// path, in order. Every entry carries the UTC date of now.
func Entries(baseURL string, paths []string, now time.Time) []Entry {
	base := strings.TrimRight(baseURL, "/")
	lastmod := now.UTC().Format(time.DateOnly)

	entries := make([]Entry, 0, len(paths)+1)
	entries = append(entries, Entry{
		Loc:        base + "/",
		LastMod:    lastmod,
		ChangeFreq: Weekly,
		Priority:   rootPriority,
	})
	for _, p := range paths {
		entries = append(entries, Entry{
			Loc:        base + "/" + p + "/",
			LastMod:    lastmod,
			ChangeFreq: Monthly,
			Priority:   pagePriority,
		})
	}
	return entries
}

// Marshal encodes entries as a complete sitemap document, XML header
// included.
func Marshal(entries []Entry) ([]byte, error) {
	doc, err := xml.MarshalIndent(urlSet{XMLNS: Namespace, URLs: entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), doc...), nil
}
