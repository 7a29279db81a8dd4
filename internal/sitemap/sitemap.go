// Package sitemap renders the sitemaps.org XML document for the site.
package sitemap

import (
	"encoding/xml"
	"io"
	"strings"
)

const namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet is the document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is one page entry.
type URL struct {
	Loc string `xml:"loc"`
}

// Build turns site-relative paths into absolute locations under baseURL.
// Duplicate paths are listed once, in first-seen order.
func Build(baseURL string, paths []string) URLSet {
	base := strings.TrimRight(baseURL, "/")
	set := URLSet{XMLNS: namespace, URLs: make([]URL, 0, len(paths))}
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		set.URLs = append(set.URLs, URL{Loc: base + p})
	}
	return set
}

// Write encodes set with an XML header.
func Write(w io.Writer, set URLSet) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return err
	}
	return enc.Close()
}
