package richtext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	nonSlugChars     = regexp.MustCompile(`[^\w-]+`)
	headingIDPattern = regexp.MustCompile(`^[\w-]+$`)
)

// Heading is one table-of-contents entry.
type Heading struct {
	ID   string
	Text string
}

// Slugify derives an anchor id from heading text: lower-case, whitespace runs
// become hyphens, anything else outside [A-Za-z0-9_-] is dropped.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}

// TOC collects h2 headings across the fragments of one page. Fragments must
// be processed in the order they are rendered.
type TOC struct {
	// Dedupe appends -2, -3, ... to ids already used on the page. When false,
	// repeated heading text yields repeated ids.
	Dedupe bool

	headings []Heading
	used     map[string]struct{}
}

// NewTOC returns an empty builder.
func NewTOC(dedupe bool) *TOC {
	return &TOC{Dedupe: dedupe, used: make(map[string]struct{})}
}

// Headings returns the entries collected so far, in document order.
func (t *TOC) Headings() []Heading {
	return append([]Heading(nil), t.headings...)
}

// Process finds every h2 in fragment, records it and writes its id back into
// the markup. Headings with no text are left untouched. On a parse failure the
// fragment is returned unchanged with the error.
func (t *TOC) Process(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}
	if t.used == nil {
		t.used = make(map[string]struct{})
	}

	doc, err := parseFragment(fragment)
	if err != nil {
		return fragment, fmt.Errorf("parse fragment: %w", err)
	}

	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		id := Slugify(text)
		if id == "" {
			return
		}
		if t.Dedupe {
			id = t.unique(id)
		}
		t.used[id] = struct{}{}
		t.headings = append(t.headings, Heading{ID: id, Text: text})
		s.SetAttr("id", id)
	})

	out, err := doc.Html()
	if err != nil {
		return fragment, fmt.Errorf("render fragment: %w", err)
	}
	return out, nil
}

func (t *TOC) unique(base string) string {
	id := base
	for n := 2; ; n++ {
		if _, taken := t.used[id]; !taken {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// parseFragment parses fragment in a <body> context under a detached <div>.
// Rendering the returned document yields the fragment without a page wrapper.
func parseFragment(fragment string) (*goquery.Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// PlainText returns the text content of fragment with whitespace collapsed.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := parseFragment(fragment)
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(doc.Text(), " "))
}
