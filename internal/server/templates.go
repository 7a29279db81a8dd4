package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/vanshika/foodiefusion/internal/config"
	"github.com/vanshika/foodiefusion/internal/richtext"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"home", "recipes", "recipe", "category", "search", "page", "not_found", "error"}

// pageData is what the layout template receives. Data carries the page body.
type pageData struct {
	Site        config.SiteConfig
	Title       string
	Description string
	Path        string
	Year        int
	Data        any
}

// Renderer executes the embedded templates. Pages are rendered into a buffer
// first so a template failure never leaves a half-written response.
type Renderer struct {
	site      config.SiteConfig
	pages     map[string]*template.Template
	fragments *template.Template
	now       func() time.Time
}

// NewRenderer parses every page against the shared layout and partials.
// policy decides how CMS HTML is embedded.
func NewRenderer(site config.SiteConfig, policy *richtext.Policy) (*Renderer, error) {
	funcs := template.FuncMap{
		"rich":     policy.HTML,
		"longDate": longDate,
	}

	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{site: site, pages: make(map[string]*template.Template, len(pageNames)), now: time.Now}
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = page
	}

	r.fragments, err = template.New("fragments").Funcs(funcs).ParseFS(templateFS, "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}
	return r, nil
}

// Page renders a full HTML page.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data pageData) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	data.Site = r.site
	data.Year = r.now().Year()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return writeHTML(w, status, buf.Bytes())
}

// Fragment renders a named partial without the layout.
func (r *Renderer) Fragment(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render fragment %s: %w", name, err)
	}
	return writeHTML(w, status, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func longDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}
