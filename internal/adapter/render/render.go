// Package render turns view snapshots into HTML with the embedded
// templates. Every card and detail variant is a pure function of its item.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"zerde-web/internal/domain"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages rendered inside the shared layout.
const (
	PageHome     = "home"
	PageModule   = "module"
	PageNotFound = "notfound"
)

// Partials rendered on their own for HTMX swaps.
const (
	PartialSearch        = "search"
	PartialSearchResults = "search_results"
	PartialPageBody      = "page_body"
)

type Renderer struct {
	base   *template.Template
	pages  map[string]*template.Template
	policy *bluemonday.Policy
	now    func() time.Time
}

type Option func(*Renderer)

// WithClock fixes the time used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
		pages:  make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(r)
	}

	base, err := template.New("").Funcs(r.funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.base = base

	for _, name := range []string{PageHome, PageModule, PageNotFound} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone templates for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = clone
	}
	return r, nil
}

// Page writes a full document.
func (r *Renderer) Page(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Partial writes one fragment without the layout.
func (r *Renderer) Partial(w io.Writer, name string, data any) error {
	return r.base.ExecuteTemplate(w, name, data)
}

// Static is the embedded stylesheet directory served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"include":     r.include,
		"formatStars": domain.FormatStars,
		"timeAgo":     r.timeAgo,
		"initial":     domain.Initial,
		"label":       domain.LabelOf,
		"sanitize":    r.sanitize,
		"detail":      DetailFor,
		"msgLoading":  func() string { return MsgLoading },
		"msgError":    func() string { return MsgError },
		"msgEmpty":    func() string { return MsgEmpty },
	}
}

// include renders a named partial so callers can pick the template at run time.
func (r *Renderer) include(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.base.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) timeAgo(pubDate string) string {
	return domain.TimeAgo(pubDate, r.now())
}

// sanitize strips all markup from API text. The strict policy output carries
// no tags, so it is passed through unescaped.
func (r *Renderer) sanitize(s string) template.HTML {
	return template.HTML(r.policy.Sanitize(s))
}
