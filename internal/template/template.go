package template

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mtlprog/bison-admin/internal/view"
	"github.com/russross/blackfriday/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// chipClass maps a chip kind to its CSS classes.
func chipClass(kind view.ChipKind) string {
	switch kind {
	case view.ChipAll:
		return "chip chip-blue"
	case view.ChipUnsupported:
		return "chip chip-red"
	default:
		return "chip chip-green"
	}
}

// funcMap provides custom template functions.
var funcMap = template.FuncMap{
	"chipClass": chipClass,
	"formPath": func(id, action string) string {
		return "/subs/new/" + url.PathEscape(id) + "/" + action
	},
	"tagVals": func(action, tag string) string {
		vals := map[string]string{"action": action}
		if tag != "" {
			vals["tag"] = tag
		}
		b, _ := json.Marshal(vals)
		return string(b)
	},
	"markdown": func(s string) template.HTML {
		extensions := blackfriday.CommonExtensions | blackfriday.Autolink
		renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags,
		})
		unsafe := blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))
		// Notices and hints come from operator config and the backend; sanitize anyway.
		p := bluemonday.UGCPolicy()
		p.AddTargetBlankToFullyQualifiedLinks(true)
		return template.HTML(p.SanitizeBytes(unsafe))
	},
}

// Templates holds parsed HTML templates.
type Templates struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// New parses and returns all templates.
func New() (*Templates, error) {
	pages := make(map[string]*template.Template)

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	pageNames := []string{"config.html", "log.html", "login.html"}

	for _, name := range pageNames {
		pageTemplate, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err = pageTemplate.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		pages[name] = pageTemplate
	}

	fragments, err := template.New("fragments").Funcs(funcMap).ParseFS(templateFS, "templates/modal.html", "templates/config.html")
	if err != nil {
		return nil, fmt.Errorf("parsing fragments: %w", err)
	}

	return &Templates{pages: pages, fragments: fragments}, nil
}

// Render executes the named page inside the base layout.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderFragment executes a named partial (e.g. "modal") without the layout.
func (t *Templates) RenderFragment(w io.Writer, name string, data any) error {
	if t.fragments.Lookup(name) == nil {
		return fmt.Errorf("fragment %s not found", name)
	}
	return t.fragments.ExecuteTemplate(w, name, data)
}
