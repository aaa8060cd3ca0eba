// Package htmlpreview renders the editing session as a standalone HTML page:
// a lossless, read-only projection of the model used as the live preview.
package htmlpreview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-gxsi/pkg/model"
	"github.com/goliatone/go-gxsi/pkg/render"
)

const templateName = "preview.html"

// Option configures the renderer before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	policy    *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithSanitizer overrides the policy applied to paragraph/label text before
// it is embedded in the page.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer implements render.Renderer over a pongo2 template set.
type Renderer struct {
	template *pongo2.Template
	policy   *bluemonday.Policy
}

// New constructs the preview renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templates: TemplatesFS(),
		policy:    bluemonday.UGCPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	set := pongo2.NewSet("htmlpreview", pongo2.NewFSLoader(cfg.templates))
	tpl, err := set.FromFile(templateName)
	if err != nil {
		return nil, fmt.Errorf("htmlpreview: load template: %w", err)
	}

	return &Renderer{template: tpl, policy: cfg.policy}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the media type of the rendered output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the preview page. The projection is read-only and total:
// any valid session renders.
func (r *Renderer) Render(ctx context.Context, doc *model.Document, options render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("htmlpreview: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("htmlpreview: document is required")
	}

	data := pongo2.Context{
		"name":     doc.Form.Name,
		"version":  doc.Form.Version,
		"sections": r.sectionViews(doc),
		"cssVars":  cssVars(options.Theme),
	}

	out, err := r.template.Execute(data)
	if err != nil {
		return nil, fmt.Errorf("htmlpreview: execute template: %w", err)
	}
	return []byte(out), nil
}

// SectionView is the template-facing shape of one section: fields collapsed
// into groups mirroring the serializer's run-length table grouping.
type SectionView struct {
	Title  string
	Width  int
	Groups []GroupView
}

// GroupView is either one stand-alone field or a table run.
type GroupView struct {
	Table  bool
	Fields []FieldView
}

// FieldView flattens a field for the template.
type FieldView struct {
	Kind      string
	Display   bool
	Text      string
	Title     string
	Required  bool
	Width     int
	Height    int
	MaxLength int
	Columns   int
	Multiline bool
	Choice    bool
	InputType string
	DomainKey string
	Options   []model.OptionItem
}

func (r *Renderer) sectionViews(doc *model.Document) []SectionView {
	views := make([]SectionView, 0, len(doc.Form.Sections))
	for _, section := range doc.Form.Sections {
		view := SectionView{Title: section.Title, Width: section.Width}
		for _, group := range groupFields(section.Fields) {
			grouped := GroupView{Table: group.table}
			for _, field := range group.fields {
				grouped.Fields = append(grouped.Fields, r.fieldView(doc, field))
			}
			view.Groups = append(view.Groups, grouped)
		}
		views = append(views, view)
	}
	return views
}

type fieldGroup struct {
	table  bool
	fields []model.Field
}

// groupFields applies the same maximal-consecutive-run rule as the
// serializer, so the preview shows tables exactly where the XML will.
func groupFields(fields []model.Field) []fieldGroup {
	var groups []fieldGroup
	for i := 0; i < len(fields); {
		if !fields[i].InTable {
			groups = append(groups, fieldGroup{fields: []model.Field{fields[i]}})
			i++
			continue
		}
		run := i
		for run < len(fields) && fields[run].InTable {
			run++
		}
		groups = append(groups, fieldGroup{table: true, fields: fields[i:run]})
		i = run
	}
	return groups
}

func (r *Renderer) fieldView(doc *model.Document, field model.Field) FieldView {
	caps := field.Type.Capabilities()
	view := FieldView{
		Kind:      string(field.Type),
		Title:     field.Title,
		Required:  field.Required,
		Width:     field.Width,
		Height:    field.Height,
		MaxLength: field.MaxLength,
		Columns:   field.Columns,
	}

	switch {
	case caps.TakesValue:
		view.Display = true
		view.Text = r.policy.Sanitize(field.Value)
	case caps.TakesDomain:
		view.Choice = true
		view.DomainKey = field.DomainKey
		view.Options = doc.Registry.Items(field.DomainKey)
		view.InputType = "radio"
		if field.Type == model.FieldTypeCheckGroup {
			view.InputType = "checkbox"
		}
	case caps.TakesHeight:
		view.Multiline = true
	default:
		view.InputType = inputType(field.Type)
	}
	return view
}

func inputType(fieldType model.FieldType) string {
	switch fieldType {
	case model.FieldTypeDate:
		return "date"
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypePhone:
		return "tel"
	case model.FieldTypeCheck:
		return "checkbox"
	default:
		return "text"
	}
}

// cssVars flattens a theme selection into a declaration list for the page's
// :root block, keys sorted for stable output.
func cssVars(theme *render.ThemeConfig) string {
	if theme == nil || len(theme.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(theme.CSSVars))
	for key := range theme.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, key := range keys {
		out.WriteString(key)
		out.WriteString(": ")
		out.WriteString(theme.CSSVars[key])
		out.WriteString("; ")
	}
	return strings.TrimSpace(out.String())
}
