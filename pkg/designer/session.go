// Package designer ties the document model, the GXSI serializer, and the
// renderer registry into one editing session: mutate the document, preview it
// through a registered renderer, export the paired formulário artifacts.
package designer

import (
	"context"
	"fmt"

	"github.com/goliatone/go-gxsi/pkg/gxsi"
	"github.com/goliatone/go-gxsi/pkg/model"
	"github.com/goliatone/go-gxsi/pkg/render"
	theme "github.com/goliatone/go-theme"
)

// Artifact is one exported file: its suggested name, MIME type, and payload.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export artifact names. Both carry the same serialized bytes; the .gfe copy
// exists because the consuming system imports that extension.
const (
	XMLArtifactName = "formulario.xml"
	GFEArtifactName = "formulario.gfe"
)

// Session is an editing session over one document.
type Session struct {
	doc             *model.Document
	renderers       *render.Registry
	defaultRenderer string

	themes       theme.ThemeSelector
	themeName    string
	themeVariant string
}

// Option customizes a Session.
type Option func(*Session)

// WithDocument seeds the session with an existing document instead of an
// empty one.
func WithDocument(doc *model.Document) Option {
	return func(s *Session) {
		if doc != nil {
			s.doc = doc
		}
	}
}

// WithRegistry replaces the renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Session) {
		if registry != nil {
			s.renderers = registry
		}
	}
}

// WithRenderer registers a renderer; the first one registered this way
// becomes the default for Preview calls that name no renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Session) {
		s.renderers.MustRegister(renderer)
		if s.defaultRenderer == "" {
			s.defaultRenderer = renderer.Name()
		}
	}
}

// WithDefaultRenderer sets the renderer Preview falls back to.
func WithDefaultRenderer(name string) Option {
	return func(s *Session) {
		s.defaultRenderer = name
	}
}

// WithThemeSelector passes a go-theme selector so previews can resolve a
// theme into CSS variables.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(s *Session) {
		s.themes = selector
	}
}

// WithTheme names the theme (and optional variant) to resolve on preview.
func WithTheme(name, variant string) Option {
	return func(s *Session) {
		s.themeName = name
		s.themeVariant = variant
	}
}

// New creates a session with an empty document unless WithDocument overrides
// it.
func New(opts ...Option) *Session {
	session := &Session{
		doc:       model.NewDocument(),
		renderers: render.NewRegistry(),
	}
	for _, opt := range opts {
		opt(session)
	}
	return session
}

// Document exposes the session's document for mutation.
func (s *Session) Document() *model.Document {
	return s.doc
}

// Preview renders the current document with the named renderer, or the
// session default when name is empty.
func (s *Session) Preview(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		name = s.defaultRenderer
	}
	if name == "" {
		return nil, ErrNoRenderer
	}
	renderer, err := s.renderers.Get(name)
	if err != nil {
		return nil, err
	}

	cfg, err := s.themeConfig()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, s.doc, render.Options{Theme: cfg})
}

// Export serializes the document once and returns the two artifacts the
// consuming system expects: the XML file and its .gfe twin with identical
// bytes.
func (s *Session) Export() ([]Artifact, error) {
	data, err := gxsi.Marshal(s.doc)
	if err != nil {
		return nil, err
	}
	return []Artifact{
		{Name: XMLArtifactName, ContentType: "application/xml", Data: data},
		{Name: GFEArtifactName, ContentType: "application/octet-stream", Data: data},
	}, nil
}

// themeConfig resolves the configured theme into renderer options. Variant
// tokens override base manifest tokens; every token doubles as a --prefixed
// CSS variable.
func (s *Session) themeConfig() (*render.ThemeConfig, error) {
	if s.themes == nil || s.themeName == "" {
		return nil, nil
	}
	selection, err := s.themes.Select(s.themeName, s.themeVariant)
	if err != nil {
		return nil, fmt.Errorf("designer: select theme %q: %w", s.themeName, err)
	}
	if selection == nil {
		return nil, nil
	}

	cfg := &render.ThemeConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}
	manifest := selection.Manifest
	if manifest == nil {
		return cfg, nil
	}

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	cfg.Tokens = tokens
	cfg.CSSVars = make(map[string]string, len(tokens))
	for key, value := range tokens {
		cfg.CSSVars["--"+key] = value
	}
	return cfg, nil
}
