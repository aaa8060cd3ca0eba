package designer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-gxsi/pkg/gxsi"
	"github.com/goliatone/go-gxsi/pkg/model"
	"github.com/goliatone/go-gxsi/pkg/render"
	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

type captureRenderer struct {
	calls   int
	doc     *model.Document
	options render.Options
}

func (r *captureRenderer) Name() string        { return "capture" }
func (r *captureRenderer) ContentType() string { return "text/plain" }

func (r *captureRenderer) Render(_ context.Context, doc *model.Document, options render.Options) ([]byte, error) {
	r.calls++
	r.doc = doc
	r.options = options
	return []byte("rendered " + doc.Form.Name), nil
}

type stubThemeSelector struct {
	selection *theme.Selection
	name      string
	variant   string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.name = name
	s.variant = variant
	return s.selection, nil
}

func sampleSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	session := New(opts...)
	doc := session.Document()
	doc.SetName("Cadastro")
	if err := doc.AddSection("Dados", 500); err != nil {
		t.Fatalf("add section: %v", err)
	}
	err := doc.AddField(0, model.FieldSpec{Type: model.FieldTypeText, Title: "Nome", Required: true})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	return session
}

func TestSession_ExportTwinArtifacts(t *testing.T) {
	session := sampleSession(t)

	artifacts, err := session.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(artifacts))
	}
	if artifacts[0].Name != XMLArtifactName || artifacts[1].Name != GFEArtifactName {
		t.Fatalf("unexpected artifact names: %s, %s", artifacts[0].Name, artifacts[1].Name)
	}
	if artifacts[0].ContentType != "application/xml" {
		t.Fatalf("xml content type: %s", artifacts[0].ContentType)
	}
	if artifacts[1].ContentType != "application/octet-stream" {
		t.Fatalf("gfe content type: %s", artifacts[1].ContentType)
	}
	if !bytes.Equal(artifacts[0].Data, artifacts[1].Data) {
		t.Fatalf("artifacts must carry identical bytes")
	}

	decoded, err := gxsi.Unmarshal(artifacts[0].Data)
	if err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if diff := cmp.Diff(session.Document().Form, decoded.Form); diff != "" {
		t.Fatalf("export round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_PreviewUsesDefaultRenderer(t *testing.T) {
	renderer := &captureRenderer{}
	session := sampleSession(t, WithRenderer(renderer))

	out, err := session.Preview(context.Background(), "")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if string(out) != "rendered Cadastro" {
		t.Fatalf("unexpected preview output: %s", out)
	}
	if renderer.calls != 1 || renderer.doc != session.Document() {
		t.Fatalf("renderer must receive the session document")
	}
}

func TestSession_PreviewResolvesTheme(t *testing.T) {
	renderer := &captureRenderer{}
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456", "surface": "#ffffff"},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#654321"}},
			},
		},
	}}
	session := sampleSession(t,
		WithRenderer(renderer),
		WithThemeSelector(selector),
		WithTheme("acme", "dark"),
	)

	if _, err := session.Preview(context.Background(), ""); err != nil {
		t.Fatalf("preview: %v", err)
	}
	if selector.name != "acme" || selector.variant != "dark" {
		t.Fatalf("selector args: %s/%s", selector.name, selector.variant)
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("theme identity mismatch: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["brand"] != "#654321" {
		t.Fatalf("variant token must override base, got %s", cfg.Tokens["brand"])
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from tokens, got %s", cfg.CSSVars["--brand"])
	}
	if cfg.CSSVars["--surface"] != "#ffffff" {
		t.Fatalf("base token missing from css vars, got %s", cfg.CSSVars["--surface"])
	}
}

func TestSession_PreviewWithoutRenderer(t *testing.T) {
	session := New()
	_, err := session.Preview(context.Background(), "")
	if err == nil {
		t.Fatalf("preview without a renderer must fail")
	}
	if !strings.Contains(err.Error(), "no renderer") {
		t.Fatalf("unexpected error: %v", err)
	}
}
