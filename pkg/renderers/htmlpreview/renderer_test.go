package htmlpreview

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-gxsi/pkg/model"
	"github.com/goliatone/go-gxsi/pkg/render"
)

func sampleDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := model.NewDocument()
	doc.SetName("Cadastro")
	if err := doc.AddSection("Dados", 520); err != nil {
		t.Fatalf("add section: %v", err)
	}
	fields := []model.FieldSpec{
		{Type: model.FieldTypeText, Title: "Nome", Required: true, MaxLength: 80},
		{Type: model.FieldTypeTextArea, Title: "Observações", Height: 120},
		{Type: model.FieldTypeCheckGroup, Title: "Preferências", Columns: 2,
			Options: []model.OptionItem{{Description: "Opção A"}, {Description: "Opção B"}}},
		{Type: model.FieldTypeParagraph, Value: "Preencha <b>todos</b> os campos."},
	}
	for _, spec := range fields {
		if err := doc.AddField(0, spec); err != nil {
			t.Fatalf("add field %q: %v", spec.Title, err)
		}
	}
	return doc
}

func TestRenderer_Render(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), sampleDocument(t), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(out)

	for _, fragment := range []string{
		"<h1>Cadastro</h1>",
		"<h2>Dados</h2>",
		"Nome",
		`maxlength="80"`,
		"<textarea",
		`type="checkbox"`,
		"Opção A",
		"Preencha <b>todos</b> os campos.",
	} {
		if !strings.Contains(page, fragment) {
			t.Fatalf("preview missing %q:\n%s", fragment, page)
		}
	}
}

func TestRenderer_SanitizesParagraphMarkup(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	doc := model.NewDocument()
	if err := doc.AddSection("Dados", 500); err != nil {
		t.Fatalf("add section: %v", err)
	}
	err = doc.AddField(0, model.FieldSpec{
		Type:  model.FieldTypeParagraph,
		Value: `<script>alert("x")</script><em>ok</em>`,
	})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}

	out, err := renderer.Render(context.Background(), doc, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(out)
	if strings.Contains(page, "<script>") {
		t.Fatalf("script tags must be stripped:\n%s", page)
	}
	if !strings.Contains(page, "<em>ok</em>") {
		t.Fatalf("benign markup must survive:\n%s", page)
	}
}

func TestRenderer_TableRunsShareAGroup(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	doc := model.NewDocument()
	if err := doc.AddSection("Dados", 500); err != nil {
		t.Fatalf("add section: %v", err)
	}
	for i, inTable := range []bool{true, true, false} {
		err := doc.AddField(0, model.FieldSpec{
			Type:    model.FieldTypeText,
			Title:   "Campo " + string(rune('A'+i)),
			InTable: inTable,
		})
		if err != nil {
			t.Fatalf("add field: %v", err)
		}
	}

	out, err := renderer.Render(context.Background(), doc, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.Count(string(out), `class="table-group"`); got != 1 {
		t.Fatalf("expected one table group, got %d:\n%s", got, out)
	}
}

func TestRenderer_ThemeTokensBecomeCSSVars(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), sampleDocument(t), render.Options{
		Theme: &render.ThemeConfig{
			Theme:   "acme",
			CSSVars: map[string]string{"--brand": "#123456", "--surface": "#fafafa"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "--brand: #123456; --surface: #fafafa;") {
		t.Fatalf("css vars missing from page:\n%s", out)
	}
}

func TestRenderer_NilDocument(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := renderer.Render(context.Background(), nil, render.Options{}); err == nil {
		t.Fatalf("nil document must fail")
	}
}
