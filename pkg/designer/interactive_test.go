package designer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-gxsi/pkg/model"
	"github.com/google/go-cmp/cmp"
)

// scriptDriver replays canned answers, matching Select prompts by option
// label so tests do not depend on menu ordering.
type scriptDriver struct {
	t        *testing.T
	inputs   []string
	confirms []bool
	texts    []string
	selects  []string
	infos    []string
}

func (d *scriptDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.t.Helper()
	if len(d.inputs) == 0 {
		d.t.Fatalf("unexpected input prompt: %s", cfg.Message)
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(out); err != nil {
			d.t.Fatalf("scripted answer %q rejected: %v", out, err)
		}
	}
	return out, nil
}

func (d *scriptDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.t.Helper()
	if len(d.confirms) == 0 {
		d.t.Fatalf("unexpected confirm prompt: %s", cfg.Message)
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.t.Helper()
	if len(d.selects) == 0 {
		d.t.Fatalf("unexpected select prompt: %s", cfg.Message)
	}
	want := d.selects[0]
	d.selects = d.selects[1:]
	for i, option := range cfg.Options {
		if option == want {
			return i, nil
		}
	}
	d.t.Fatalf("option %q not offered by prompt %s (have %v)", want, cfg.Message, cfg.Options)
	return 0, nil
}

func (d *scriptDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	d.t.Helper()
	if len(d.texts) == 0 {
		d.t.Fatalf("unexpected textarea prompt: %s", cfg.Message)
	}
	out := d.texts[0]
	d.texts = d.texts[1:]
	return out, nil
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestInteractive_BuildsFormThroughPrompts(t *testing.T) {
	session := New()
	driver := &scriptDriver{
		t: t,
		selects: []string{
			menuRename,
			menuAddSection,
			menuAddField, "Dados", "texto",
			menuAddField, "Dados", "grupoRadio",
			menuExport,
			menuQuit,
		},
		// form name; section title and width; text field title and max
		// length; radio title, columns, options (blank ends the list)
		inputs: []string{
			"Cadastro",
			"Dados", "",
			"Nome", "80",
			"Sexo", "2", "Masculino", "Feminino", "",
		},
		// required / in-table per field
		confirms: []bool{true, false, true, false},
	}

	var saved []Artifact
	interactive := NewInteractive(session, driver, WithSaveFunc(func(artifact Artifact) error {
		saved = append(saved, artifact)
		return nil
	}))
	if err := interactive.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	doc := session.Document()
	if doc.Form.Name != "Cadastro" {
		t.Fatalf("form name: %s", doc.Form.Name)
	}
	if len(doc.Form.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Form.Sections))
	}
	section := doc.Form.Sections[0]
	if section.Width != model.DefaultSectionWidth {
		t.Fatalf("blank width must fall back to default, got %d", section.Width)
	}
	if len(section.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(section.Fields))
	}

	text := section.Fields[0]
	if text.Type != model.FieldTypeText || !text.Required || text.MaxLength != 80 {
		t.Fatalf("text field mismatch: %+v", text)
	}

	radio := section.Fields[1]
	if radio.Type != model.FieldTypeRadioGroup || radio.Columns != 2 {
		t.Fatalf("radio group mismatch: %+v", radio)
	}
	if radio.DomainKey != "SEXO" {
		t.Fatalf("domain key: %s", radio.DomainKey)
	}
	want := []model.OptionItem{
		{Description: "Masculino", Value: "MASCULINO"},
		{Description: "Feminino", Value: "FEMININO"},
	}
	if diff := cmp.Diff(want, doc.Registry.Items("SEXO")); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	if len(saved) != 2 {
		t.Fatalf("expected 2 saved artifacts, got %d", len(saved))
	}
	if !bytes.Equal(saved[0].Data, saved[1].Data) {
		t.Fatalf("saved artifacts must carry identical bytes")
	}
	if len(driver.infos) == 0 || !strings.Contains(driver.infos[len(driver.infos)-1], XMLArtifactName) {
		t.Fatalf("export confirmation missing: %v", driver.infos)
	}
}

func TestInteractive_ReportsValidationAndContinues(t *testing.T) {
	session := New()
	driver := &scriptDriver{
		t:       t,
		selects: []string{menuAddSection, menuQuit},
		inputs:  []string{"", ""}, // blank title, width
	}

	interactive := NewInteractive(session, driver)
	if err := interactive.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(session.Document().Form.Sections) != 0 {
		t.Fatalf("blank title must not create a section")
	}
	if len(driver.infos) != 1 || !strings.HasPrefix(driver.infos[0], "error:") {
		t.Fatalf("validation failure must be reported: %v", driver.infos)
	}
}

func TestInteractive_AbortLeavesLoop(t *testing.T) {
	session := New()
	driver := &abortDriver{}
	if err := NewInteractive(session, driver).Run(context.Background()); err != nil {
		t.Fatalf("abort must end the loop cleanly, got %v", err)
	}
}

type abortDriver struct{}

func (d *abortDriver) Input(context.Context, InputConfig) (string, error) { return "", ErrAborted }
func (d *abortDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	return false, ErrAborted
}
func (d *abortDriver) Select(context.Context, SelectConfig) (int, error) { return 0, ErrAborted }
func (d *abortDriver) TextArea(context.Context, TextAreaConfig) (string, error) {
	return "", ErrAborted
}
func (d *abortDriver) Info(context.Context, string) error { return nil }
