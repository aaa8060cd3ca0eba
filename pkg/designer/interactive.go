package designer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-gxsi/pkg/model"
)

// Menu labels. Kept as constants so scripted drivers can match on them.
const (
	menuRename        = "Rename form"
	menuAddSection    = "Add section"
	menuEditSection   = "Edit section"
	menuRemoveSection = "Remove section"
	menuAddField      = "Add field"
	menuEditField     = "Edit field"
	menuRemoveField   = "Remove field"
	menuPreview       = "Preview"
	menuExport        = "Export"
	menuQuit          = "Quit"
)

var menuOptions = []string{
	menuRename,
	menuAddSection,
	menuEditSection,
	menuRemoveSection,
	menuAddField,
	menuEditField,
	menuRemoveField,
	menuPreview,
	menuExport,
	menuQuit,
}

// Interactive runs a menu-driven editing loop over a session through a
// PromptDriver.
type Interactive struct {
	session *Session
	driver  PromptDriver
	save    func(Artifact) error
}

// InteractiveOption customizes the editing loop.
type InteractiveOption func(*Interactive)

// WithSaveFunc replaces how exported artifacts are persisted. The default
// writes them to the working directory.
func WithSaveFunc(fn func(Artifact) error) InteractiveOption {
	return func(i *Interactive) {
		if fn != nil {
			i.save = fn
		}
	}
}

// NewInteractive wires a session to a prompt driver.
func NewInteractive(session *Session, driver PromptDriver, opts ...InteractiveOption) *Interactive {
	interactive := &Interactive{
		session: session,
		driver:  driver,
		save: func(artifact Artifact) error {
			return os.WriteFile(artifact.Name, artifact.Data, 0o644)
		},
	}
	for _, opt := range opts {
		opt(interactive)
	}
	return interactive
}

// Run loops until the user quits or aborts. Validation failures are reported
// through the driver and the loop continues; driver failures end it.
func (i *Interactive) Run(ctx context.Context) error {
	for {
		choice, err := i.driver.Select(ctx, SelectConfig{
			Message: "Formulário designer",
			Options: menuOptions,
		})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(menuOptions) {
			continue
		}

		switch menuOptions[choice] {
		case menuRename:
			err = i.rename(ctx)
		case menuAddSection:
			err = i.addSection(ctx)
		case menuEditSection:
			err = i.editSection(ctx)
		case menuRemoveSection:
			err = i.removeSection(ctx)
		case menuAddField:
			err = i.addField(ctx)
		case menuEditField:
			err = i.editField(ctx)
		case menuRemoveField:
			err = i.removeField(ctx)
		case menuPreview:
			err = i.preview(ctx)
		case menuExport:
			err = i.export(ctx)
		case menuQuit:
			return nil
		}

		switch {
		case err == nil:
		case errors.Is(err, ErrAborted):
			// Abort inside a flow cancels that flow, not the session.
		case isDriverErr(err):
			return err
		default:
			if infoErr := i.driver.Info(ctx, "error: "+err.Error()); infoErr != nil {
				return infoErr
			}
		}
	}
}

func (i *Interactive) rename(ctx context.Context) error {
	name, err := i.driver.Input(ctx, InputConfig{
		Message: "Form name",
		Default: i.session.Document().Form.Name,
	})
	if err != nil {
		return err
	}
	i.session.Document().SetName(strings.TrimSpace(name))
	return nil
}

func (i *Interactive) addSection(ctx context.Context) error {
	title, err := i.driver.Input(ctx, InputConfig{Message: "Section title"})
	if err != nil {
		return err
	}
	width, err := i.intInput(ctx, "Section width", model.DefaultSectionWidth)
	if err != nil {
		return err
	}
	return i.session.Document().AddSection(title, width)
}

func (i *Interactive) editSection(ctx context.Context) error {
	index, section, err := i.pickSection(ctx)
	if err != nil {
		return err
	}
	title, err := i.driver.Input(ctx, InputConfig{
		Message: "Section title",
		Default: section.Title,
	})
	if err != nil {
		return err
	}
	width, err := i.intInput(ctx, "Section width", section.Width)
	if err != nil {
		return err
	}
	return i.session.Document().EditSection(index, title, width)
}

func (i *Interactive) removeSection(ctx context.Context) error {
	index, section, err := i.pickSection(ctx)
	if err != nil {
		return err
	}
	ok, err := i.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Remove section %q and its fields?", section.Title),
	})
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return i.session.Document().RemoveSection(index)
}

func (i *Interactive) addField(ctx context.Context) error {
	sectionIndex, _, err := i.pickSection(ctx)
	if err != nil {
		return err
	}
	fieldType, err := i.pickFieldType(ctx)
	if err != nil {
		return err
	}
	spec, err := i.fieldSpec(ctx, fieldType, model.FieldSpec{Type: fieldType})
	if err != nil {
		return err
	}
	return i.session.Document().AddField(sectionIndex, spec)
}

func (i *Interactive) editField(ctx context.Context) error {
	sectionIndex, fieldIndex, field, err := i.pickField(ctx)
	if err != nil {
		return err
	}
	defaults := model.FieldSpec{
		Type:      field.Type,
		Title:     field.Title,
		Required:  field.Required,
		Width:     field.Width,
		Height:    field.Height,
		MaxLength: field.MaxLength,
		Value:     field.Value,
		Columns:   field.Columns,
		InTable:   field.InTable,
		Options:   i.session.Document().Registry.Items(field.DomainKey),
	}
	spec, err := i.fieldSpec(ctx, field.Type, defaults)
	if err != nil {
		return err
	}
	return i.session.Document().EditField(sectionIndex, fieldIndex, spec)
}

func (i *Interactive) removeField(ctx context.Context) error {
	sectionIndex, fieldIndex, field, err := i.pickField(ctx)
	if err != nil {
		return err
	}
	ok, err := i.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Remove field %q?", fieldLabel(*field)),
	})
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return i.session.Document().RemoveField(sectionIndex, fieldIndex)
}

func (i *Interactive) preview(ctx context.Context) error {
	out, err := i.session.Preview(ctx, "")
	if err != nil {
		return err
	}
	return i.driver.Info(ctx, string(out))
}

func (i *Interactive) export(ctx context.Context) error {
	artifacts, err := i.session.Export()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		if err := i.save(artifact); err != nil {
			return fmt.Errorf("designer: save %s: %w", artifact.Name, err)
		}
		names = append(names, artifact.Name)
	}
	return i.driver.Info(ctx, "wrote "+strings.Join(names, ", "))
}

// fieldSpec walks the prompts a field type needs, seeded with defaults so the
// same flow serves add and edit.
func (i *Interactive) fieldSpec(ctx context.Context, fieldType model.FieldType, defaults model.FieldSpec) (model.FieldSpec, error) {
	caps := fieldType.Capabilities()
	spec := defaults
	spec.Type = fieldType

	var err error
	if caps.TakesTitle {
		spec.Title, err = i.driver.Input(ctx, InputConfig{Message: "Field title", Default: defaults.Title})
		if err != nil {
			return spec, err
		}
	}
	if caps.TakesValue {
		spec.Value, err = i.driver.TextArea(ctx, TextAreaConfig{Message: "Text", Default: defaults.Value})
		if err != nil {
			return spec, err
		}
	}
	if caps.TakesRequired {
		spec.Required, err = i.driver.Confirm(ctx, ConfirmConfig{Message: "Required?", Default: defaults.Required})
		if err != nil {
			return spec, err
		}
	}
	if caps.TakesHeight {
		spec.Height, err = i.intInput(ctx, "Field height", defaultInt(defaults.Height, model.DefaultFieldHeight))
		if err != nil {
			return spec, err
		}
	}
	if caps.TakesMaxLength {
		spec.MaxLength, err = i.intInput(ctx, "Max length (0 for none)", defaults.MaxLength)
		if err != nil {
			return spec, err
		}
	}
	if fieldType.IsChoiceGroup() {
		spec.Columns, err = i.intInput(ctx, "Columns", defaultInt(defaults.Columns, model.DefaultColumns))
		if err != nil {
			return spec, err
		}
		spec.Options, err = i.optionItems(ctx, defaults.Options)
		if err != nil {
			return spec, err
		}
	}
	spec.InTable, err = i.driver.Confirm(ctx, ConfirmConfig{Message: "Inside a table row?", Default: defaults.InTable})
	if err != nil {
		return spec, err
	}
	return spec, nil
}

func (i *Interactive) optionItems(ctx context.Context, defaults []model.OptionItem) ([]model.OptionItem, error) {
	keep := len(defaults) > 0
	if keep {
		var err error
		keep, err = i.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Keep the current %d option(s)?", len(defaults)),
			Default: true,
		})
		if err != nil {
			return nil, err
		}
	}
	if keep {
		return defaults, nil
	}

	var items []model.OptionItem
	for {
		description, err := i.driver.Input(ctx, InputConfig{
			Message: "Option description (blank to finish)",
		})
		if err != nil {
			return nil, err
		}
		description = strings.TrimSpace(description)
		if description == "" {
			return items, nil
		}
		items = append(items, model.OptionItem{Description: description})
	}
}

func (i *Interactive) pickSection(ctx context.Context) (int, *model.Section, error) {
	doc := i.session.Document()
	if len(doc.Form.Sections) == 0 {
		return 0, nil, errors.New("no sections yet")
	}
	titles := make([]string, len(doc.Form.Sections))
	for idx, section := range doc.Form.Sections {
		titles[idx] = section.Title
	}
	choice, err := i.driver.Select(ctx, SelectConfig{Message: "Section", Options: titles})
	if err != nil {
		return 0, nil, err
	}
	if choice < 0 || choice >= len(doc.Form.Sections) {
		return 0, nil, fmt.Errorf("%w: section %d", model.ErrIndexOutOfRange, choice)
	}
	return choice, &doc.Form.Sections[choice], nil
}

func (i *Interactive) pickField(ctx context.Context) (int, int, *model.Field, error) {
	sectionIndex, section, err := i.pickSection(ctx)
	if err != nil {
		return 0, 0, nil, err
	}
	if len(section.Fields) == 0 {
		return 0, 0, nil, errors.New("section has no fields")
	}
	labels := make([]string, len(section.Fields))
	for idx, field := range section.Fields {
		labels[idx] = fieldLabel(field)
	}
	choice, err := i.driver.Select(ctx, SelectConfig{Message: "Field", Options: labels})
	if err != nil {
		return 0, 0, nil, err
	}
	if choice < 0 || choice >= len(section.Fields) {
		return 0, 0, nil, fmt.Errorf("%w: field %d", model.ErrIndexOutOfRange, choice)
	}
	return sectionIndex, choice, &section.Fields[choice], nil
}

func (i *Interactive) pickFieldType(ctx context.Context) (model.FieldType, error) {
	types := model.FieldTypes()
	labels := make([]string, len(types))
	for idx, fieldType := range types {
		labels[idx] = string(fieldType)
	}
	choice, err := i.driver.Select(ctx, SelectConfig{
		Message:  "Field type",
		Options:  labels,
		PageSize: len(labels),
	})
	if err != nil {
		return "", err
	}
	if choice < 0 || choice >= len(types) {
		return "", model.ErrUnknownFieldType
	}
	return types[choice], nil
}

func (i *Interactive) intInput(ctx context.Context, message string, fallback int) (int, error) {
	raw, err := i.driver.Input(ctx, InputConfig{
		Message: message,
		Default: strconv.Itoa(fallback),
		Validator: func(value string) error {
			value = strings.TrimSpace(value)
			if value == "" {
				return nil
			}
			if _, err := strconv.Atoi(value); err != nil {
				return fmt.Errorf("%q is not a number", value)
			}
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, nil
	}
	return value, nil
}

func fieldLabel(field model.Field) string {
	if field.Title != "" {
		return field.Title
	}
	return string(field.Type)
}

func defaultInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

// isDriverErr reports whether err came from the terminal itself rather than
// a document mutation.
func isDriverErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
