// Package model holds the document tree (form, sections, fields), the shared
// domain registry, and the mutation surface the presentation layer calls.
// All state is scoped to a Document passed explicitly; there are no package
// globals.
package model

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-gxsi/internal/normalize"
)

// Document is one editing session: the form under construction plus the
// domain registry its choice groups reference. Mutators validate first and
// leave the document untouched on failure.
type Document struct {
	Form     Form
	Registry *Registry
}

// NewDocument creates an empty session with default form metadata.
func NewDocument() *Document {
	return &Document{
		Form:     Form{Version: DefaultVersion},
		Registry: NewRegistry(),
	}
}

// Reset restores the session to its initial empty state.
func (d *Document) Reset() {
	d.Form = Form{Version: DefaultVersion}
	d.Registry = NewRegistry()
}

// SetName updates the form name.
func (d *Document) SetName(name string) {
	d.Form.Name = name
}

// SetVersion updates the form version, falling back to the default when
// blank.
func (d *Document) SetVersion(version string) {
	version = strings.TrimSpace(version)
	if version == "" {
		version = DefaultVersion
	}
	d.Form.Version = version
}

// AddSection appends a section. The title must be non-empty after trimming;
// a non-positive width falls back to the default.
func (d *Document) AddSection(title string, width int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptySectionTitle
	}
	if width <= 0 {
		width = DefaultSectionWidth
	}
	d.Form.Sections = append(d.Form.Sections, Section{Title: title, Width: width})
	return nil
}

// EditSection updates a section's title and width in place.
func (d *Document) EditSection(index int, title string, width int) error {
	if index < 0 || index >= len(d.Form.Sections) {
		return fmt.Errorf("%w: section %d", ErrIndexOutOfRange, index)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptySectionTitle
	}
	if width <= 0 {
		width = DefaultSectionWidth
	}
	d.Form.Sections[index].Title = title
	d.Form.Sections[index].Width = width
	return nil
}

// RemoveSection deletes a section and its fields, then sweeps domains the
// removed fields referenced.
func (d *Document) RemoveSection(index int) error {
	if index < 0 || index >= len(d.Form.Sections) {
		return fmt.Errorf("%w: section %d", ErrIndexOutOfRange, index)
	}
	removed := d.Form.Sections[index]
	d.Form.Sections = append(d.Form.Sections[:index], d.Form.Sections[index+1:]...)
	for _, field := range removed.Fields {
		d.Registry.RemoveIfUnreferenced(field.DomainKey, &d.Form)
	}
	return nil
}

// FieldSpec is the input to AddField/EditField. Options populate the domain
// registry for choice-group types; other types ignore them.
type FieldSpec struct {
	Type      FieldType
	Title     string
	Required  bool
	Width     int
	Height    int
	MaxLength int
	Value     string
	Columns   int
	InTable   bool
	Options   []OptionItem
}

// AddField validates the spec and appends a field to the section. Choice
// groups register their option set under a key derived from the title.
func (d *Document) AddField(sectionIndex int, spec FieldSpec) error {
	if sectionIndex < 0 || sectionIndex >= len(d.Form.Sections) {
		return fmt.Errorf("%w: section %d", ErrIndexOutOfRange, sectionIndex)
	}
	if err := validateFieldSpec(spec); err != nil {
		return err
	}

	field := fieldFromSpec(spec)
	if spec.Type.IsChoiceGroup() {
		key := d.Registry.UniqueKey(spec.Title)
		d.Registry.Upsert(key, spec.Options)
		field.DomainKey = key
	}

	section := &d.Form.Sections[sectionIndex]
	section.Fields = append(section.Fields, field)
	return nil
}

// EditField replaces a field's definition in place. Domain handling follows
// the established contract: moving away from a choice group clears the key
// and sweeps it; editing a choice group rekeys only when the normalized key
// actually changes, otherwise the existing entry's items are overwritten.
func (d *Document) EditField(sectionIndex, fieldIndex int, spec FieldSpec) error {
	section, err := d.section(sectionIndex)
	if err != nil {
		return err
	}
	if fieldIndex < 0 || fieldIndex >= len(section.Fields) {
		return fmt.Errorf("%w: field %d", ErrIndexOutOfRange, fieldIndex)
	}
	if err := validateFieldSpec(spec); err != nil {
		return err
	}

	old := section.Fields[fieldIndex]
	field := fieldFromSpec(spec)

	switch {
	case spec.Type.IsChoiceGroup():
		key := old.DomainKey
		if key == "" || normalize.Key(spec.Title) != normalize.Key(old.Title) {
			key = d.Registry.UniqueKey(spec.Title)
		}
		d.Registry.Upsert(key, spec.Options)
		field.DomainKey = key
		section.Fields[fieldIndex] = field
		if old.DomainKey != "" && old.DomainKey != key {
			d.Registry.RemoveIfUnreferenced(old.DomainKey, &d.Form)
		}
	default:
		section.Fields[fieldIndex] = field
		d.Registry.RemoveIfUnreferenced(old.DomainKey, &d.Form)
	}
	return nil
}

// RemoveField deletes a field and sweeps its domain when it held the last
// reference.
func (d *Document) RemoveField(sectionIndex, fieldIndex int) error {
	section, err := d.section(sectionIndex)
	if err != nil {
		return err
	}
	if fieldIndex < 0 || fieldIndex >= len(section.Fields) {
		return fmt.Errorf("%w: field %d", ErrIndexOutOfRange, fieldIndex)
	}
	removed := section.Fields[fieldIndex]
	section.Fields = append(section.Fields[:fieldIndex], section.Fields[fieldIndex+1:]...)
	d.Registry.RemoveIfUnreferenced(removed.DomainKey, &d.Form)
	return nil
}

// SetInTable toggles the table-grouping flag on a field.
func (d *Document) SetInTable(sectionIndex, fieldIndex int, inTable bool) error {
	section, err := d.section(sectionIndex)
	if err != nil {
		return err
	}
	if fieldIndex < 0 || fieldIndex >= len(section.Fields) {
		return fmt.Errorf("%w: field %d", ErrIndexOutOfRange, fieldIndex)
	}
	section.Fields[fieldIndex].InTable = inTable
	return nil
}

func (d *Document) section(index int) (*Section, error) {
	if index < 0 || index >= len(d.Form.Sections) {
		return nil, fmt.Errorf("%w: section %d", ErrIndexOutOfRange, index)
	}
	return &d.Form.Sections[index], nil
}

func validateFieldSpec(spec FieldSpec) error {
	if !spec.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFieldType, spec.Type)
	}
	caps := spec.Type.Capabilities()
	if caps.TakesTitle && strings.TrimSpace(spec.Title) == "" {
		return ErrEmptyFieldTitle
	}
	if caps.TakesDomain {
		if len(spec.Options) == 0 {
			return ErrNoOptions
		}
		for i, item := range spec.Options {
			if strings.TrimSpace(item.Description) == "" {
				return &OptionError{Index: i}
			}
		}
	}
	return nil
}

// fieldFromSpec builds the field, keeping only the attributes the type's
// capabilities allow and applying layout defaults.
func fieldFromSpec(spec FieldSpec) Field {
	caps := spec.Type.Capabilities()
	field := Field{
		Type:    spec.Type,
		Width:   spec.Width,
		InTable: spec.InTable,
	}
	if field.Width <= 0 {
		field.Width = DefaultFieldWidth
	}
	if caps.TakesTitle {
		field.Title = strings.TrimSpace(spec.Title)
	}
	if caps.TakesRequired {
		field.Required = spec.Required
	}
	if caps.TakesHeight {
		field.Height = spec.Height
		if field.Height <= 0 {
			field.Height = DefaultFieldHeight
		}
	}
	if caps.TakesMaxLength && spec.MaxLength > 0 {
		field.MaxLength = spec.MaxLength
	}
	if caps.TakesValue {
		field.Value = spec.Value
	}
	if caps.TakesDomain {
		field.Columns = spec.Columns
		if field.Columns <= 0 {
			field.Columns = DefaultColumns
		}
	}
	return field
}
