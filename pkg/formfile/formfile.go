// Package formfile reads and writes a YAML authoring format for form
// definitions, so documents can be drafted in a text editor and converted to
// GXSI. Loading goes through the model's mutation surface, so the same
// validation and key-generation rules apply as in the designer.
package formfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-gxsi/pkg/model"
)

// File is the YAML document shape. Choice-group fields inline their options;
// domain keys are derived on load, never written by hand.
type File struct {
	Name     string        `yaml:"name"`
	Version  string        `yaml:"version,omitempty"`
	Sections []SectionSpec `yaml:"sections"`
}

// SectionSpec mirrors one section.
type SectionSpec struct {
	Title  string      `yaml:"title"`
	Width  int         `yaml:"width,omitempty"`
	Fields []FieldSpec `yaml:"fields,omitempty"`
}

// FieldSpec mirrors one field, options inlined.
type FieldSpec struct {
	Type      string             `yaml:"type"`
	Title     string             `yaml:"title,omitempty"`
	Required  bool               `yaml:"required,omitempty"`
	Width     int                `yaml:"width,omitempty"`
	Height    int                `yaml:"height,omitempty"`
	MaxLength int                `yaml:"maxLength,omitempty"`
	Value     string             `yaml:"value,omitempty"`
	Columns   int                `yaml:"columns,omitempty"`
	InTable   bool               `yaml:"inTable,omitempty"`
	Options   []model.OptionItem `yaml:"options,omitempty"`
}

// Parse unmarshals YAML data and builds a session through the document
// mutators. The first invalid section or field aborts the load.
func Parse(data []byte) (*model.Document, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("formfile: parse yaml: %w", err)
	}

	doc := model.NewDocument()
	doc.SetName(file.Name)
	doc.SetVersion(file.Version)

	for si, section := range file.Sections {
		if err := doc.AddSection(section.Title, section.Width); err != nil {
			return nil, fmt.Errorf("formfile: section %d: %w", si, err)
		}
		for fi, field := range section.Fields {
			spec := model.FieldSpec{
				Type:      model.FieldType(field.Type),
				Title:     field.Title,
				Required:  field.Required,
				Width:     field.Width,
				Height:    field.Height,
				MaxLength: field.MaxLength,
				Value:     field.Value,
				Columns:   field.Columns,
				InTable:   field.InTable,
				Options:   field.Options,
			}
			if err := doc.AddField(si, spec); err != nil {
				return nil, fmt.Errorf("formfile: section %d field %d: %w", si, fi, err)
			}
		}
	}
	return doc, nil
}

// ReadFile loads a YAML form definition from disk.
func ReadFile(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formfile: read %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal writes the session back into the YAML authoring shape, inlining
// each choice group's registered options.
func Marshal(doc *model.Document) ([]byte, error) {
	file := File{
		Name:    doc.Form.Name,
		Version: doc.Form.Version,
	}
	for _, section := range doc.Form.Sections {
		spec := SectionSpec{Title: section.Title, Width: section.Width}
		for _, field := range section.Fields {
			fieldSpec := FieldSpec{
				Type:      string(field.Type),
				Title:     field.Title,
				Required:  field.Required,
				Width:     field.Width,
				Height:    field.Height,
				MaxLength: field.MaxLength,
				Value:     field.Value,
				Columns:   field.Columns,
				InTable:   field.InTable,
			}
			if field.DomainKey != "" {
				fieldSpec.Options = doc.Registry.Items(field.DomainKey)
			}
			spec.Fields = append(spec.Fields, fieldSpec)
		}
		file.Sections = append(file.Sections, spec)
	}

	out, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("formfile: marshal yaml: %w", err)
	}
	return out, nil
}
