// Package openapi builds a form skeleton from an OpenAPI operation's request
// body, giving designers a starting document instead of an empty canvas.
// Property names become field titles, schema shapes pick the closest GXSI
// control, and enumerations become registered domains.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-gxsi/pkg/model"
)

// Long free-text properties turn into multi-line inputs past this limit.
const textAreaThreshold = 255

// Options tunes the import.
type Options struct {
	// SectionWidth overrides the generated section width.
	SectionWidth int
	// FieldWidth overrides the generated field width.
	FieldWidth int
}

// Importer converts OpenAPI operations into editing sessions.
type Importer struct {
	opts Options
}

// New creates an Importer with the supplied options.
func New(options Options) *Importer {
	if options.SectionWidth <= 0 {
		options.SectionWidth = model.DefaultSectionWidth
	}
	if options.FieldWidth <= 0 {
		options.FieldWidth = model.DefaultFieldWidth
	}
	return &Importer{opts: options}
}

// Import loads the OpenAPI document and builds a session from the request
// body of the operation identified by operationID. The form name comes from
// the operation summary, falling back to the operation ID.
func (i *Importer) Import(ctx context.Context, data []byte, operationID string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi importer: document payload is empty")
	}
	if strings.TrimSpace(operationID) == "" {
		return nil, errors.New("openapi importer: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi importer: load document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi importer: operation %q not found", operationID)
	}

	schema := requestSchema(operation)
	if schema == nil {
		return nil, fmt.Errorf("openapi importer: operation %q has no request body schema", operationID)
	}

	doc := model.NewDocument()
	title := strings.TrimSpace(operation.Summary)
	if title == "" {
		title = operationID
	}
	doc.SetName(title)

	if err := doc.AddSection(title, i.opts.SectionWidth); err != nil {
		return nil, fmt.Errorf("openapi importer: %w", err)
	}
	if err := i.addFields(doc, schema); err != nil {
		return nil, err
	}
	return doc, nil
}

func (i *Importer) addFields(doc *model.Document, schema *openapi3.Schema) error {
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		spec := i.fieldSpec(name, ref.Value, isRequired)
		if err := doc.AddField(0, spec); err != nil {
			return fmt.Errorf("openapi importer: property %q: %w", name, err)
		}
	}
	return nil
}

// fieldSpec maps one schema property onto the closest GXSI control.
func (i *Importer) fieldSpec(name string, schema *openapi3.Schema, required bool) model.FieldSpec {
	spec := model.FieldSpec{
		Title:    labelFor(name, schema),
		Required: required,
		Width:    i.opts.FieldWidth,
	}

	if options := enumOptions(schema.Enum); len(options) > 0 {
		spec.Type = model.FieldTypeComboBox
		spec.Options = options
		return spec
	}

	switch schemaType(schema) {
	case "boolean":
		spec.Type = model.FieldTypeCheck
	case "array":
		if schema.Items != nil && schema.Items.Value != nil {
			if options := enumOptions(schema.Items.Value.Enum); len(options) > 0 {
				spec.Type = model.FieldTypeCheckGroup
				spec.Options = options
				return spec
			}
		}
		spec.Type = model.FieldTypeText
	default:
		spec.Type = textType(schema, &spec)
	}
	return spec
}

func textType(schema *openapi3.Schema, spec *model.FieldSpec) model.FieldType {
	switch strings.ToLower(schema.Format) {
	case "date", "date-time":
		return model.FieldTypeDate
	case "email":
		return model.FieldTypeEmail
	case "tel", "phone":
		return model.FieldTypePhone
	case "cpf":
		return model.FieldTypeCPF
	case "cnpj":
		return model.FieldTypeCNPJ
	}

	if schema.MaxLength != nil {
		if *schema.MaxLength > textAreaThreshold {
			return model.FieldTypeTextArea
		}
		spec.MaxLength = int(*schema.MaxLength)
	}
	return model.FieldTypeText
}

func labelFor(name string, schema *openapi3.Schema) string {
	if title := strings.TrimSpace(schema.Title); title != "" {
		return title
	}
	return name
}

func enumOptions(enum []any) []model.OptionItem {
	if len(enum) == 0 {
		return nil
	}
	items := make([]model.OptionItem, 0, len(enum))
	for _, value := range enum {
		description := strings.TrimSpace(fmt.Sprintf("%v", value))
		if description == "" {
			continue
		}
		items = append(items, model.OptionItem{Description: description})
	}
	return items
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
