package model

// FieldType enumerates the GXSI control kinds a field can take. The value is
// the wire-format type discriminator.
type FieldType string

const (
	FieldTypeText        FieldType = "texto"
	FieldTypeTextArea    FieldType = "texto-area"
	FieldTypeDate        FieldType = "data"
	FieldTypeCurrency    FieldType = "moeda"
	FieldTypeCPF         FieldType = "cpf"
	FieldTypeCNPJ        FieldType = "cnpj"
	FieldTypeEmail       FieldType = "email"
	FieldTypePhone       FieldType = "telefone"
	FieldTypeCheck       FieldType = "check"
	FieldTypeComboBox    FieldType = "comboBox"
	FieldTypeComboFilter FieldType = "comboFiltro"
	FieldTypeRadioGroup  FieldType = "grupoRadio"
	FieldTypeCheckGroup  FieldType = "grupoCheck"
	FieldTypeParagraph   FieldType = "paragrafo"
	FieldTypeLabel       FieldType = "rotulo"
)

// Capabilities describes the attribute surface of a field type, so callers
// branch on capability rather than on type literals.
type Capabilities struct {
	// TakesTitle is false for display-only types whose text lives in Value.
	TakesTitle bool
	// TakesRequired is false for display-only types.
	TakesRequired bool
	// TakesHeight marks multi-line inputs.
	TakesHeight bool
	// TakesValue marks display-only types carrying their text as an attribute.
	TakesValue bool
	// TakesDomain marks choice groups referencing a registered option set.
	// Those types also carry a column count.
	TakesDomain bool
	// TakesMaxLength marks single-line text inputs.
	TakesMaxLength bool
}

var capabilityTable = map[FieldType]Capabilities{
	FieldTypeText:        {TakesTitle: true, TakesRequired: true, TakesMaxLength: true},
	FieldTypeTextArea:    {TakesTitle: true, TakesRequired: true, TakesHeight: true},
	FieldTypeDate:        {TakesTitle: true, TakesRequired: true},
	FieldTypeCurrency:    {TakesTitle: true, TakesRequired: true},
	FieldTypeCPF:         {TakesTitle: true, TakesRequired: true},
	FieldTypeCNPJ:        {TakesTitle: true, TakesRequired: true},
	FieldTypeEmail:       {TakesTitle: true, TakesRequired: true},
	FieldTypePhone:       {TakesTitle: true, TakesRequired: true},
	FieldTypeCheck:       {TakesTitle: true, TakesRequired: true},
	FieldTypeComboBox:    {TakesTitle: true, TakesRequired: true, TakesDomain: true},
	FieldTypeComboFilter: {TakesTitle: true, TakesRequired: true, TakesDomain: true},
	FieldTypeRadioGroup:  {TakesTitle: true, TakesRequired: true, TakesDomain: true},
	FieldTypeCheckGroup:  {TakesTitle: true, TakesRequired: true, TakesDomain: true},
	FieldTypeParagraph:   {TakesValue: true},
	FieldTypeLabel:       {TakesValue: true},
}

// Capabilities reports the attribute surface for the type. Unknown types get
// a zero value.
func (t FieldType) Capabilities() Capabilities {
	return capabilityTable[t]
}

// Valid reports whether the type belongs to the closed set.
func (t FieldType) Valid() bool {
	_, ok := capabilityTable[t]
	return ok
}

// IsChoiceGroup reports whether the type references a domain.
func (t FieldType) IsChoiceGroup() bool {
	return capabilityTable[t].TakesDomain
}

// IsDisplayOnly reports whether the type carries its text in Value and takes
// no user input.
func (t FieldType) IsDisplayOnly() bool {
	return capabilityTable[t].TakesValue
}

// FieldTypes returns the closed set in a stable order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText, FieldTypeTextArea, FieldTypeDate, FieldTypeCurrency,
		FieldTypeCPF, FieldTypeCNPJ, FieldTypeEmail, FieldTypePhone,
		FieldTypeCheck, FieldTypeComboBox, FieldTypeComboFilter,
		FieldTypeRadioGroup, FieldTypeCheckGroup, FieldTypeParagraph,
		FieldTypeLabel,
	}
}

// Default layout sizes shared by mutators and importers.
const (
	DefaultSectionWidth = 500
	DefaultFieldWidth   = 450
	DefaultFieldHeight  = 100
	DefaultColumns      = 1
	DefaultVersion      = "1.0"
)

// OptionItem is one selectable entry in a domain: a display description and
// its machine value.
type OptionItem struct {
	Description string `json:"description" yaml:"description"`
	Value       string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Field models one form control definition.
type Field struct {
	Type      FieldType `json:"type" yaml:"type"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Required  bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Width     int       `json:"width" yaml:"width"`
	Height    int       `json:"height,omitempty" yaml:"height,omitempty"`
	MaxLength int       `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	// Value carries the display text of paragraph/label fields.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	// Columns governs choice-group layout.
	Columns int `json:"columns,omitempty" yaml:"columns,omitempty"`
	// DomainKey references a registry entry; set only for choice groups.
	DomainKey string `json:"domainKey,omitempty" yaml:"domainKey,omitempty"`
	// InTable marks the field as part of a consecutive table grouping.
	InTable bool `json:"inTable,omitempty" yaml:"inTable,omitempty"`
}

// Section is a titled, ordered group of fields with a layout width.
type Section struct {
	Title  string  `json:"title" yaml:"title"`
	Width  int     `json:"width" yaml:"width"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Form is the root document being designed.
type Form struct {
	Name     string    `json:"name" yaml:"name"`
	Version  string    `json:"version" yaml:"version"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// References reports whether any field in the form points at the domain key.
func (f *Form) References(key string) bool {
	if key == "" {
		return false
	}
	for i := range f.Sections {
		for j := range f.Sections[i].Fields {
			if f.Sections[i].Fields[j].DomainKey == key {
				return true
			}
		}
	}
	return false
}

// ReferencedKeys returns the domain keys referenced by at least one field,
// in first-reference order.
func (f *Form) ReferencedKeys() []string {
	var keys []string
	seen := make(map[string]struct{})
	for i := range f.Sections {
		for j := range f.Sections[i].Fields {
			key := f.Sections[i].Fields[j].DomainKey
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}
