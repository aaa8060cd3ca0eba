package gxsi

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goliatone/go-gxsi/pkg/model"
)

// ErrStructure is the root of every structural parse failure; match it with
// errors.Is. Malformed documents fail closed rather than producing a
// partially populated model.
var ErrStructure = errors.New("gxsi: structural error")

// Unmarshal parses a GXSI document into a fresh editing session.
func Unmarshal(data []byte) (*model.Document, error) {
	return Read(bytes.NewReader(data))
}

// Read parses a GXSI document from r. It requires the gxsi:formulario root;
// sections must carry a title, every element a type discriminator, and every
// domain entry a key. Attribute values that are present but empty are
// accepted where the model accepts them (form name, paragraph text).
func Read(r io.Reader) (*model.Document, error) {
	dec := xml.NewDecoder(r)
	doc := model.NewDocument()
	seenRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStructure, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !isRoot(start) {
			return nil, fmt.Errorf("%w: unexpected root element %q", ErrStructure, start.Name.Local)
		}
		if seenRoot {
			return nil, fmt.Errorf("%w: multiple root elements", ErrStructure)
		}
		seenRoot = true
		if err := parseRoot(dec, start, doc); err != nil {
			return nil, err
		}
	}

	if !seenRoot {
		return nil, fmt.Errorf("%w: missing gxsi:formulario root", ErrStructure)
	}
	return doc, nil
}

func parseRoot(dec *xml.Decoder, root xml.StartElement, doc *model.Document) error {
	doc.Form.Name, _ = findAttr(root.Attr, attrNome)
	if version, ok := findAttr(root.Attr, attrVersao); ok && strings.TrimSpace(version) != "" {
		doc.Form.Version = version
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStructure, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemElementos:
				if err := parseSections(dec, doc); err != nil {
					return err
				}
			case elemDominios:
				if err := parseDomains(dec, doc.Registry); err != nil {
					return err
				}
			default:
				if err := dec.Skip(); err != nil {
					return fmt.Errorf("%w: %v", ErrStructure, err)
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func parseSections(dec *xml.Decoder, doc *model.Document) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStructure, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemElemento {
				return fmt.Errorf("%w: unexpected element %q in elementos", ErrStructure, t.Name.Local)
			}
			kind, ok := typeOf(t)
			if !ok {
				return fmt.Errorf("%w: element missing %s discriminator", ErrStructure, typeAttr)
			}
			if kind != typeSection {
				return fmt.Errorf("%w: expected seccao, found %q", ErrStructure, kind)
			}
			section, err := parseSection(dec, t)
			if err != nil {
				return err
			}
			doc.Form.Sections = append(doc.Form.Sections, *section)
		case xml.EndElement:
			return nil
		}
	}
}

func parseSection(dec *xml.Decoder, start xml.StartElement) (*model.Section, error) {
	title, ok := findAttr(start.Attr, attrTitulo)
	if !ok || strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: section missing titulo", ErrStructure)
	}
	width, err := intAttr(start.Attr, attrLargura, model.DefaultSectionWidth)
	if err != nil {
		return nil, err
	}

	section := &model.Section{Title: title, Width: width}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStructure, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemElementos {
				return nil, fmt.Errorf("%w: unexpected element %q in seccao", ErrStructure, t.Name.Local)
			}
			if err := parseFields(dec, section, false); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return section, nil
		}
	}
}

// parseFields consumes the body of an elementos container, appending each
// decoded field to the section. inTable marks fields reached through a
// tabela wrapper.
func parseFields(dec *xml.Decoder, section *model.Section, inTable bool) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStructure, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemElemento {
				return fmt.Errorf("%w: unexpected element %q in elementos", ErrStructure, t.Name.Local)
			}
			kind, ok := typeOf(t)
			if !ok {
				return fmt.Errorf("%w: element missing %s discriminator", ErrStructure, typeAttr)
			}
			if kind == typeTable {
				if inTable {
					return fmt.Errorf("%w: nested tabela", ErrStructure)
				}
				if err := parseTable(dec, section); err != nil {
					return err
				}
				continue
			}
			field, err := parseField(dec, t, kind, inTable)
			if err != nil {
				return err
			}
			section.Fields = append(section.Fields, *field)
		case xml.EndElement:
			return nil
		}
	}
}

// parseTable descends through the row/cell wrappers and collects the cell's
// fields with the table flag set.
func parseTable(dec *xml.Decoder, section *model.Section) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStructure, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemLinha, elemCelula:
				depth++
			case elemElementos:
				if err := parseFields(dec, section, true); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: unexpected element %q in tabela", ErrStructure, t.Name.Local)
			}
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func parseField(dec *xml.Decoder, start xml.StartElement, kind string, inTable bool) (*model.Field, error) {
	fieldType := model.FieldType(kind)
	if !fieldType.Valid() {
		return nil, fmt.Errorf("%w: unknown field type %q", ErrStructure, kind)
	}
	caps := fieldType.Capabilities()

	field := &model.Field{Type: fieldType, InTable: inTable}

	width, err := intAttr(start.Attr, attrLargura, model.DefaultFieldWidth)
	if err != nil {
		return nil, err
	}
	field.Width = width

	if caps.TakesValue {
		field.Value, _ = findAttr(start.Attr, attrValor)
	} else {
		title, ok := findAttr(start.Attr, attrTitulo)
		if !ok {
			return nil, fmt.Errorf("%w: %s field missing titulo", ErrStructure, kind)
		}
		field.Title = title
	}
	if caps.TakesRequired {
		if raw, ok := findAttr(start.Attr, attrObrigatorio); ok {
			required, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid obrigatorio %q", ErrStructure, raw)
			}
			field.Required = required
		}
	}
	if caps.TakesHeight {
		if field.Height, err = intAttr(start.Attr, attrAltura, 0); err != nil {
			return nil, err
		}
	}
	if caps.TakesMaxLength {
		if field.MaxLength, err = intAttr(start.Attr, attrTamanhoMaximo, 0); err != nil {
			return nil, err
		}
	}
	if caps.TakesDomain {
		field.DomainKey, _ = findAttr(start.Attr, attrDominio)
		if field.Columns, err = intAttr(start.Attr, attrColunas, model.DefaultColumns); err != nil {
			return nil, err
		}
	}

	// Consume the conteudo child (and anything else) up to the end tag.
	if err := skipToEnd(dec); err != nil {
		return nil, err
	}
	return field, nil
}

func parseDomains(dec *xml.Decoder, reg *model.Registry) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStructure, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemDominio {
				return fmt.Errorf("%w: unexpected element %q in dominios", ErrStructure, t.Name.Local)
			}
			key, ok := findAttr(t.Attr, attrChave)
			if !ok || strings.TrimSpace(key) == "" {
				return fmt.Errorf("%w: dominio missing chave", ErrStructure)
			}
			items, err := parseDomainItems(dec)
			if err != nil {
				return err
			}
			reg.Upsert(key, items)
		case xml.EndElement:
			return nil
		}
	}
}

func parseDomainItems(dec *xml.Decoder) ([]model.OptionItem, error) {
	var items []model.OptionItem
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStructure, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemItens:
				depth++
			case elemItem:
				description, ok := findAttr(t.Attr, attrDescricao)
				if !ok || description == "" {
					return nil, fmt.Errorf("%w: item missing descricao", ErrStructure)
				}
				value, _ := findAttr(t.Attr, attrValor)
				items = append(items, model.OptionItem{Description: description, Value: value})
				if err := skipToEnd(dec); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("%w: unexpected element %q in dominio", ErrStructure, t.Name.Local)
			}
		case xml.EndElement:
			depth--
		}
	}
	return items, nil
}

func skipToEnd(dec *xml.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStructure, err)
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func isRoot(start xml.StartElement) bool {
	if start.Name.Local != "formulario" {
		return false
	}
	return start.Name.Space == Namespace || start.Name.Space == Prefix || start.Name.Space == ""
}

// typeOf resolves the gxsi:type discriminator regardless of whether the
// decoder bound the prefix to the namespace URI.
func typeOf(start xml.StartElement) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local != "type" {
			continue
		}
		if a.Name.Space == Namespace || a.Name.Space == Prefix {
			return a.Value, true
		}
	}
	return "", false
}

func findAttr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

func intAttr(attrs []xml.Attr, name string, fallback int) (int, error) {
	raw, ok := findAttr(attrs, name)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrStructure, name, raw)
	}
	return value, nil
}
