package gxsi

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/goliatone/go-gxsi/pkg/model"
)

const indent = "   "

// Marshal serializes the document into the GXSI dialect. The output is
// deterministic: identical input yields byte-identical XML, so callers may
// re-serialize on every render.
func Marshal(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, &doc.Form, doc.Registry); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write emits the form and the domains it references to w. The serializer is
// total over any structurally valid model; a field referencing an
// unregistered domain key degrades to an empty dominio entry.
func Write(w io.Writer, form *model.Form, reg *model.Registry) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("gxsi: write declaration: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", indent)

	root := startElement(rootName,
		attr(xmlnsAttr, Namespace),
		attr(attrNome, form.Name),
		attr(attrVersao, form.Version),
	)
	if err := enc.EncodeToken(root); err != nil {
		return fmt.Errorf("gxsi: encode root: %w", err)
	}

	if err := writeSections(enc, form); err != nil {
		return err
	}
	if err := writeDomains(enc, form, reg); err != nil {
		return err
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return fmt.Errorf("gxsi: close root: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("gxsi: flush: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("gxsi: write trailing newline: %w", err)
	}
	return nil
}

func writeSections(enc *xml.Encoder, form *model.Form) error {
	list := startElement(elemElementos)
	if err := enc.EncodeToken(list); err != nil {
		return fmt.Errorf("gxsi: encode elementos: %w", err)
	}

	for i := range form.Sections {
		if err := writeSection(enc, &form.Sections[i]); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(list.End()); err != nil {
		return fmt.Errorf("gxsi: close elementos: %w", err)
	}
	return nil
}

func writeSection(enc *xml.Encoder, section *model.Section) error {
	start := startElement(elemElemento,
		attr(typeAttr, typeSection),
		attr(attrTitulo, section.Title),
		attr(attrLargura, strconv.Itoa(section.Width)),
	)
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("gxsi: encode section %q: %w", section.Title, err)
	}

	list := startElement(elemElementos)
	if err := enc.EncodeToken(list); err != nil {
		return fmt.Errorf("gxsi: encode section elementos: %w", err)
	}
	if err := writeFields(enc, section.Fields); err != nil {
		return err
	}
	if err := enc.EncodeToken(list.End()); err != nil {
		return fmt.Errorf("gxsi: close section elementos: %w", err)
	}

	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("gxsi: close section %q: %w", section.Title, err)
	}
	return nil
}

// writeFields walks the field list once, collapsing every maximal
// consecutive run of InTable fields into a single tabela element with one
// row and one cell.
func writeFields(enc *xml.Encoder, fields []model.Field) error {
	for i := 0; i < len(fields); {
		if !fields[i].InTable {
			if err := writeField(enc, &fields[i]); err != nil {
				return err
			}
			i++
			continue
		}

		run := i
		for run < len(fields) && fields[run].InTable {
			run++
		}
		if err := writeTable(enc, fields[i:run]); err != nil {
			return err
		}
		i = run
	}
	return nil
}

func writeTable(enc *xml.Encoder, fields []model.Field) error {
	table := startElement(elemElemento, attr(typeAttr, typeTable))
	row := startElement(elemLinha)
	cell := startElement(elemCelula)
	list := startElement(elemElementos)

	for _, start := range []xml.StartElement{table, row, cell, list} {
		if err := enc.EncodeToken(start); err != nil {
			return fmt.Errorf("gxsi: encode table wrapper: %w", err)
		}
	}
	for i := range fields {
		if err := writeField(enc, &fields[i]); err != nil {
			return err
		}
	}
	for _, start := range []xml.StartElement{list, cell, row, table} {
		if err := enc.EncodeToken(start.End()); err != nil {
			return fmt.Errorf("gxsi: close table wrapper: %w", err)
		}
	}
	return nil
}

func writeField(enc *xml.Encoder, field *model.Field) error {
	caps := field.Type.Capabilities()

	if caps.TakesValue {
		// Display-only element: text rides in the valor attribute, no
		// conteudo child. The attribute is always present, even empty.
		start := startElement(elemElemento,
			attr(typeAttr, string(field.Type)),
			attr(attrValor, field.Value),
			attr(attrLargura, strconv.Itoa(field.Width)),
		)
		if err := enc.EncodeToken(start); err != nil {
			return fmt.Errorf("gxsi: encode %s: %w", field.Type, err)
		}
		if err := enc.EncodeToken(start.End()); err != nil {
			return fmt.Errorf("gxsi: close %s: %w", field.Type, err)
		}
		return nil
	}

	attrs := []xml.Attr{
		attr(typeAttr, string(field.Type)),
		attr(attrTitulo, field.Title),
		attr(attrDescricao, field.Title),
	}
	if caps.TakesRequired {
		attrs = append(attrs, attr(attrObrigatorio, strconv.FormatBool(field.Required)))
	}
	attrs = append(attrs, attr(attrLargura, strconv.Itoa(field.Width)))
	if caps.TakesHeight && field.Height > 0 {
		attrs = append(attrs, attr(attrAltura, strconv.Itoa(field.Height)))
	}
	if caps.TakesMaxLength && field.MaxLength > 0 {
		attrs = append(attrs, attr(attrTamanhoMaximo, strconv.Itoa(field.MaxLength)))
	}
	if caps.TakesDomain {
		attrs = append(attrs,
			attr(attrDominio, field.DomainKey),
			attr(attrColunas, strconv.Itoa(field.Columns)),
		)
	}

	start := startElement(elemElemento, attrs...)
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("gxsi: encode field %q: %w", field.Title, err)
	}

	content := startElement(elemConteudo, attr(typeAttr, typeContentValue))
	if err := enc.EncodeToken(content); err != nil {
		return fmt.Errorf("gxsi: encode conteudo: %w", err)
	}
	if err := enc.EncodeToken(content.End()); err != nil {
		return fmt.Errorf("gxsi: close conteudo: %w", err)
	}

	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("gxsi: close field %q: %w", field.Title, err)
	}
	return nil
}

// writeDomains emits one dominio entry per key actually referenced by a
// serialized field, in first-reference order. Unreferenced registry entries
// are skipped; referenced-but-undefined keys become empty placeholder
// entries so the output stays referentially closed.
func writeDomains(enc *xml.Encoder, form *model.Form, reg *model.Registry) error {
	keys := form.ReferencedKeys()
	if len(keys) == 0 {
		return nil
	}

	block := startElement(elemDominios)
	if err := enc.EncodeToken(block); err != nil {
		return fmt.Errorf("gxsi: encode dominios: %w", err)
	}

	for _, key := range keys {
		domain := startElement(elemDominio,
			attr(typeAttr, typeStaticDomain),
			attr(attrChave, key),
		)
		if err := enc.EncodeToken(domain); err != nil {
			return fmt.Errorf("gxsi: encode dominio %q: %w", key, err)
		}

		items := startElement(elemItens)
		if err := enc.EncodeToken(items); err != nil {
			return fmt.Errorf("gxsi: encode itens: %w", err)
		}
		for _, item := range reg.Items(key) {
			entry := startElement(elemItem,
				attr(typeAttr, typeDomainItem),
				attr(attrDescricao, item.Description),
				attr(attrValor, item.Value),
			)
			if err := enc.EncodeToken(entry); err != nil {
				return fmt.Errorf("gxsi: encode item: %w", err)
			}
			if err := enc.EncodeToken(entry.End()); err != nil {
				return fmt.Errorf("gxsi: close item: %w", err)
			}
		}
		if err := enc.EncodeToken(items.End()); err != nil {
			return fmt.Errorf("gxsi: close itens: %w", err)
		}

		if err := enc.EncodeToken(domain.End()); err != nil {
			return fmt.Errorf("gxsi: close dominio %q: %w", key, err)
		}
	}

	if err := enc.EncodeToken(block.End()); err != nil {
		return fmt.Errorf("gxsi: close dominios: %w", err)
	}
	return nil
}

func startElement(name string, attrs ...xml.Attr) xml.StartElement {
	return xml.StartElement{
		Name: xml.Name{Local: name},
		Attr: attrs,
	}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
