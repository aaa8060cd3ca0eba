// Package goxsi re-exports the pieces most callers need: the document model,
// the GXSI serializer, and the designer session, so a quick start needs a
// single import.
package goxsi

import (
	"context"
	"io"

	"github.com/goliatone/go-gxsi/pkg/designer"
	"github.com/goliatone/go-gxsi/pkg/gxsi"
	"github.com/goliatone/go-gxsi/pkg/model"
	theme "github.com/goliatone/go-theme"
)

// Document is one editing session: the form tree plus its domain registry.
type Document = model.Document

// FieldSpec is the input to Document.AddField and Document.EditField.
type FieldSpec = model.FieldSpec

// OptionItem is one selectable entry in a choice-group domain.
type OptionItem = model.OptionItem

// Artifact is one exported file produced by a designer session.
type Artifact = designer.Artifact

// NewDocument creates an empty document with default form metadata.
func NewDocument() *Document {
	return model.NewDocument()
}

// Marshal serializes a document to the GXSI formulário XML dialect.
func Marshal(doc *Document) ([]byte, error) {
	return gxsi.Marshal(doc)
}

// Unmarshal parses GXSI formulário XML back into a document, rebuilding the
// domain registry from the dominios block.
func Unmarshal(data []byte) (*Document, error) {
	return gxsi.Unmarshal(data)
}

// Read parses GXSI formulário XML from a stream.
func Read(r io.Reader) (*Document, error) {
	return gxsi.Read(r)
}

// NewSession creates a designer session; see the designer package for the
// available options.
func NewSession(opts ...designer.Option) *designer.Session {
	return designer.New(opts...)
}

// Export serializes the document once and returns the paired artifacts the
// consuming system imports: formulario.xml and its byte-identical .gfe twin.
func Export(doc *Document) ([]Artifact, error) {
	return designer.New(designer.WithDocument(doc)).Export()
}

// Preview renders the document with the named renderer registered through
// the session options.
func Preview(ctx context.Context, session *designer.Session, renderer string) ([]byte, error) {
	return session.Preview(ctx, renderer)
}

// WithThemeSelector passes a go-theme selector through to the designer so
// theme/variant choices resolve into CSS variables on preview.
func WithThemeSelector(selector theme.ThemeSelector) designer.Option {
	return designer.WithThemeSelector(selector)
}
