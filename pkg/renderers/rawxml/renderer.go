// Package rawxml exposes the serializer itself as a preview renderer, so the
// designer can show the exact bytes an export would produce.
package rawxml

import (
	"context"
	"errors"

	"github.com/goliatone/go-gxsi/pkg/gxsi"
	"github.com/goliatone/go-gxsi/pkg/model"
	"github.com/goliatone/go-gxsi/pkg/render"
)

// Renderer implements render.Renderer over the GXSI serializer.
type Renderer struct{}

// New constructs the raw XML renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "xml"
}

// ContentType reports the media type of the rendered output.
func (r *Renderer) ContentType() string {
	return "application/xml"
}

// Render serializes the document. Theme options are ignored; the output is
// the export artifact verbatim.
func (r *Renderer) Render(ctx context.Context, doc *model.Document, _ render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("rawxml: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("rawxml: document is required")
	}
	return gxsi.Marshal(doc)
}
