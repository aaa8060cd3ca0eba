// Package render defines the preview contract: a Renderer projects the
// current editing session into bytes (HTML, raw XML) without mutating it.
// Previews are lossless projections of the model and may run on every
// render pass.
package render

import (
	"context"

	"github.com/goliatone/go-gxsi/pkg/model"
)

// Renderer converts a session into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc *model.Document, options Options) ([]byte, error)
}

// Options carries per-request rendering configuration.
type Options struct {
	// Theme holds resolved design tokens for renderers that produce styled
	// output. Nil means default styling.
	Theme *ThemeConfig
}

// ThemeConfig is a resolved theme selection: raw tokens plus the CSS custom
// properties derived from them.
type ThemeConfig struct {
	Theme   string
	Variant string
	Tokens  map[string]string
	CSSVars map[string]string
}
