// Package artwork normalises uploaded vector artwork: it strips artboard
// backgrounds, tightens the viewport around the drawn content, recolours
// fills and renders transparent previews.
package artwork

import (
	"context"

	"artprep/pkg/logging"
	"artprep/pkg/raster"

	"go.uber.org/zap"
)

// CleanResult is a sanitised document and its declared extents.
type CleanResult struct {
	Content []byte
	Width   float64
	Height  float64
}

// Sanitize removes background shapes and reframes the document around its
// content. It never fails: unparsable input comes back unchanged with
// default extents, and if tightening fails the cleaned document keeps its
// original viewport.
func Sanitize(ctx context.Context, data []byte, opts ...Option) CleanResult {
	o := newOptions(opts)
	th := o.thresholds
	log := logging.Named("sanitize")

	identity := CleanResult{Content: data, Width: th.DefaultExtent, Height: th.DefaultExtent}
	root, err := Parse(data)
	if err != nil {
		log.Debug("returning input unchanged", zap.Error(err))
		return identity
	}

	vp := root.Viewport(th.DefaultExtent)
	removed := StripBackgrounds(root, vp, th)
	content, err := root.Marshal()
	if err != nil {
		log.Debug("returning input unchanged", zap.Error(err))
		return identity
	}
	log.Debug("stripped backgrounds", zap.Int("removed", removed))

	cleaned := CleanResult{Content: content, Width: vp.Width, Height: vp.Height}
	if !o.tighten {
		return cleaned
	}
	bounds, ok := raster.FindBounds(ctx, o.rasterizer, content, vp, th)
	if !ok {
		return cleaned
	}
	reframed, ok := Reframe(content, bounds, th.PaddingRatio)
	if !ok {
		log.Debug("reframe skipped", zap.Float64("width", bounds.Width()), zap.Float64("height", bounds.Height()))
		return cleaned
	}
	return reframed
}
