package artwork

import (
	"context"

	"artprep/pkg/geometry"
	"artprep/pkg/raster"
)

// ToBitmap renders the document to a transparent PNG whose longer side is
// the configured maximum. If the document can't be rendered the result is
// a fallback carrying the vector document itself.
func ToBitmap(ctx context.Context, data []byte, opts ...Option) raster.Bitmap {
	o := newOptions(opts)
	th := o.thresholds

	root, err := Parse(data)
	if err != nil {
		w, h := raster.Dimensions(geometry.Viewport{}, th.BitmapMaxDimension)
		return raster.Bitmap{Data: data, MediaType: raster.MediaTypeSVG, Width: w, Height: h, Fallback: true}
	}
	// Without a viewBox the bitmap is square; width and height don't count.
	vp, _ := root.DeclaredViewBox()
	content, err := root.Marshal()
	if err != nil {
		content = data
	}
	return raster.RenderTransparent(ctx, o.rasterizer, content, vp, th)
}
