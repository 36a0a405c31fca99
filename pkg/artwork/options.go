package artwork

import (
	"artprep/pkg/cfg"
	"artprep/pkg/raster"
)

// Option configures a pipeline call.
type Option func(*options)

type options struct {
	thresholds cfg.Thresholds
	rasterizer raster.Rasterizer
	tighten    bool
}

func defaultOptions() options {
	return options{
		thresholds: cfg.Default,
		rasterizer: raster.OKSVG{},
		tighten:    true,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithThresholds replaces cfg.Default for one call.
func WithThresholds(th cfg.Thresholds) Option {
	return func(o *options) {
		o.thresholds = th
	}
}

// WithRasterizer sets the renderer used for bounds tightening and bitmap
// conversion.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(o *options) {
		if r != nil {
			o.rasterizer = r
		}
	}
}

// WithoutTightening makes Sanitize keep the declared viewport.
func WithoutTightening() Option {
	return func(o *options) {
		o.tighten = false
	}
}
