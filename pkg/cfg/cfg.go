package cfg

import (
	"encoding/json"
	"io"
	"time"

	"golang.org/x/xerrors"
)

// Thresholds holds the tuning constants of the artwork pipeline. The
// defaults match the export convention of the design tool most uploads
// come from; they are empirical, so every one of them can be overridden.
type Thresholds struct {
	// BackgroundCoverage is the fraction of the viewport (per axis) a
	// near-white shape has to cover before it counts as artboard chrome.
	BackgroundCoverage float64 `json:"background_coverage"`

	// NearWhiteChannel: rgb() fills with every channel above this are white.
	NearWhiteChannel int `json:"near_white_channel"`

	// ContentChannel: a raster sample is content if any channel is below this.
	ContentChannel uint8 `json:"content_channel"`

	// SampleEdge is the edge length of the square grid used to find content bounds.
	SampleEdge int `json:"sample_edge"`

	RasterTimeout Duration `json:"raster_timeout"`

	BitmapMaxDimension int `json:"bitmap_max_dimension"`

	// TransparentAlpha and TransparentChannel select the near-white opaque
	// pixels punched out of rasterised bitmaps.
	TransparentAlpha   uint8 `json:"transparent_alpha"`
	TransparentChannel uint8 `json:"transparent_channel"`

	PaddingRatio  float64 `json:"padding_ratio"`
	DefaultExtent float64 `json:"default_extent"`

	PivotEpsilon float64 `json:"pivot_epsilon"`

	VectorizeThreshold uint8   `json:"vectorize_threshold"`
	VectorizeMinArea   float64 `json:"vectorize_min_area"`
	VectorizePadding   int     `json:"vectorize_padding"`
	SimplifyTolerance  float64 `json:"simplify_tolerance"`

	// VectorizeBlur is the Gaussian sigma, in pixels, applied before
	// thresholding. Zero disables it.
	VectorizeBlur float64 `json:"vectorize_blur"`

	LetterSpacing float64 `json:"letter_spacing"`
}

// Duration is a time.Duration that reads "3s" style strings from JSON.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Plain numbers are nanoseconds
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return xerrors.Errorf("duration %s: %w", data, err)
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return xerrors.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default is the process-wide configuration used when callers don't pass
// their own.
var Default = Thresholds{
	BackgroundCoverage: 0.7,
	NearWhiteChannel:   240,
	ContentChannel:     245,
	SampleEdge:         512,
	RasterTimeout:      Duration(3 * time.Second),
	BitmapMaxDimension: 1024,
	TransparentAlpha:   200,
	TransparentChannel: 240,
	PaddingRatio:       0.02,
	DefaultExtent:      100,
	PivotEpsilon:       1e-12,
	VectorizeThreshold: 128,
	VectorizeMinArea:   100,
	VectorizePadding:   5,
	SimplifyTolerance:  1.0,
	VectorizeBlur:      1.0,
	LetterSpacing:      10,
}

// Load reads a JSON document over a copy of Default. Fields absent from
// the document keep their default values.
func Load(r io.Reader) (Thresholds, error) {
	th := Default
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&th); err != nil {
		return Default, xerrors.Errorf("decoding thresholds: %w", err)
	}
	if err := th.Validate(); err != nil {
		return Default, err
	}
	return th, nil
}

// Validate rejects values that would make the pipeline meaningless.
func (th Thresholds) Validate() error {
	switch {
	case th.BackgroundCoverage <= 0 || th.BackgroundCoverage > 1:
		return xerrors.Errorf("background_coverage %g out of range (0,1]", th.BackgroundCoverage)
	case th.SampleEdge <= 0:
		return xerrors.Errorf("sample_edge must be positive, got %d", th.SampleEdge)
	case th.RasterTimeout <= 0:
		return xerrors.New("raster_timeout must be positive")
	case th.BitmapMaxDimension <= 0:
		return xerrors.Errorf("bitmap_max_dimension must be positive, got %d", th.BitmapMaxDimension)
	case th.DefaultExtent <= 0:
		return xerrors.Errorf("default_extent must be positive, got %g", th.DefaultExtent)
	case th.PaddingRatio < 0:
		return xerrors.Errorf("padding_ratio must not be negative, got %g", th.PaddingRatio)
	case th.VectorizeBlur < 0:
		return xerrors.Errorf("vectorize_blur must not be negative, got %g", th.VectorizeBlur)
	}
	return nil
}
