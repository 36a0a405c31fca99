// Package raster renders artwork documents to pixels. Rendering is the
// only step of the artwork pipeline that can stall, so every job runs
// under a deadline and is abandoned, not awaited, when it overruns.
package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"artprep/pkg/geometry"
	"artprep/pkg/logging"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/xerrors"
)

var (
	ErrTimeout    = xerrors.New("rasterization timed out")
	ErrNoViewport = xerrors.New("artwork has no usable viewport")
)

// Job is one document to render. Viewport is the coordinate window that
// is stretched over the whole canvas.
type Job struct {
	SVG      []byte
	Viewport geometry.Viewport
}

// Rasterizer draws a job onto dst, scaling the viewport to dst's bounds
// independently per axis. dst is already filled with the background.
type Rasterizer interface {
	Rasterize(ctx context.Context, job Job, dst *image.RGBA) error
}

// OKSVG renders with the oksvg/rasterx scanline renderer.
type OKSVG struct{}

func (OKSVG) Rasterize(ctx context.Context, job Job, dst *image.RGBA) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(job.SVG), oksvg.IgnoreErrorMode)
	if err != nil {
		return xerrors.Errorf("reading artwork: %w", err)
	}
	if job.Viewport.Valid() {
		icon.ViewBox.X = job.Viewport.X
		icon.ViewBox.Y = job.Viewport.Y
		icon.ViewBox.W = job.Viewport.Width
		icon.ViewBox.H = job.Viewport.Height
	} else if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return ErrNoViewport
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return nil
}

var canvases sync.Pool

func getCanvas(w, h int) *image.RGBA {
	if c, ok := canvases.Get().(*image.RGBA); ok && c.Rect.Dx() == w && c.Rect.Dy() == h {
		return c
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func putCanvas(c *image.RGBA) {
	canvases.Put(c)
}

// Do renders job onto a w×h canvas cleared to bg and passes the canvas to
// use. Rendering and use share one deadline: both run on a separate
// goroutine, and if they don't finish within timeout Do returns ErrTimeout
// without waiting. Anything use writes is only valid when Do returns nil.
// The canvas is recycled once use returns and must not be retained.
func Do(ctx context.Context, r Rasterizer, job Job, w, h int, bg color.Color, timeout time.Duration,
	use func(img *image.RGBA) error) error {
	if w <= 0 || h <= 0 {
		return xerrors.Errorf("canvas %dx%d: %w", w, h, ErrNoViewport)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	canvas := getCanvas(w, h)
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	// Buffered so a late renderer never blocks.
	done := make(chan error, 1)
	go func() {
		defer putCanvas(canvas)
		defer func() {
			if p := recover(); p != nil {
				done <- xerrors.Errorf("rasterizer panic: %v", p)
			}
		}()
		err := r.Rasterize(ctx, job, canvas)
		if err == nil {
			err = use(canvas)
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logging.Named("raster").Warn("rasterization abandoned", zap.Duration("timeout", timeout))
			return ErrTimeout
		}
		return ctx.Err()
	}
}
