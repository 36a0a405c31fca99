package vectorize

import (
	"image"

	"artprep/pkg/color"
)

type RunHandler interface {
	// AddRun reports ink pixels x1 <= x < x2 on the current row.
	AddRun(x1, x2 int)
	NextY()
}

// FindHorizontalRuns scans the mask row by row and reports every run of
// adjacent ink pixels.
func FindHorizontalRuns(m *Mask, runHandler RunHandler) {
	i := 0
	for y := 0; y < m.Height; y++ {
		runStart := -1
		for x := 0; x < m.Width; x++ {
			c := m.Data[i]
			i++
			if c == color.Black {
				if runStart == -1 {
					runStart = x
				}
			} else if runStart >= 0 {
				runHandler.AddRun(runStart, x)
				runStart = -1
			}
		}
		// run reaching the end of the row
		if runStart >= 0 {
			runHandler.AddRun(runStart, m.Width)
		}
		runHandler.NextY()
	}
}

// inkBounds collects the bounding box and area of the ink.
type inkBounds struct {
	y      int
	bounds image.Rectangle
	area   int
}

func (b *inkBounds) AddRun(x1, x2 int) {
	run := image.Rect(x1, b.y, x2, b.y+1)
	if b.area == 0 {
		b.bounds = run
	} else {
		b.bounds = b.bounds.Union(run)
	}
	b.area += x2 - x1
}

func (b *inkBounds) NextY() {
	b.y++
}

// InkBounds returns the smallest rectangle holding every ink pixel,
// grown by padding and clipped to the mask. It reports false for a blank
// mask.
func (m *Mask) InkBounds(padding int) (image.Rectangle, bool) {
	var b inkBounds
	FindHorizontalRuns(m, &b)
	if b.area == 0 {
		return image.Rectangle{}, false
	}
	return b.bounds.Inset(-padding).Intersect(m.Bounds()), true
}
