package vectorize

import "artprep/pkg/geometry"

// Moore neighbourhood, clockwise from the right (y points down).
var (
	mooreDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	mooreDY = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

// TraceContours follows the boundary of every ink region, outer edges and
// the rims of holes alike. A trace starts at each unvisited ink pixel
// whose left neighbour is paper. Contour points are pixel coordinates.
func TraceContours(m *Mask) []geometry.Polyline {
	visited := make([]bool, m.Width*m.Height)
	var contours []geometry.Polyline
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.Ink(x, y) || m.Ink(x-1, y) || visited[x+y*m.Width] {
				continue
			}
			contour := traceBoundary(m, x, y, visited)
			if len(contour) >= 3 {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}

func traceBoundary(m *Mask, startX, startY int, visited []bool) geometry.Polyline {
	contour := geometry.Polyline{{X: float64(startX), Y: float64(startY)}}
	visited[startX+startY*m.Width] = true

	x, y := startX, startY
	// The first sweep starts at the left neighbour, which is paper.
	direction := 7
	maxSteps := (m.Width + 2) * (m.Height + 2)
	for steps := 0; steps < maxSteps; steps++ {
		// Back up past the pixel we came from, then sweep clockwise.
		searchStart := (direction + 5) % 8
		found := false
		for i := 0; i < 8; i++ {
			d := (searchStart + i) % 8
			nx, ny := x+mooreDX[d], y+mooreDY[d]
			if !m.Ink(nx, ny) {
				continue
			}
			x, y, direction = nx, ny, d
			found = true
			break
		}
		if !found || (x == startX && y == startY) {
			// isolated pixel, or the loop is closed
			break
		}
		contour = append(contour, geometry.Point{X: float64(x), Y: float64(y)})
		visited[x+y*m.Width] = true
	}
	return contour
}
