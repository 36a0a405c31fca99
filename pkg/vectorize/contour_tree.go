package vectorize

import (
	"math"

	"artprep/pkg/geometry"

	"github.com/asim/quadtree"
)

// Shape is one filled region: an outer contour and the holes cut into it.
type Shape struct {
	Outer geometry.Polyline
	Holes []geometry.Polyline
}

// contourTree indexes contours by a sample point inside them so nesting can
// be resolved without testing every pair.
type contourTree struct {
	quadTree *quadtree.QuadTree
}

func newContourTree(bounds geometry.Rectangle) *contourTree {
	midX := (bounds.Max.X + bounds.Min.X) / 2
	midY := (bounds.Max.Y + bounds.Min.Y) / 2

	// Add a small margin to avoid dropping objects at the edges
	halfWidth := bounds.Max.X - midX + 10
	halfHeight := bounds.Max.Y - midY + 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &contourTree{quadTree: quadtree.New(aabb, 0, nil)}
}

func (t *contourTree) add(sample geometry.Point, index int) {
	t.quadTree.Insert(quadtree.NewPoint(sample.X, sample.Y, index))
}

// within returns the indices of contours whose sample point lies in r.
func (t *contourTree) within(r geometry.Rectangle) []int {
	aabb := quadtree.NewAABB(
		quadtree.NewPoint((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2, nil),
		quadtree.NewPoint(r.Width()/2+1, r.Height()/2+1, nil))
	var indices []int
	for _, point := range t.quadTree.Search(aabb) {
		indices = append(indices, point.Data().(int))
	}
	return indices
}

// GroupContours nests contours: a contour inside an odd number of others
// is a hole of the smallest one containing it, everything else is an
// outer boundary.
func GroupContours(contours []geometry.Polyline) []Shape {
	if len(contours) == 0 {
		return nil
	}
	all := geometry.EmptyRectangle()
	samples := make([]geometry.Point, len(contours))
	areas := make([]float64, len(contours))
	for i, c := range contours {
		samples[i] = geometry.Centroid(c...)
		areas[i] = c.Area()
		all = all.Extend(c.Bounds().Min).Extend(c.Bounds().Max)
	}
	tree := newContourTree(all)
	for i, p := range samples {
		tree.add(p, i)
	}

	depth := make([]int, len(contours))
	parent := make([]int, len(contours))
	parentArea := make([]float64, len(contours))
	for i := range parent {
		parent[i] = -1
		parentArea[i] = math.Inf(1)
	}
	for outer, c := range contours {
		for _, inner := range tree.within(c.Bounds()) {
			if inner == outer || areas[inner] >= areas[outer] || !c.Contains(samples[inner]) {
				continue
			}
			depth[inner]++
			if areas[outer] < parentArea[inner] {
				parent[inner] = outer
				parentArea[inner] = areas[outer]
			}
		}
	}

	shapeOf := map[int]int{}
	var shapes []Shape
	for i, c := range contours {
		if depth[i]%2 == 0 {
			shapeOf[i] = len(shapes)
			shapes = append(shapes, Shape{Outer: c})
		}
	}
	for i, c := range contours {
		if depth[i]%2 == 0 {
			continue
		}
		if s, ok := shapeOf[parent[i]]; ok {
			shapes[s].Holes = append(shapes[s].Holes, c)
		}
	}
	return shapes
}
