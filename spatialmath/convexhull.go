package spatialmath

import (
	"image"
	"sort"
)

// cross returns the z component of (a-o) x (b-o). Positive means o->a->b turns
// counter-clockwise in (x, y) axes.
func cross(o, a, b image.Point) int {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// ConvexHull returns the convex hull of pts using Andrew's monotone chain. The
// hull is listed counter-clockwise in (x, y) axes starting from the point with
// the smallest x (then y), without repeating the first point and without
// collinear vertices. Fewer than three non-collinear points yield the one or
// two extreme points. pts is not modified.
func ConvexHull(pts []image.Point) Polygon {
	sorted := make([]image.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	// drop duplicates
	uniq := sorted[:0]
	for i, p := range sorted {
		if i == 0 || p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) <= 2 {
		return Polygon(uniq)
	}

	hull := make([]image.Point, 0, 2*len(uniq))
	// lower chain
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// upper chain
	lowerLen := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lowerLen && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// last point repeats the first
	return Polygon(hull[:len(hull)-1])
}
