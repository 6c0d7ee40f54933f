// Package spatialmath defines planar geometry used for shape analysis: convex hulls and simple polygons.
package spatialmath

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
)

// Polygon is an ordered list of vertices; the last vertex connects back to the first.
type Polygon []image.Point

func toR2(p image.Point) r2.Point {
	return r2.Point{X: float64(p.X), Y: float64(p.Y)}
}

// Centroid returns the area centroid, or the vertex mean for degenerate polygons.
func (poly Polygon) Centroid() r2.Point {
	if len(poly) == 0 {
		return r2.Point{}
	}
	var mean r2.Point
	for _, p := range poly {
		mean = mean.Add(toR2(p))
	}
	mean = mean.Mul(1 / float64(len(poly)))

	var signed float64
	var c r2.Point
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		w := toR2(a).Cross(toR2(b))
		signed += w
		c = c.Add(toR2(a).Add(toR2(b)).Mul(w))
	}
	if signed == 0 {
		return mean
	}
	return c.Mul(1 / (3 * signed))
}

// Bounds returns the smallest rectangle holding every vertex, with Max exclusive.
func (poly Polygon) Bounds() image.Rectangle {
	if len(poly) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: poly[0], Max: poly[0].Add(image.Point{1, 1})}
	for _, p := range poly[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Point{1, 1})})
	}
	return r
}

// onSegment returns whether p lies on the closed segment ab.
func onSegment(a, b, p r2.Point) bool {
	if b.Sub(a).Cross(p.Sub(a)) != 0 {
		return false
	}
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

// IsPointInside returns whether p lies inside the polygon or on its boundary.
// Works for any simple polygon using the winding number.
func (poly Polygon) IsPointInside(p r2.Point) bool {
	switch len(poly) {
	case 0:
		return false
	case 1:
		return toR2(poly[0]) == p
	}

	winding := 0
	for i := range poly {
		a, b := toR2(poly[i]), toR2(poly[(i+1)%len(poly)])
		if onSegment(a, b, p) {
			return true
		}
		isLeft := b.Sub(a).Cross(p.Sub(a))
		if a.Y <= p.Y {
			if b.Y > p.Y && isLeft > 0 {
				winding++
			}
		} else if b.Y <= p.Y && isLeft < 0 {
			winding--
		}
	}
	return winding != 0
}
