package rimage

import (
	"image"

	"github.com/golang/geo/r2"
)

// Label assigns dense labels 1..n to the connected components of same-valued,
// nonzero pixels of src, in first-encounter raster order. It returns the label
// grid and n.
func Label[T Pixel](src *Grid[T], nb Neighborhood) (*Grid[int32], int) {
	var zero T
	return label(src, nb, func(v T) bool { return v == zero })
}

// LabelIgnoring is like Label but also treats every pixel equal to ignore as background.
func LabelIgnoring[T Pixel](src *Grid[T], nb Neighborhood, ignore T) (*Grid[int32], int) {
	var zero T
	return label(src, nb, func(v T) bool { return v == zero || v == ignore })
}

func label[T Pixel](src *Grid[T], nb Neighborhood, background func(T) bool) (*Grid[int32], int) {
	width, bounds := src.Width(), src.Bounds()
	labels := NewGrid[int32](width, src.Height())
	data, out := src.Data(), labels.Data()

	// queue of flat indices; reused across components
	queue := make([]int, 0, 64)
	next := int32(0)
	for start, v := range data {
		if out[start] != 0 || background(v) {
			continue
		}
		next++
		out[start] = next
		queue = append(queue[:0], start)
		for head := 0; head < len(queue); head++ {
			cur := queue[head]
			p := image.Point{cur % width, cur / width}
			for _, off := range nb.offsets {
				if nb.Outside(p, off, bounds) {
					continue
				}
				ni := (p.Y+off.Y)*width + p.X + off.X
				if out[ni] != 0 || data[ni] != v {
					continue
				}
				out[ni] = next
				queue = append(queue, ni)
			}
		}
	}
	return labels, int(next)
}

// Component summarizes one labeled component.
type Component struct {
	Label    int
	Area     int
	Centroid r2.Point
	Bounds   image.Rectangle
}

// ComponentStats computes the area, centroid and bounding box of labels 1..n in a
// single pass. The result is indexed by label-1.
func ComponentStats(labels *Grid[int32], n int) []Component {
	comps := make([]Component, n)
	sums := make([]r2.Point, n)
	for i := range comps {
		comps[i].Label = i + 1
	}
	for y := 0; y < labels.Height(); y++ {
		for x := 0; x < labels.Width(); x++ {
			l := int(labels.At(x, y))
			if l <= 0 || l > n {
				continue
			}
			c := &comps[l-1]
			pixel := image.Rect(x, y, x+1, y+1)
			if c.Area == 0 {
				c.Bounds = pixel
			} else {
				c.Bounds = c.Bounds.Union(pixel)
			}
			c.Area++
			sums[l-1] = sums[l-1].Add(r2.Point{X: float64(x), Y: float64(y)})
		}
	}
	for i := range comps {
		if comps[i].Area > 0 {
			comps[i].Centroid = sums[i].Mul(1 / float64(comps[i].Area))
		}
	}
	return comps
}
