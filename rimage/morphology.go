package rimage

import (
	"image"
	"sort"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DiskKernel returns the elliptic structuring element of the given radius, a
// (2*radius+1) square. The caller must Close it.
func DiskKernel(radius int) gocv.Mat {
	if radius < 0 {
		radius = 0
	}
	return gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(2*radius+1, 2*radius+1))
}

// Open is an erosion followed by a dilation with a disk of the given radius.
// Offsets leaving the grid are ignored.
func Open[T Pixel](src *Grid[T], radius int) (*Grid[T], error) {
	return morphology(src, radius, gocv.MorphOpen)
}

// Close is a dilation followed by an erosion with a disk of the given radius.
// Offsets leaving the grid are ignored.
func Close[T Pixel](src *Grid[T], radius int) (*Grid[T], error) {
	return morphology(src, radius, gocv.MorphClose)
}

func morphology[T Pixel](src *Grid[T], radius int, op gocv.MorphType) (*Grid[T], error) {
	if src.Width() == 0 || src.Height() == 0 {
		return src.Clone(), nil
	}
	kernel := DiskKernel(radius)
	defer kernel.Close()
	in := toMat(src)
	defer in.Close()
	out := gocv.NewMat()
	defer out.Close()

	// the default constant border is +inf for erosion and -inf for dilation
	if err := gocv.MorphologyEx(in, &out, op, kernel); err != nil {
		return nil, errors.Wrapf(err, "morphology %v with radius %d", op, radius)
	}
	return gridFromMat[T](out, 0, src.Width(), src.Height()), nil
}

// Multiply zeroes every pixel of src where mask is zero, in place.
func Multiply[T Pixel](src *Grid[T], mask *Grid[uint8]) {
	data, m := src.Data(), mask.Data()
	for i := range data {
		if m[i] == 0 {
			data[i] = 0
		}
	}
}

// DiameterOpening removes bright structures whose bounding box extent (the
// larger of width and height) is below diameter. It is an attribute opening
// computed with the union-find method over pixels sorted by decreasing value.
func DiameterOpening[T Pixel](src *Grid[T], diameter int, nb Neighborhood) *Grid[T] {
	width, bounds := src.Width(), src.Bounds()
	data := src.Data()
	n := len(data)
	out := NewGrid[T](width, src.Height())
	if n == 0 {
		return out
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return data[order[i]] > data[order[j]] })

	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	boxes := make([]image.Rectangle, n)
	saturated := make([]bool, n)

	find := func(p int) int {
		root := p
		for parent[root] != root {
			root = parent[root]
		}
		for parent[p] != root {
			next := parent[p]
			parent[p] = root
			p = next
		}
		return root
	}
	satisfied := func(r int) bool {
		return saturated[r] || boxes[r].Dx() >= diameter || boxes[r].Dy() >= diameter
	}

	for _, p := range order {
		px, py := p%width, p/width
		parent[p] = p
		boxes[p] = image.Rect(px, py, px+1, py+1)
		for _, off := range nb.offsets {
			if nb.Outside(image.Point{px, py}, off, bounds) {
				continue
			}
			q := (py+off.Y)*width + px + off.X
			if parent[q] < 0 {
				continue
			}
			r := find(q)
			if r == p {
				continue
			}
			if data[r] == data[p] || !satisfied(r) {
				parent[r] = p
				boxes[p] = boxes[p].Union(boxes[r])
				saturated[p] = saturated[p] || saturated[r]
			} else {
				saturated[p] = true
			}
		}
	}

	// parents are always processed after their children, so walking the order
	// backwards resolves every parent first. A root that is still too small
	// spans the whole grid and has no level left to keep.
	res := out.Data()
	for i := n - 1; i >= 0; i-- {
		p := order[i]
		if parent[p] == p {
			if satisfied(p) {
				res[p] = data[p]
			}
		} else {
			res[p] = res[parent[p]]
		}
	}
	return out
}
