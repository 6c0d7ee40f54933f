package dynamics

import (
	"image"
	"sort"

	"go.viam.com/morphometry/rimage"
)

// Extremum is a regional minimum (or maximum) found by Flood.
type Extremum struct {
	// Pixel is the row-major index where the basin was born.
	Pixel int
	// Level is the value at the extremum.
	Level float64
	// Dynamic is the level change needed to merge the basin into a more
	// persistent one. For a Root it is the full height of its component.
	Dynamic float64
	// Root basins never merged with another one.
	Root bool
}

// Flood computes the dynamics of the masked field values (row-major, width
// columns) with 8-connectivity. In maxima mode the field is flooded from its
// highest values down. Plateaus that meet at their own level yield a zero
// dynamic; callers usually drop those.
func Flood(values []float64, mask []uint8, width int, maxima bool) []Extremum {
	level := func(i int) float64 {
		if maxima {
			return -values[i]
		}
		return values[i]
	}

	order := make([]int, 0, len(values))
	for i, m := range mask {
		if m != 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return level(order[a]) < level(order[b]) })

	n := len(values)
	height := 0
	if width > 0 {
		height = n / width
	}
	parent := make([]int, n)
	birth := make([]int, n)
	rank := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	for r, p := range order {
		rank[p] = r
	}

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
	// deeper basins win; ties go to the basin born first
	deeper := func(a, b int) bool {
		la, lb := level(birth[a]), level(birth[b])
		if la != lb {
			return la < lb
		}
		return rank[birth[a]] < rank[birth[b]]
	}

	var out []Extremum
	bounds := image.Rect(0, 0, width, height)
	roots := make([]int, 0, rimage.Neighbors8.Len())
	for _, p := range order {
		pt := image.Point{p % width, p / width}
		roots = roots[:0]
		for _, off := range rimage.Neighbors8.Offsets() {
			if rimage.Neighbors8.Outside(pt, off, bounds) {
				continue
			}
			q := (pt.Y+off.Y)*width + pt.X + off.X
			if parent[q] < 0 {
				continue
			}
			r := find(q)
			seen := false
			for _, existing := range roots {
				if existing == r {
					seen = true
					break
				}
			}
			if !seen {
				roots = append(roots, r)
			}
		}
		if len(roots) == 0 {
			parent[p] = p
			birth[p] = p
			continue
		}

		winner := roots[0]
		for _, r := range roots[1:] {
			if deeper(r, winner) {
				winner = r
			}
		}
		for _, r := range roots {
			if r == winner {
				continue
			}
			out = append(out, Extremum{
				Pixel:   birth[r],
				Level:   values[birth[r]],
				Dynamic: level(p) - level(birth[r]),
			})
			parent[r] = winner
		}
		parent[p] = winner
	}

	// the last pixel flooded in each component is its highest level
	top := map[int]float64{}
	for _, p := range order {
		top[find(p)] = level(p)
	}
	for _, p := range order {
		if parent[p] != p {
			continue
		}
		out = append(out, Extremum{
			Pixel:   birth[p],
			Level:   values[birth[p]],
			Dynamic: top[p] - level(birth[p]),
			Root:    true,
		})
	}
	return out
}
