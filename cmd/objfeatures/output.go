package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/vision"
)

// labelsFromImage keeps raw label values; 8-bit label images must not be
// widened the way intensity images are.
func labelsFromImage(img image.Image) *rimage.Grid[uint16] {
	gray, ok := img.(*image.Gray)
	if !ok {
		return rimage.GridFromImage(img)
	}
	ga := rimage.GrayAccessor{Gray: gray}
	b := ga.Bounds()
	out := rimage.NewGrid[uint16](b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, uint16(ga.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return out
}

type objectRecord struct {
	Label    int                `json:"label"`
	BBox     [4]int             `json:"bbox"`
	Centroid [2]float64         `json:"centroid"`
	Size     int                `json:"size"`
	Features map[string]float64 `json:"features"`
}

func writeObjects(w io.Writer, objects []*vision.Object, format string) error {
	switch format {
	case formatJSON:
		records := lo.Map(objects, func(o *vision.Object, _ int) objectRecord {
			return objectRecord{
				Label:    o.Label,
				BBox:     [4]int{o.BoundingBox.Min.X, o.BoundingBox.Min.Y, o.BoundingBox.Max.X, o.BoundingBox.Max.Y},
				Centroid: [2]float64{o.Centroid.X, o.Centroid.Y},
				Size:     o.Size,
				Features: o.Features(),
			}
		})
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case formatTable:
		_, err := fmt.Fprintln(w, featureTable(objects))
		return err
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// featureTable renders one row per object and one column per feature name
// seen on any object; missing features are left blank.
func featureTable(objects []*vision.Object) string {
	names := map[string]struct{}{}
	for _, o := range objects {
		for _, n := range o.Names() {
			names[n] = struct{}{}
		}
	}
	columns := lo.Keys(names)
	sort.Strings(columns)

	t := table.NewWriter()
	header := table.Row{"Label", "Size"}
	for _, n := range columns {
		header = append(header, n)
	}
	t.AppendHeader(header)
	for _, o := range objects {
		row := table.Row{o.Label, o.Size}
		for _, n := range columns {
			if v, ok := o.Get(n); ok {
				row = append(row, fmt.Sprintf("%.6g", v))
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	return t.Render()
}
