package vision

import (
	"strconv"
	"strings"
)

// Key identifies one feature. It is only turned into a string at the sink.
//
//	Key{Engine: "ls", Variant: "0", Curve: "DISP", Stat: "avg_value"}  -> ls0_DISP_avg_value
//	Key{Engine: "granulometry", Stat: "area", Index: 5}                -> granulometry_area_5
type Key struct {
	Engine  string
	Variant string
	Curve   string
	Stat    string
	// Index is appended when positive (a distance, radius or rank).
	Index int
}

func (k Key) String() string {
	parts := make([]string, 0, 4)
	parts = append(parts, k.Engine+k.Variant)
	if k.Curve != "" {
		parts = append(parts, k.Curve)
	}
	if k.Stat != "" {
		parts = append(parts, k.Stat)
	}
	if k.Index > 0 {
		parts = append(parts, strconv.Itoa(k.Index))
	}
	return strings.Join(parts, "_")
}

// Feature is a computed value under its key.
type Feature struct {
	Key   Key
	Value float64
}

// Features is the output of one engine run on one object.
type Features []Feature

// Add appends a feature.
func (fs *Features) Add(k Key, v float64) {
	*fs = append(*fs, Feature{Key: k, Value: v})
}

// Record writes every feature into sink.
func (fs Features) Record(sink Sink) {
	for _, f := range fs {
		sink.Set(f.Key.String(), f.Value)
	}
}

// Map formats the features into a name to value map.
func (fs Features) Map() map[string]float64 {
	m := make(map[string]float64, len(fs))
	for _, f := range fs {
		m[f.Key.String()] = f.Value
	}
	return m
}
