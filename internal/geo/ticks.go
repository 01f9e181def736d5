package geo

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultLonTicks = 7
	DefaultLatTicks = 8
)

// Tick is an axis graduation: a geographic value, its position in pixels along
// the axis and the printed label.
type Tick struct {
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	out := floats.Span(make([]float64, n), start, stop)
	out[n-1] = stop
	return out
}

// LonTicks returns n ticks along the horizontal axis, west to east.
func LonTicks(b BoundingBox, width, n int) []Tick {
	p := Projector{Bounds: b, Width: width}
	vals := Linspace(b.LonMin, b.LonMax, n)
	out := make([]Tick, 0, len(vals))
	for _, v := range vals {
		out = append(out, Tick{Value: v, Pos: p.X(v), Label: TickLabel(v)})
	}
	return out
}

// LatTicks returns n ticks along the vertical axis, north to south, so
// positions increase down the image.
func LatTicks(b BoundingBox, height, n int) []Tick {
	p := Projector{Bounds: b, Height: height}
	vals := Linspace(b.LatMin, b.LatMax, n)
	out := make([]Tick, 0, len(vals))
	for i := len(vals) - 1; i >= 0; i-- {
		v := vals[i]
		out = append(out, Tick{Value: v, Pos: p.Y(v), Label: TickLabel(v)})
	}
	return out
}

// TickLabel rounds v to four decimal places.
func TickLabel(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
