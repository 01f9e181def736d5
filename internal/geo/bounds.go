// Package geo maps geographic coordinates onto the pixel grid of a base map.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BoundingBox is the geographic rectangle used both to filter records and as
// the domain of the projection.
type BoundingBox struct {
	LatMin float64 `json:"latMin"`
	LatMax float64 `json:"latMax"`
	LonMin float64 `json:"lonMin"`
	LonMax float64 `json:"lonMax"`
}

// UK covers Great Britain and Northern Ireland.
var UK = BoundingBox{LatMin: 50.681, LatMax: 57.985, LonMin: -10.592, LonMax: 1.6848}

func (b BoundingBox) Validate() error {
	for _, v := range []float64{b.LatMin, b.LatMax, b.LonMin, b.LonMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bounding box %s: coordinates must be finite", b)
		}
	}
	if b.LatMin >= b.LatMax {
		return fmt.Errorf("bounding box %s: lat_min must be < lat_max", b)
	}
	if b.LonMin >= b.LonMax {
		return fmt.Errorf("bounding box %s: lon_min must be < lon_max", b)
	}
	return nil
}

// Contains reports whether the point lies inside the box, edges included.
// NaN coordinates are never contained.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax &&
		lon >= b.LonMin && lon <= b.LonMax
}

func (b BoundingBox) String() string {
	return strings.Join([]string{
		formatCoord(b.LatMin),
		formatCoord(b.LatMax),
		formatCoord(b.LonMin),
		formatCoord(b.LonMax),
	}, ",")
}

// ParseBoundingBox parses "lat_min,lat_max,lon_min,lon_max".
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("bounding box %q: want 4 comma-separated values, got %d", s, len(parts))
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("bounding box %q: value %d: %w", s, i+1, err)
		}
		vals[i] = v
	}
	b := BoundingBox{LatMin: vals[0], LatMax: vals[1], LonMin: vals[2], LonMax: vals[3]}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
