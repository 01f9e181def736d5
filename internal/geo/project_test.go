package geo

import (
	"math"
	"testing"
)

func TestInterp(t *testing.T) {
	tests := []struct {
		name               string
		x, x0, x1, y0, y1 float64
		want               float64
	}{
		{name: "midpoint", x: 5, x0: 0, x1: 10, y0: 0, y1: 100, want: 50},
		{name: "lower edge", x: 0, x0: 0, x1: 10, y0: 0, y1: 100, want: 0},
		{name: "upper edge", x: 10, x0: 0, x1: 10, y0: 0, y1: 100, want: 100},
		{name: "clamped below", x: -3, x0: 0, x1: 10, y0: 0, y1: 100, want: 0},
		{name: "clamped above", x: 42, x0: 0, x1: 10, y0: 0, y1: 100, want: 100},
		{name: "inverted target", x: 2.5, x0: 0, x1: 10, y0: 100, y1: 0, want: 75},
		{name: "negative source", x: -4.5, x0: -11, x1: 2, y0: 0, y1: 1000, want: 500},
		{name: "empty source interval", x: 3, x0: 5, x1: 5, y0: 7, y1: 9, want: 7},
		{name: "reversed source interval", x: 3, x0: 5, x1: 1, y0: 7, y1: 9, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interp(tt.x, tt.x0, tt.x1, tt.y0, tt.y1)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Interp(%v, %v, %v, %v, %v) = %v; want %v", tt.x, tt.x0, tt.x1, tt.y0, tt.y1, got, tt.want)
			}
		})
	}
}

func TestProject_example(t *testing.T) {
	p := NewProjector(BoundingBox{LatMin: 50, LatMax: 58, LonMin: -11, LonMax: 2}, 1000, 1000)

	got := p.Project(54, -4.5)
	if got != (Pixel{X: 500, Y: 500}) {
		t.Errorf("Project(54, -4.5) = %+v; want {X:500 Y:500}", got)
	}
}

func TestProject_corners(t *testing.T) {
	b := UK
	p := NewProjector(b, 800, 600)

	tests := []struct {
		name     string
		lat, lon float64
		want     Pixel
	}{
		{name: "north west", lat: b.LatMax, lon: b.LonMin, want: Pixel{X: 0, Y: 0}},
		{name: "north east", lat: b.LatMax, lon: b.LonMax, want: Pixel{X: 800, Y: 0}},
		{name: "south west", lat: b.LatMin, lon: b.LonMin, want: Pixel{X: 0, Y: 600}},
		{name: "south east", lat: b.LatMin, lon: b.LonMax, want: Pixel{X: 800, Y: 600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Project(tt.lat, tt.lon); got != tt.want {
				t.Errorf("Project(%v, %v) = %+v; want %+v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestProject_clampsOutsideBounds(t *testing.T) {
	p := NewProjector(UK, 100, 200)

	if got := p.Project(90, -180); got != (Pixel{X: 0, Y: 0}) {
		t.Errorf("Project(90, -180) = %+v; want {X:0 Y:0}", got)
	}
	if got := p.Project(-90, 180); got != (Pixel{X: 100, Y: 200}) {
		t.Errorf("Project(-90, 180) = %+v; want {X:100 Y:200}", got)
	}
}

func TestProject_truncates(t *testing.T) {
	p := NewProjector(BoundingBox{LatMin: 0, LatMax: 3, LonMin: 0, LonMax: 3}, 10, 10)

	// 1/3 of 10 is 3.33 and 2/3 is 6.67; both truncate.
	got := p.Project(2, 1)
	if got != (Pixel{X: 3, Y: 3}) {
		t.Errorf("Project(2, 1) = %+v; want {X:3 Y:3}", got)
	}
	got = p.Project(1, 2)
	if got != (Pixel{X: 6, Y: 6}) {
		t.Errorf("Project(1, 2) = %+v; want {X:6 Y:6}", got)
	}
}

func TestProject_monotonic(t *testing.T) {
	p := NewProjector(UK, 1024, 1536)

	prevX := -1
	for lon := UK.LonMin - 1; lon <= UK.LonMax+1; lon += 0.01 {
		x := p.Project(54, lon).X
		if x < prevX {
			t.Fatalf("X decreased at lon=%v: %d < %d", lon, x, prevX)
		}
		prevX = x
	}

	prevY := math.MaxInt
	for lat := UK.LatMin - 1; lat <= UK.LatMax+1; lat += 0.01 {
		y := p.Project(lat, -3).Y
		if y > prevY {
			t.Fatalf("Y increased at lat=%v: %d > %d", lat, y, prevY)
		}
		prevY = y
	}
}
