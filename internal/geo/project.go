package geo

import "gonum.org/v1/gonum/interp"

// Pixel is a position on the base map raster; Y grows downward.
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Interp maps x linearly from [x0, x1] onto [y0, y1]. x is clamped to the
// source interval first, so the result always lies between y0 and y1.
// x0 must be less than x1; otherwise y0 is returned.
func Interp(x, x0, x1, y0, y1 float64) float64 {
	if !(x0 < x1) {
		return y0
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit([]float64{x0, x1}, []float64{y0, y1}); err != nil {
		return y0
	}
	return pl.Predict(x)
}

// Projector maps coordinates inside Bounds onto a Width x Height image.
type Projector struct {
	Bounds BoundingBox
	Width  int
	Height int
}

func NewProjector(bounds BoundingBox, width, height int) Projector {
	return Projector{Bounds: bounds, Width: width, Height: height}
}

// X returns the unrounded column for a longitude.
func (p Projector) X(lon float64) float64 {
	return Interp(lon, p.Bounds.LonMin, p.Bounds.LonMax, 0, float64(p.Width))
}

// Y returns the unrounded row for a latitude. Latitude grows northward while
// rows grow downward, so LatMin lands on the bottom edge.
func (p Projector) Y(lat float64) float64 {
	return Interp(lat, p.Bounds.LatMin, p.Bounds.LatMax, float64(p.Height), 0)
}

// Project returns the pixel for (lat, lon), truncated toward zero.
func (p Projector) Project(lat, lon float64) Pixel {
	return Pixel{X: int(p.X(lon)), Y: int(p.Y(lat))}
}
