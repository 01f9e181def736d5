package views

import (
	"image"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"ukmap/internal/geo"
)

// Room around the map for tick labels and axis titles, in pixels.
const (
	marginLeft   = 90
	marginRight  = 30
	marginTop    = 30
	marginBottom = 64
)

// Rendering at 72 dpi makes one point one pixel.
const figureDPI = 72

// ComposeFigure shows the marked map as the data area of a plot in pixel
// space, with geographic tick labels and axis titles. Tick positions are
// measured from the top left of the map; the plot's y axis grows upward, so
// latitude ticks are flipped against the map height.
func ComposeFigure(marked image.Image, lonTicks, latTicks []geo.Tick) *plot.Plot {
	size := marked.Bounds().Size()
	w, h := float64(size.X), float64(size.Y)

	p := plot.New()
	p.Add(plotter.NewImage(marked, 0, 0, w, h))

	p.X.Label.Text = "Longitude"
	p.X.Min, p.X.Max = 0, w
	p.X.Padding = 0
	xt := make([]plot.Tick, 0, len(lonTicks))
	for _, t := range lonTicks {
		xt = append(xt, plot.Tick{Value: t.Pos, Label: t.Label})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)

	p.Y.Label.Text = "Latitude"
	p.Y.Min, p.Y.Max = 0, h
	p.Y.Padding = 0
	yt := make([]plot.Tick, 0, len(latTicks))
	for _, t := range latTicks {
		yt = append(yt, plot.Tick{Value: h - t.Pos, Label: t.Label})
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yt)

	return p
}

// drawPlot renders p onto a width x height pixel canvas.
func drawPlot(p *plot.Plot, width, height int) *vgimg.Canvas {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(width), vg.Length(height)),
		vgimg.UseDPI(figureDPI),
	)
	p.Draw(vgdraw.New(c))
	return c
}
