package views

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"ukmap/internal/geo"
	"ukmap/internal/modules/sensors/types"
)

// MarkerColor is the fill used for sensor markers.
var MarkerColor = color.RGBA{R: 66, G: 163, B: 5, A: 255}

const DefaultMarkerSize = 10

type FigureOptions struct {
	MarkerSize  int
	MarkerColor color.Color
	LonTicks    int
	LatTicks    int
}

func DefaultFigureOptions() FigureOptions {
	return FigureOptions{
		MarkerSize:  DefaultMarkerSize,
		MarkerColor: MarkerColor,
		LonTicks:    geo.DefaultLonTicks,
		LatTicks:    geo.DefaultLatTicks,
	}
}

// withDefaults fills unset fields from DefaultFigureOptions.
func (o FigureOptions) withDefaults() FigureOptions {
	d := DefaultFigureOptions()
	if o.MarkerSize <= 0 {
		o.MarkerSize = d.MarkerSize
	}
	if o.MarkerColor == nil {
		o.MarkerColor = d.MarkerColor
	}
	if o.LonTicks <= 0 {
		o.LonTicks = d.LonTicks
	}
	if o.LatTicks <= 0 {
		o.LatTicks = d.LatTicks
	}
	return o
}

// Figure is a fully rendered map, ready to be served or written out.
type Figure struct {
	PNG      []byte
	Width    int
	Height   int
	Bounds   geo.BoundingBox
	Markers  []types.Marker
	LonTicks []geo.Tick
	LatTicks []geo.Tick
}

// LoadBaseMap decodes a PNG, JPEG, GIF, BMP, TIFF or WebP image.
func LoadBaseMap(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open base map: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("close base map", "path", path, "error", err)
		}
	}()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode base map %s: %w", path, err)
	}
	slog.Debug("base map loaded", "path", path, "format", format, "size", img.Bounds().Size().String())
	return img, nil
}

// RenderFigure draws markers onto a copy of base and frames it with
// geographic axes. Marker pixels must have been projected against the size of
// base. Zero fields in opts take their default.
func RenderFigure(base image.Image, markers []types.Marker, bounds geo.BoundingBox, opts FigureOptions) (*Figure, error) {
	opts = opts.withDefaults()
	pixels := make([]geo.Pixel, len(markers))
	for i, m := range markers {
		pixels[i] = m.Pixel
	}
	marked := DrawMarkers(base, pixels, opts.MarkerSize, opts.MarkerColor)

	size := marked.Bounds().Size()
	lonTicks := geo.LonTicks(bounds, size.X, opts.LonTicks)
	latTicks := geo.LatTicks(bounds, size.Y, opts.LatTicks)
	p := ComposeFigure(marked, lonTicks, latTicks)

	width, height := marginLeft+size.X+marginRight, marginTop+size.Y+marginBottom
	img := drawPlot(p, width, height).Image()
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("encode figure: %w", err)
	}
	rect := img.Bounds()
	return &Figure{
		PNG:      buf.Bytes(),
		Width:    rect.Dx(),
		Height:   rect.Dy(),
		Bounds:   bounds,
		Markers:  markers,
		LonTicks: lonTicks,
		LatTicks: latTicks,
	}, nil
}

// DrawMarkers returns a copy of base, rebased to the origin, with a filled
// ellipse inscribed in the box [x, y, x+size, y+size] for every pixel. Parts
// of a marker falling outside the image are clipped. base is left untouched.
// A nil c draws in MarkerColor.
func DrawMarkers(base image.Image, pixels []geo.Pixel, size int, c color.Color) *image.RGBA {
	if c == nil {
		c = MarkerColor
	}
	b := base.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), base, b.Min, draw.Src)

	for _, p := range pixels {
		fillEllipse(dst, image.Rect(p.X, p.Y, p.X+size+1, p.Y+size+1), c)
	}
	return dst
}

func fillEllipse(dst *image.RGBA, box image.Rectangle, c color.Color) {
	rx := float64(box.Dx()) / 2
	ry := float64(box.Dy()) / 2
	cx := float64(box.Min.X) + rx
	cy := float64(box.Min.Y) + ry

	clip := box.Intersect(dst.Bounds())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		for x := clip.Min.X; x < clip.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				dst.Set(x, y, c)
			}
		}
	}
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
