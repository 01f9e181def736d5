package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"

	"ukmap/internal/geo"
	"ukmap/internal/modules/sensors/types"
)

var pageTmpl *template.Template

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded page templates. Call during startup before
// serving requests.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// MapPageData is the view model for the map page.
type MapPageData struct {
	Title    string
	ImageURL string
	Width    int
	Height   int
	Bounds   geo.BoundingBox
	Markers  []types.Marker
}

func NewMapPageData(fig *Figure) *MapPageData {
	return &MapPageData{
		Title:    "Sensor locations",
		ImageURL: "/map.png",
		Width:    fig.Width,
		Height:   fig.Height,
		Bounds:   fig.Bounds,
		Markers:  fig.Markers,
	}
}

func RenderMapPage(w io.Writer, data *MapPageData) error {
	if pageTmpl == nil {
		return errors.New("map template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "map.html", data)
}
