package controller

import (
	"net/http"

	"ukmap/internal/modules/sensors/views"
)

type SensorsController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type sensorsControllerImpl struct {
	figure *views.Figure
}

// NewSensorsController serves an already rendered figure; nothing is
// recomputed per request.
func NewSensorsController(figure *views.Figure) SensorsController {
	return &sensorsControllerImpl{figure: figure}
}

func (c *sensorsControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleMapPage)
	mux.HandleFunc("GET /map.png", c.handleMapImage)
	mux.HandleFunc("GET /api/sensors", c.handleSensors)
}
