package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"ukmap/internal/geo"
	"ukmap/internal/modules/sensors/types"
	"ukmap/internal/modules/sensors/views"
	"ukmap/internal/utils"
)

func (c *sensorsControllerImpl) handleMapPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if err := views.RenderMapPage(&buf, views.NewMapPageData(c.figure)); err != nil {
		slog.Error("map page render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("write map page", "error", err)
	}
}

func (c *sensorsControllerImpl) handleMapImage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	utils.WriteBlob(w, http.StatusOK, "image/png", c.figure.PNG)
}

type sensorsResponse struct {
	Bounds  geo.BoundingBox `json:"bounds"`
	Count   int             `json:"count"`
	Markers []types.Marker  `json:"markers"`
}

func (c *sensorsControllerImpl) handleSensors(w http.ResponseWriter, r *http.Request) {
	markers := c.figure.Markers
	if markers == nil {
		markers = []types.Marker{}
	}
	utils.WriteJSON(w, http.StatusOK, sensorsResponse{
		Bounds:  c.figure.Bounds,
		Count:   len(markers),
		Markers: markers,
	})
}
