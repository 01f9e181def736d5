package sensors

import (
	"net/http"

	"ukmap/internal/modules/sensors/controller"
	"ukmap/internal/modules/sensors/views"
)

func RegisterFeature(mux *http.ServeMux, figure *views.Figure) {
	sensorsController := controller.NewSensorsController(figure)
	sensorsController.RegisterRoutes(mux)
}
