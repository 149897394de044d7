package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/pkg/version"
)

// (GET /api/v1/info)
func (s *ServiceHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, version.Get())
}

// (GET /health)
func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.Health{Status: "ok"})
}
