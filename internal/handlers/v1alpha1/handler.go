package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/service"
	"github.com/applytrack/applytrack/pkg/requestid"
)

type ServiceHandler struct {
	jobSrv       *service.JobService
	analyticsSrv *service.AnalyticsService
	reportSrv    *service.ReportService
}

func NewServiceHandler(jobService *service.JobService, analyticsService *service.AnalyticsService, reportService *service.ReportService) *ServiceHandler {
	return &ServiceHandler{
		jobSrv:       jobService,
		analyticsSrv: analyticsService,
		reportSrv:    reportService,
	}
}

// Routes mounts every authenticated endpoint on r.
func (s *ServiceHandler) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/info", s.GetInfo)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.ListJobs)
			r.Post("/", s.CreateJob)
			r.Get("/export", s.ExportJobs)
			r.Get("/{id}", s.GetJob)
			r.Patch("/{id}", s.UpdateJob)
			r.Delete("/{id}", s.DeleteJob)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", s.GetSummary)
			r.Get("/board", s.GetBoard)
			r.Get("/distribution", s.GetDistribution)
			r.Get("/funnel", s.GetFunnel)
			r.Get("/bar", s.GetBar)
			r.Get("/velocity", s.GetVelocity)
			r.Get("/heatmap", s.GetHeatmap)
			r.Get("/keywords", s.GetKeywords)
		})

		r.Post("/rpc/jobs.update", s.RpcUpdateJob)
		r.Post("/rpc/jobs.delete", s.RpcDeleteJob)
	})
}

func (s *ServiceHandler) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func (s *ServiceHandler) badRequest(w http.ResponseWriter, r *http.Request, message string, fields ...string) {
	body := api.Error{Message: message}
	if len(fields) > 0 {
		body.Fields = &fields
	}
	s.respond(w, r, http.StatusBadRequest, body)
}

// respondError maps service errors to status codes. Unknown errors are logged and hidden.
func (s *ServiceHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		unauthorized *service.ErrUnauthorized
		validation   *service.ErrValidation
		notFound     *service.ErrResourceNotFound
		unavailable  *service.ErrUpstreamUnavailable
	)

	switch {
	case errors.As(err, &unauthorized):
		s.respond(w, r, http.StatusUnauthorized, api.Error{Message: err.Error()})
	case errors.As(err, &validation):
		s.badRequest(w, r, err.Error(), validation.Fields...)
	case errors.As(err, &notFound):
		s.respond(w, r, http.StatusNotFound, api.Error{Message: err.Error()})
	case errors.As(err, &unavailable):
		s.respond(w, r, http.StatusServiceUnavailable, api.Error{Message: "job store unavailable, retry later"})
	default:
		zap.S().Named("handler").Errorw("request failed", "request_id", requestid.FromRequest(r), "error", err)
		s.respond(w, r, http.StatusInternalServerError, api.Error{Message: "internal error"})
	}
}

func (s *ServiceHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		s.badRequest(w, r, "empty body")
		return false
	}
	if err := render.DecodeJSON(r.Body, v); err != nil {
		s.badRequest(w, r, "malformed body")
		return false
	}
	return true
}
