package v1alpha1

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/applytrack/applytrack/internal/analytics"
)

// (GET /api/v1/analytics/summary)
func (s *ServiceHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	summary, err := s.analyticsSrv.Summary(r.Context(), dateRange)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, summary)
}

// (GET /api/v1/analytics/board)
func (s *ServiceHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	board, err := s.analyticsSrv.Board(r.Context(), dateRange)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, board)
}

// (GET /api/v1/analytics/distribution)
func (s *ServiceHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	var raw string
	if err := runtime.BindQueryParameter("form", true, false, "metric", r.URL.Query(), &raw); err != nil {
		s.badRequest(w, r, "invalid query parameter metric", "metric")
		return
	}
	metric, err := analytics.ParseMetric(raw)
	if err != nil {
		s.badRequest(w, r, err.Error(), "metric")
		return
	}

	slices, err := s.analyticsSrv.Distribution(r.Context(), metric, dateRange)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, slices)
}

// (GET /api/v1/analytics/funnel)
func (s *ServiceHandler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	edges, err := s.analyticsSrv.Funnel(r.Context(), dateRange)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, edges)
}

// (GET /api/v1/analytics/bar)
func (s *ServiceHandler) GetBar(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	var raw string
	if err := runtime.BindQueryParameter("form", true, false, "groupBy", r.URL.Query(), &raw); err != nil {
		s.badRequest(w, r, "invalid query parameter groupBy", "groupBy")
		return
	}
	groupBy, err := analytics.ParseGroupBy(raw)
	if err != nil {
		s.badRequest(w, r, err.Error(), "groupBy")
		return
	}

	rows, err := s.analyticsSrv.Bar(r.Context(), groupBy, dateRange)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, rows)
}

// (GET /api/v1/analytics/velocity)
func (s *ServiceHandler) GetVelocity(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	weeks, err := s.analyticsSrv.Velocity(r.Context(), dateRange)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, weeks)
}

// (GET /api/v1/analytics/heatmap)
func (s *ServiceHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	var year int
	if err := runtime.BindQueryParameter("form", true, false, "year", r.URL.Query(), &year); err != nil {
		s.badRequest(w, r, "invalid query parameter year", "year")
		return
	}

	heatmap, err := s.analyticsSrv.Heatmap(r.Context(), year)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, heatmap)
}

// (GET /api/v1/analytics/keywords)
func (s *ServiceHandler) GetKeywords(w http.ResponseWriter, r *http.Request) {
	dateRange, ok := s.dateRange(w, r)
	if !ok {
		return
	}

	keywords, err := s.analyticsSrv.Keywords(r.Context(), dateRange)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, keywords)
}

func (s *ServiceHandler) dateRange(w http.ResponseWriter, r *http.Request) (analytics.DateRange, bool) {
	var raw string
	if err := runtime.BindQueryParameter("form", true, false, "range", r.URL.Query(), &raw); err != nil {
		s.badRequest(w, r, "invalid query parameter range", "range")
		return "", false
	}

	dateRange, err := analytics.ParseDateRange(raw)
	if err != nil {
		s.badRequest(w, r, err.Error(), "range")
		return "", false
	}
	return dateRange, true
}
