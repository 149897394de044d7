package v1alpha1

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/analytics"
	"github.com/applytrack/applytrack/internal/service"
	"github.com/applytrack/applytrack/internal/service/mappers"
)

// (GET /api/v1/jobs)
func (s *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	var (
		status   string
		workMode string
		rejected *bool
		sortBy   string
		order    string
	)
	query := r.URL.Query()
	for name, dest := range map[string]any{
		"status":   &status,
		"workMode": &workMode,
		"rejected": &rejected,
		"sortBy":   &sortBy,
		"order":    &order,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			s.badRequest(w, r, fmt.Sprintf("invalid query parameter %s", name), name)
			return
		}
	}

	filters := []service.JobFilterFunc{service.WithStatus(status), service.WithWorkMode(workMode)}
	if rejected != nil {
		filters = append(filters, service.WithRejected(*rejected))
	}

	jobs, err := s.jobSrv.ListJobs(r.Context(), service.NewJobFilter(filters...))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result := mappers.JobListToApi(jobs...)
	if sortBy != "" || order != "" {
		result = analytics.Sort(result, analytics.SortBy(sortBy), analytics.SortOrder(order))
	}

	s.respond(w, r, http.StatusOK, result)
}

// (POST /api/v1/jobs)
func (s *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var body api.JobCreate
	if !s.decode(w, r, &body) {
		return
	}

	job, err := s.jobSrv.CreateJob(r.Context(), mappers.JobCreateFormFromApi(body))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusCreated, mappers.JobToApi(job))
}

// (GET /api/v1/jobs/{id})
func (s *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobSrv.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, mappers.JobToApi(*job))
}

// (PATCH /api/v1/jobs/{id})
func (s *ServiceHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var body api.JobUpdate
	if !s.decode(w, r, &body) {
		return
	}
	s.updateJob(w, r, chi.URLParam(r, "id"), body)
}

// (POST /api/v1/rpc/jobs.update)
func (s *ServiceHandler) RpcUpdateJob(w http.ResponseWriter, r *http.Request) {
	var body api.JobUpdateRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Id == "" {
		s.badRequest(w, r, "missing job id", "id")
		return
	}
	s.updateJob(w, r, body.Id, body.JobUpdate)
}

func (s *ServiceHandler) updateJob(w http.ResponseWriter, r *http.Request, id string, body api.JobUpdate) {
	job, err := s.jobSrv.UpdateJob(r.Context(), id, mappers.JobUpdateFormFromApi(body))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, mappers.JobToApi(job))
}

// (DELETE /api/v1/jobs/{id})
func (s *ServiceHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	s.deleteJob(w, r, chi.URLParam(r, "id"))
}

// (POST /api/v1/rpc/jobs.delete)
func (s *ServiceHandler) RpcDeleteJob(w http.ResponseWriter, r *http.Request) {
	var body api.JobDeleteRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Id == "" {
		s.badRequest(w, r, "missing job id", "id")
		return
	}
	s.deleteJob(w, r, body.Id)
}

func (s *ServiceHandler) deleteJob(w http.ResponseWriter, r *http.Request, id string) {
	deleted, err := s.jobSrv.DeleteJob(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, api.DeleteResult{Deleted: deleted})
}

// (GET /api/v1/jobs/export)
func (s *ServiceHandler) ExportJobs(w http.ResponseWriter, r *http.Request) {
	var format string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		s.badRequest(w, r, "invalid query parameter format", "format")
		return
	}

	report, err := s.reportSrv.GenerateReport(r.Context(), service.ReportOptions{Format: service.ReportFormat(format)})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Content)
}
