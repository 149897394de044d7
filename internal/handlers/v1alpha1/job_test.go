package v1alpha1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/analytics"
	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	handlers "github.com/applytrack/applytrack/internal/handlers/v1alpha1"
	"github.com/applytrack/applytrack/internal/service"
	"github.com/applytrack/applytrack/internal/store"
)

// asUser injects the identity named by the X-Test-User header, if any.
func asUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject := r.Header.Get("X-Test-User"); subject != "" {
			r = r.WithContext(auth.NewIdentityContext(r.Context(), auth.Identity{
				Subject: subject,
				Trust:   auth.TrustVerified,
				Source:  auth.SourceHeader,
			}))
		}
		next.ServeHTTP(w, r)
	})
}

var _ = Describe("job handlers", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		router chi.Router
	)

	do := func(user, method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	create := func(user, title string) api.Job {
		rec := do(user, http.MethodPost, "/api/v1/jobs", map[string]any{
			"title":       title,
			"employer":    "Acme",
			"appliedDate": "2024-01-03",
			"status":      "Pre-interview",
			"workMode":    "Hybrid",
			"ownerId":     "someone-else",
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var job api.Job
		Expect(json.Unmarshal(rec.Body.Bytes(), &job)).To(Succeed())
		return job
	}

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = ":memory:"

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db
		s = store.NewStore(db)
		Expect(s.InitialMigration(context.TODO())).To(BeNil())

		jobSrv := service.NewJobService(s)
		h := handlers.NewServiceHandler(jobSrv, service.NewAnalyticsService(jobSrv), service.NewReportService(jobSrv))

		router = chi.NewRouter()
		router.Use(asUser)
		h.Routes(router)
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
	})

	Context("crud", func() {
		It("creates a job owned by the caller", func() {
			job := create("alice", "Backend Engineer")
			Expect(job.Id).NotTo(BeEmpty())
			Expect(job.OwnerId).To(Equal("alice"))
			Expect(job.Rejected).To(BeFalse())

			rec := do("alice", http.MethodGet, "/api/v1/jobs", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var jobs api.JobList
			Expect(json.Unmarshal(rec.Body.Bytes(), &jobs)).To(Succeed())
			Expect(jobs).To(HaveLen(1))
		})

		It("returns 401 without identity", func() {
			rec := do("", http.MethodGet, "/api/v1/jobs", nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 400 with the invalid fields", func() {
			rec := do("alice", http.MethodPost, "/api/v1/jobs", map[string]any{
				"title":       "Engineer",
				"employer":    "Acme",
				"appliedDate": "2024-01-03",
				"status":      "Rejected",
			})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var e api.Error
			Expect(json.Unmarshal(rec.Body.Bytes(), &e)).To(Succeed())
			Expect(e.Fields).NotTo(BeNil())
			Expect(*e.Fields).To(ConsistOf("status", "workMode"))
		})

		It("patches and reports foreign jobs as not found", func() {
			job := create("alice", "Engineer")

			rec := do("bob", http.MethodPatch, "/api/v1/jobs/"+job.Id, map[string]any{"title": "Mine"})
			Expect(rec.Code).To(Equal(http.StatusNotFound))

			rec = do("alice", http.MethodPatch, "/api/v1/jobs/"+job.Id, map[string]any{"status": "Offer"})
			Expect(rec.Code).To(Equal(http.StatusOK))
			var updated api.Job
			Expect(json.Unmarshal(rec.Body.Bytes(), &updated)).To(Succeed())
			Expect(updated.Status).To(Equal(api.JobStatusOffer))
			Expect(updated.Title).To(Equal("Engineer"))
		})

		It("updates and deletes through the rpc routes", func() {
			job := create("alice", "Engineer")

			rec := do("alice", http.MethodPost, "/api/v1/rpc/jobs.update", map[string]any{"id": job.Id, "ghosted": true})
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = do("alice", http.MethodPost, "/api/v1/rpc/jobs.delete", map[string]any{"id": job.Id})
			Expect(rec.Code).To(Equal(http.StatusOK))
			var result api.DeleteResult
			Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
			Expect(result.Deleted).To(BeTrue())

			rec = do("alice", http.MethodDelete, "/api/v1/jobs/"+job.Id, nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("sorts the list on request", func() {
			create("alice", "b title")
			create("alice", "A title")

			rec := do("alice", http.MethodGet, "/api/v1/jobs?sortBy=title&order=asc", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var jobs api.JobList
			Expect(json.Unmarshal(rec.Body.Bytes(), &jobs)).To(Succeed())
			Expect(jobs[0].Title).To(Equal("A title"))
		})
	})

	Context("analytics", func() {
		It("returns an empty velocity series without jobs", func() {
			rec := do("alice", http.MethodGet, "/api/v1/analytics/velocity", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(bytes.TrimSpace(rec.Body.Bytes())).To(Equal([]byte("[]")))
		})

		It("computes the funnel", func() {
			job := create("alice", "Engineer")
			create("alice", "Engineer")
			rec := do("alice", http.MethodPatch, "/api/v1/jobs/"+job.Id, map[string]any{"rejected": true})
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = do("alice", http.MethodGet, "/api/v1/analytics/funnel", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var edges []analytics.FlowEdge
			Expect(json.Unmarshal(rec.Body.Bytes(), &edges)).To(Succeed())
			Expect(edges).To(HaveLen(1))
			Expect(edges[0].Value).To(Equal(1))
		})

		It("rejects an unknown metric", func() {
			rec := do("alice", http.MethodGet, "/api/v1/analytics/distribution?metric=salary", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a malformed year", func() {
			rec := do("alice", http.MethodGet, fmt.Sprintf("/api/v1/analytics/heatmap?year=%s", "last"), nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("export", func() {
		It("streams a csv attachment", func() {
			create("alice", "Engineer")

			rec := do("alice", http.MethodGet, "/api/v1/jobs/export?format=csv", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/csv"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("attachment"))
			Expect(rec.Body.String()).To(ContainSubstring("Engineer"))
		})
	})
})
