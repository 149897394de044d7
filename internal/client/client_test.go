package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/client"
	"github.com/applytrack/applytrack/pkg/middleware"
)

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		c        *client.Client
		lastReq  *http.Request
		lastBody []byte
	)

	BeforeEach(func() {
		handler = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastReq = r
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(r.Body)
			lastBody = buf.Bytes()
			handler(w, r)
		}))
		c = client.New(server.URL+"/", "secret-token", server.Client())
	})

	AfterEach(func() {
		server.Close()
	})

	writeJSON := func(status int, body any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
		}
	}

	Context("list jobs", func() {
		It("sends the bearer token and a request id", func() {
			handler = writeJSON(http.StatusOK, []api.Job{{Id: "1", Title: "Engineer"}})

			jobs, err := c.ListJobs(context.TODO())
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Title).To(Equal("Engineer"))

			Expect(lastReq.Method).To(Equal(http.MethodGet))
			Expect(lastReq.URL.Path).To(Equal("/api/v1/jobs"))
			Expect(lastReq.Header.Get("Authorization")).To(Equal("Bearer secret-token"))
			Expect(lastReq.Header.Get(middleware.RequestIDHeader)).NotTo(BeEmpty())
		})

		It("returns an empty list for an empty array", func() {
			handler = writeJSON(http.StatusOK, []api.Job{})

			jobs, err := c.ListJobs(context.TODO())
			Expect(err).To(BeNil())
			Expect(jobs).NotTo(BeNil())
			Expect(jobs).To(BeEmpty())
		})
	})

	Context("create job", func() {
		It("posts the payload as json", func() {
			handler = writeJSON(http.StatusCreated, api.Job{Id: "42", Title: "Engineer", Employer: "Acme"})

			job, err := c.CreateJob(context.TODO(), api.JobCreate{
				Title:       "Engineer",
				Employer:    "Acme",
				AppliedDate: "2024-01-15",
				Status:      api.JobStatusPreInterview,
				WorkMode:    api.WorkModeRemote,
			})
			Expect(err).To(BeNil())
			Expect(job.Id).To(Equal("42"))

			Expect(lastReq.Method).To(Equal(http.MethodPost))
			Expect(lastReq.Header.Get("Content-Type")).To(Equal("application/json"))

			var sent api.JobCreate
			Expect(json.Unmarshal(lastBody, &sent)).To(Succeed())
			Expect(sent.Employer).To(Equal("Acme"))
			Expect(sent.AppliedDate).To(Equal("2024-01-15"))
		})

		It("exposes validation fields", func() {
			fields := []string{"title", "workMode"}
			handler = writeJSON(http.StatusBadRequest, api.Error{Message: "validation failed", Fields: &fields})

			_, err := c.CreateJob(context.TODO(), api.JobCreate{})
			Expect(err).NotTo(BeNil())

			apiErr, ok := err.(*client.APIError)
			Expect(ok).To(BeTrue())
			Expect(apiErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(apiErr.Fields).To(ConsistOf("title", "workMode"))
		})
	})

	Context("update and delete", func() {
		It("patches the job by id", func() {
			handler = writeJSON(http.StatusOK, api.Job{Id: "7", Rejected: true})

			rejected := true
			job, err := c.UpdateJob(context.TODO(), "7", api.JobUpdate{Rejected: &rejected})
			Expect(err).To(BeNil())
			Expect(job.Rejected).To(BeTrue())
			Expect(lastReq.Method).To(Equal(http.MethodPatch))
			Expect(lastReq.URL.Path).To(Equal("/api/v1/jobs/7"))
			Expect(string(lastBody)).To(Equal(`{"rejected":true}`))
		})

		It("reports not found", func() {
			handler = writeJSON(http.StatusNotFound, api.Error{Message: "job 7 not found"})

			err := c.DeleteJob(context.TODO(), "7")
			Expect(err).NotTo(BeNil())
			Expect(client.IsNotFound(err)).To(BeTrue())
			Expect(lastReq.Method).To(Equal(http.MethodDelete))
		})

		It("keeps a plain text error body", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("upstream down\n"))
			}

			err := c.DeleteJob(context.TODO(), "7")
			Expect(err).To(MatchError(ContainSubstring("upstream down")))
			Expect(client.IsNotFound(err)).To(BeFalse())
		})
	})

	Context("export", func() {
		It("streams the file content", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/csv")
				_, _ = w.Write([]byte("title,employer\n"))
			}

			buf := new(bytes.Buffer)
			Expect(c.Export(context.TODO(), "csv", buf)).To(Succeed())
			Expect(buf.String()).To(Equal("title,employer\n"))
			Expect(lastReq.URL.Query().Get("format")).To(Equal("csv"))
		})
	})

	Context("without a token", func() {
		It("sends no authorization header", func() {
			handler = writeJSON(http.StatusOK, api.Health{Status: "ok"})

			anonymous := client.New(server.URL, "", server.Client())
			Expect(anonymous.HealthCheck(context.TODO())).To(Succeed())
			Expect(lastReq.Header.Get("Authorization")).To(BeEmpty())
		})
	})
})

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("persists and parses a config file", func() {
		filename := filepath.Join(dir, "nested", "client.yaml")
		Expect(client.WriteConfig(filename, "http://localhost:3443", "abc")).To(Succeed())

		info, err := os.Stat(filename)
		Expect(err).To(BeNil())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0600)))

		cfg, err := client.ParseConfigFile(filename)
		Expect(err).To(BeNil())
		Expect(cfg.Service.Server).To(Equal("http://localhost:3443"))
		Expect(cfg.Service.Token).To(Equal("abc"))
	})

	It("rejects a config without server", func() {
		cfg := client.NewDefault()
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("no server found")))
	})

	It("rejects a server without hostname", func() {
		cfg := client.NewDefault()
		cfg.Service.Server = "file:///tmp"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("no hostname")))

		_, err := client.NewFromConfig(cfg)
		Expect(err).NotTo(BeNil())
	})
})
