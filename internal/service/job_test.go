package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/auth"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/events"
	"github.com/applytrack/applytrack/internal/service"
	"github.com/applytrack/applytrack/internal/service/mappers"
	"github.com/applytrack/applytrack/internal/store"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func userContext(subject string) context.Context {
	return auth.NewIdentityContext(context.TODO(), auth.Identity{
		Subject: subject,
		Trust:   auth.TrustVerified,
		Source:  auth.SourceHeader,
	})
}

func validForm(title string) mappers.JobCreateForm {
	return mappers.JobCreateForm{
		Title:       title,
		Employer:    "Acme",
		AppliedDate: "2024-01-03",
		Status:      "Pre-interview",
		WorkMode:    "Remote",
	}
}

type recordedEvent struct {
	kind    string
	subject string
	payload events.JobEvent
}

type eventRecorder struct {
	events []recordedEvent
}

func (r *eventRecorder) Write(_ context.Context, kind, subject string, payload any) error {
	r.events = append(r.events, recordedEvent{kind: kind, subject: subject, payload: payload.(events.JobEvent)})
	return nil
}

var _ = Describe("job service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		svc    *service.JobService
		rec    *eventRecorder
		alice  context.Context
		bob    context.Context
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = ":memory:"

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())
		gormdb = db

		s = store.NewStore(db)
		Expect(s.InitialMigration(context.TODO())).To(BeNil())

		rec = &eventRecorder{}
		svc = service.NewJobService(s,
			service.WithOperationTimeout(cfg.Database.OperationTimeout),
			service.WithEventWriter(rec),
		)
		alice = userContext("alice")
		bob = userContext("bob")
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
		rec.events = nil
	})

	Context("events", func() {
		It("publishes one event per successful change", func() {
			job, err := svc.CreateJob(alice, validForm("Engineer"))
			Expect(err).To(BeNil())

			_, err = svc.UpdateJob(alice, job.ID, mappers.JobUpdateForm{Rejected: boolPtr(true)})
			Expect(err).To(BeNil())

			_, err = svc.UpdateJob(bob, job.ID, mappers.JobUpdateForm{Rejected: boolPtr(false)})
			Expect(err).NotTo(BeNil())

			_, err = svc.DeleteJob(alice, job.ID)
			Expect(err).To(BeNil())

			Expect(rec.events).To(HaveLen(3))
			Expect(rec.events[0].kind).To(Equal(events.JobCreatedKind))
			Expect(rec.events[0].subject).To(Equal(job.ID))
			Expect(rec.events[0].payload.OwnerID).To(Equal("alice"))
			Expect(rec.events[0].payload.Job.Title).To(Equal("Engineer"))

			Expect(rec.events[1].kind).To(Equal(events.JobUpdatedKind))
			Expect(rec.events[1].payload.Job.Rejected).To(BeTrue())

			Expect(rec.events[2].kind).To(Equal(events.JobDeletedKind))
			Expect(rec.events[2].payload.Job).To(BeNil())
		})
	})

	Context("identity", func() {
		It("refuses every operation without identity", func() {
			ctx := context.TODO()

			_, err := svc.ListJobs(ctx, nil)
			var unauthorized *service.ErrUnauthorized
			Expect(errors.As(err, &unauthorized)).To(BeTrue())

			_, err = svc.CreateJob(ctx, validForm("Engineer"))
			Expect(errors.As(err, &unauthorized)).To(BeTrue())

			_, err = svc.UpdateJob(ctx, "id", mappers.JobUpdateForm{})
			Expect(errors.As(err, &unauthorized)).To(BeTrue())

			_, err = svc.DeleteJob(ctx, "id")
			Expect(errors.As(err, &unauthorized)).To(BeTrue())

			var count int64
			Expect(gormdb.Table("jobs").Count(&count).Error).To(BeNil())
			Expect(count).To(BeZero())
		})
	})

	Context("create", func() {
		It("stores the job under the caller", func() {
			job, err := svc.CreateJob(alice, validForm("Backend Engineer"))
			Expect(err).To(BeNil())
			Expect(job.ID).NotTo(BeEmpty())
			Expect(job.OwnerID).To(Equal("alice"))
			Expect(job.Rejected).To(BeFalse())
			Expect(job.Ghosted).To(BeFalse())
			Expect(job.AppliedDate).To(Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))

			jobs, err := svc.ListJobs(alice, nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].ID).To(Equal(job.ID))
		})

		It("canonicalizes the location", func() {
			form := validForm("Engineer")
			form.Location = strPtr(" austin ,  tx ")

			job, err := svc.CreateJob(alice, form)
			Expect(err).To(BeNil())
			Expect(job.Location).NotTo(BeNil())
			Expect(*job.Location).To(Equal("austin, TX, United States"))
		})

		It("names every invalid field and writes nothing", func() {
			form := validForm("")
			form.Status = "Rejected"
			form.WorkMode = ""
			form.AppliedDate = "not a date"
			form.Location = strPtr("Austin")

			_, err := svc.CreateJob(alice, form)
			var validationErr *service.ErrValidation
			Expect(errors.As(err, &validationErr)).To(BeTrue())
			Expect(validationErr.Fields).To(ConsistOf("title", "appliedDate", "status", "workMode", "location"))

			jobs, err := svc.ListJobs(alice, nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(BeEmpty())
		})
	})

	Context("list", func() {
		It("returns only the caller's jobs", func() {
			_, err := svc.CreateJob(alice, validForm("A"))
			Expect(err).To(BeNil())
			_, err = svc.CreateJob(bob, validForm("B"))
			Expect(err).To(BeNil())

			jobs, err := svc.ListJobs(bob, nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Title).To(Equal("B"))
		})

		It("returns an empty list for a user without jobs", func() {
			jobs, err := svc.ListJobs(bob, nil)
			Expect(err).To(BeNil())
			Expect(jobs).NotTo(BeNil())
			Expect(jobs).To(BeEmpty())
		})

		It("filters rejected jobs", func() {
			job, err := svc.CreateJob(alice, validForm("A"))
			Expect(err).To(BeNil())
			_, err = svc.CreateJob(alice, validForm("B"))
			Expect(err).To(BeNil())
			_, err = svc.UpdateJob(alice, job.ID, mappers.JobUpdateForm{Ghosted: boolPtr(true)})
			Expect(err).To(BeNil())

			jobs, err := svc.ListJobs(alice, service.NewJobFilter(service.WithRejected(true)))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].ID).To(Equal(job.ID))
		})
	})

	Context("update", func() {
		It("changes only the supplied fields", func() {
			job, err := svc.CreateJob(alice, validForm("Engineer"))
			Expect(err).To(BeNil())

			updated, err := svc.UpdateJob(alice, job.ID, mappers.JobUpdateForm{
				Status:   strPtr("Interview"),
				Location: strPtr("Washington DC"),
			})
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal("Interview"))
			Expect(*updated.Location).To(Equal("Washington, DC, United States"))
			Expect(updated.Title).To(Equal("Engineer"))
			Expect(updated.WorkMode).To(Equal("Remote"))
			Expect(updated.CreatedAt.Unix()).To(Equal(job.CreatedAt.Unix()))
		})

		It("keeps the status of a ghosted job", func() {
			job, err := svc.CreateJob(alice, validForm("Engineer"))
			Expect(err).To(BeNil())

			updated, err := svc.UpdateJob(alice, job.ID, mappers.JobUpdateForm{Ghosted: boolPtr(true)})
			Expect(err).To(BeNil())
			Expect(updated.Ghosted).To(BeTrue())
			Expect(updated.Status).To(Equal("Pre-interview"))
		})

		It("reports another user's job as not found and leaves it untouched", func() {
			job, err := svc.CreateJob(alice, validForm("Engineer"))
			Expect(err).To(BeNil())

			_, err = svc.UpdateJob(bob, job.ID, mappers.JobUpdateForm{Title: strPtr("Hacked")})
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())

			_, err = svc.UpdateJob(alice, "missing", mappers.JobUpdateForm{Title: strPtr("Hacked")})
			Expect(errors.As(err, &notFound)).To(BeTrue())

			stored, err := svc.GetJob(alice, job.ID)
			Expect(err).To(BeNil())
			Expect(stored.Title).To(Equal("Engineer"))
		})

		It("rejects an invalid location", func() {
			job, err := svc.CreateJob(alice, validForm("Engineer"))
			Expect(err).To(BeNil())

			_, err = svc.UpdateJob(alice, job.ID, mappers.JobUpdateForm{Location: strPtr("Austin")})
			var validationErr *service.ErrValidation
			Expect(errors.As(err, &validationErr)).To(BeTrue())
			Expect(validationErr.Fields).To(Equal([]string{"location"}))
		})

		It("clears the location with an empty string", func() {
			form := validForm("Engineer")
			form.Location = strPtr("Austin, TX")
			job, err := svc.CreateJob(alice, form)
			Expect(err).To(BeNil())

			updated, err := svc.UpdateJob(alice, job.ID, mappers.JobUpdateForm{Location: strPtr("")})
			Expect(err).To(BeNil())
			Expect(updated.Location).To(BeNil())
		})
	})

	Context("delete", func() {
		It("deletes once", func() {
			job, err := svc.CreateJob(alice, validForm("Engineer"))
			Expect(err).To(BeNil())

			_, err = svc.DeleteJob(bob, job.ID)
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())

			deleted, err := svc.DeleteJob(alice, job.ID)
			Expect(err).To(BeNil())
			Expect(deleted).To(BeTrue())

			deleted, err = svc.DeleteJob(alice, job.ID)
			Expect(deleted).To(BeFalse())
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})
	})

	Context("store unavailable", func() {
		It("maps an expired deadline to upstream unavailable", func() {
			ctx, cancel := context.WithDeadline(alice, time.Now().Add(-time.Second))
			defer cancel()

			_, err := svc.ListJobs(ctx, nil)
			var unavailable *service.ErrUpstreamUnavailable
			Expect(errors.As(err, &unavailable)).To(BeTrue())
		})
	})
})
