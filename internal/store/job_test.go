package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/store"
	"github.com/applytrack/applytrack/internal/store/model"
)

func newJob(owner, title string, createdAt time.Time) model.Job {
	return model.Job{
		OwnerID:     owner,
		Title:       title,
		Employer:    "Acme",
		AppliedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      "Pre-interview",
		WorkMode:    "Remote",
		CreatedAt:   createdAt,
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

var _ = Describe("job store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		now    time.Time
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
		now = time.Now().UTC()
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
	})

	Context("create and list", func() {
		It("assigns an id and lists jobs by owner in creation order", func() {
			second, err := s.Job().Create(context.TODO(), newJob("alice", "second", now.Add(time.Minute)))
			Expect(err).To(BeNil())
			Expect(second.ID).NotTo(BeEmpty())

			_, err = s.Job().Create(context.TODO(), newJob("alice", "first", now))
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), newJob("bob", "other", now))
			Expect(err).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByOwner("alice"))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
			Expect(jobs[0].Title).To(Equal("first"))
			Expect(jobs[1].Title).To(Equal("second"))
		})

		It("returns an empty list for an owner without jobs", func() {
			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByOwner("nobody"))
			Expect(err).To(BeNil())
			Expect(jobs).To(BeEmpty())
		})

		It("filters by rejected bucket", func() {
			rejected := newJob("alice", "rejected", now)
			rejected.Rejected = true
			ghosted := newJob("alice", "ghosted", now.Add(time.Second))
			ghosted.Ghosted = true
			_, err := s.Job().Create(context.TODO(), rejected)
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), ghosted)
			Expect(err).To(BeNil())
			_, err = s.Job().Create(context.TODO(), newJob("alice", "active", now.Add(2*time.Second)))
			Expect(err).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByOwner("alice").ByRejected(true))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))

			jobs, err = s.Job().List(context.TODO(), store.NewJobQueryFilter().ByOwner("alice").ByRejected(false))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Title).To(Equal("active"))
		})
	})

	Context("update", func() {
		It("updates only the supplied fields of an owned job", func() {
			created, err := s.Job().Create(context.TODO(), newJob("alice", "engineer", now))
			Expect(err).To(BeNil())

			updated, err := s.Job().Update(context.TODO(), "alice", created.ID, store.JobPatch{
				Status:   strPtr("Interview"),
				Location: strPtr("Austin, TX, United States"),
				Ghosted:  boolPtr(true),
			})
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal("Interview"))
			Expect(updated.Title).To(Equal("engineer"))
			Expect(updated.Ghosted).To(BeTrue())
			Expect(updated.Rejected).To(BeFalse())
			Expect(*updated.Location).To(Equal("Austin, TX, United States"))
		})

		It("clears the location with an empty value", func() {
			job := newJob("alice", "engineer", now)
			job.Location = strPtr("Austin, TX, United States")
			created, err := s.Job().Create(context.TODO(), job)
			Expect(err).To(BeNil())

			updated, err := s.Job().Update(context.TODO(), "alice", created.ID, store.JobPatch{Location: strPtr("")})
			Expect(err).To(BeNil())
			Expect(updated.Location).To(BeNil())
		})

		It("does not distinguish a foreign job from a missing one", func() {
			created, err := s.Job().Create(context.TODO(), newJob("alice", "engineer", now))
			Expect(err).To(BeNil())

			_, foreignErr := s.Job().Update(context.TODO(), "bob", created.ID, store.JobPatch{Title: strPtr("stolen")})
			_, missingErr := s.Job().Update(context.TODO(), "bob", "does-not-exist", store.JobPatch{Title: strPtr("stolen")})
			Expect(foreignErr).To(Equal(store.ErrRecordNotFound))
			Expect(missingErr).To(Equal(store.ErrRecordNotFound))

			job, err := s.Job().Get(context.TODO(), "alice", created.ID)
			Expect(err).To(BeNil())
			Expect(job.Title).To(Equal("engineer"))
		})
	})

	Context("delete", func() {
		It("deletes an owned job once", func() {
			created, err := s.Job().Create(context.TODO(), newJob("alice", "engineer", now))
			Expect(err).To(BeNil())

			deleted, err := s.Job().Delete(context.TODO(), "bob", created.ID)
			Expect(err).To(BeNil())
			Expect(deleted).To(BeFalse())

			deleted, err = s.Job().Delete(context.TODO(), "alice", created.ID)
			Expect(err).To(BeNil())
			Expect(deleted).To(BeTrue())

			deleted, err = s.Job().Delete(context.TODO(), "alice", created.ID)
			Expect(err).To(BeNil())
			Expect(deleted).To(BeFalse())
		})
	})

	Context("statistics", func() {
		It("counts jobs across owners", func() {
			offer := newJob("alice", "offer", now)
			offer.Status = "Offer"
			ghosted := newJob("bob", "ghosted", now)
			ghosted.Ghosted = true
			for _, j := range []model.Job{offer, ghosted, newJob("bob", "new", now)} {
				_, err := s.Job().Create(context.TODO(), j)
				Expect(err).To(BeNil())
			}

			stats, err := s.Statistics(context.TODO())
			Expect(err).To(BeNil())
			Expect(stats.Total).To(BeEquivalentTo(3))
			Expect(stats.Owners).To(BeEquivalentTo(2))
			Expect(stats.Rejected).To(BeEquivalentTo(1))
			Expect(stats.Ghosted).To(BeEquivalentTo(1))
			Expect(stats.ByStatus).To(HaveKeyWithValue("Offer", BeEquivalentTo(1)))
			Expect(stats.ByStatus).To(HaveKeyWithValue("Pre-interview", BeEquivalentTo(2)))
		})
	})

	Context("transaction", func() {
		It("commits a job", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Job().Create(ctx, newJob("alice", "engineer", now))
			Expect(err).To(BeNil())

			_, cerr := store.Commit(ctx)
			Expect(cerr).To(BeNil())

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rolls back a job", func() {
			ctx, err := s.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = s.Job().Create(ctx, newJob("alice", "engineer", now))
			Expect(err).To(BeNil())

			jobs, err := s.Job().List(ctx, store.NewJobQueryFilter().ByOwner("alice"))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))

			_, rerr := store.Rollback(ctx)
			Expect(rerr).To(BeNil())

			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) FROM jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})
})
