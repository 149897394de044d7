package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/applytrack/applytrack/internal/analytics"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/service"
	"github.com/applytrack/applytrack/internal/store"
)

var _ = Describe("reports and analytics", Ordered, func() {
	var (
		s         store.Store
		jobs      *service.JobService
		reports   *service.ReportService
		dashboard *service.AnalyticsService
		alice     context.Context
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Type = "sqlite"
		cfg.Database.Name = ":memory:"

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())
		s = store.NewStore(db)
		Expect(s.InitialMigration(context.TODO())).To(BeNil())

		clock := func() time.Time { return time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC) }
		jobs = service.NewJobService(s, service.WithClock(clock))
		reports = service.NewReportService(jobs)
		dashboard = service.NewAnalyticsService(jobs)
		alice = userContext("alice")

		for _, d := range []string{"2024-01-01", "2024-01-03", "2024-01-15"} {
			form := validForm("Backend Engineer")
			form.AppliedDate = d
			_, err := jobs.CreateJob(alice, form)
			Expect(err).To(BeNil())
		}
		form := validForm("Frontend Engineer")
		form.AppliedDate = "2023-06-01"
		form.Status = "Interview"
		_, err = jobs.CreateJob(alice, form)
		Expect(err).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	Context("export", func() {
		It("writes a csv with a header row", func() {
			report, err := reports.GenerateReport(alice, service.ReportOptions{Format: service.ReportFormatCSV})
			Expect(err).To(BeNil())
			Expect(report.ContentType).To(Equal("text/csv"))
			Expect(report.Filename).To(Equal("applytrack-jobs-2024-01-20.csv"))

			rows, err := csv.NewReader(bytes.NewReader(report.Content)).ReadAll()
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(5))
			Expect(rows[0][0]).To(Equal("Title"))
			Expect(rows[1][2]).To(Equal("2024-01-15"))
		})

		It("writes a workbook with jobs and summary", func() {
			report, err := reports.GenerateReport(alice, service.ReportOptions{})
			Expect(err).To(BeNil())

			f, err := excelize.OpenReader(bytes.NewReader(report.Content))
			Expect(err).To(BeNil())
			defer f.Close()

			Expect(f.GetSheetList()).To(Equal([]string{"Jobs", "Summary"}))
			rows, err := f.GetRows("Jobs")
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(5))

			total, err := f.GetCellValue("Summary", "B4")
			Expect(err).To(BeNil())
			Expect(total).To(Equal("4"))
		})

		It("rejects an unknown format", func() {
			_, err := reports.GenerateReport(alice, service.ReportOptions{Format: "pdf"})
			var validationErr *service.ErrValidation
			Expect(errors.As(err, &validationErr)).To(BeTrue())
		})

		It("requires an identity", func() {
			_, err := reports.GenerateReport(context.TODO(), service.ReportOptions{})
			var unauthorized *service.ErrUnauthorized
			Expect(errors.As(err, &unauthorized)).To(BeTrue())
		})
	})

	Context("analytics", func() {
		It("summarizes within a range", func() {
			summary, err := dashboard.Summary(alice, analytics.RangeMonth)
			Expect(err).To(BeNil())
			Expect(summary.Total).To(Equal(3))

			summary, err = dashboard.Summary(alice, analytics.RangeAll)
			Expect(err).To(BeNil())
			Expect(summary.Total).To(Equal(4))
			Expect(summary.Interview).To(Equal(1))
		})

		It("builds a contiguous velocity series", func() {
			weeks, err := dashboard.Velocity(alice, analytics.RangeMonth)
			Expect(err).To(BeNil())
			Expect(weeks).To(HaveLen(4))
			Expect(weeks[0].Count).To(Equal(2))
			Expect(weeks[1].Count).To(Equal(0))
			Expect(weeks[2].Count).To(Equal(1))
			Expect(weeks[3].Count).To(Equal(0))
		})

		It("defaults the heatmap to the latest year", func() {
			heatmap, err := dashboard.Heatmap(alice, 0)
			Expect(err).To(BeNil())
			Expect(heatmap.Year).To(Equal(2024))
			Expect(heatmap.Years).To(Equal([]int{2023, 2024}))
			Expect(heatmap.Days).To(HaveLen(3))
		})

		It("counts keywords", func() {
			keywords, err := dashboard.Keywords(alice, analytics.RangeAll)
			Expect(err).To(BeNil())
			Expect(keywords[0]).To(Equal(analytics.KeywordCount{Keyword: "Engineer", Count: 4}))
		})

		It("returns an empty board for a new user", func() {
			board, err := dashboard.Board(userContext("carol"), analytics.RangeAll)
			Expect(err).To(BeNil())
			Expect(board).To(HaveLen(4))
			for _, column := range board {
				Expect(column).To(BeEmpty())
			}
		})
	})
})
