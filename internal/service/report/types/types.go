package types

import (
	"time"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/analytics"
)

type ReportRenderer interface {
	Render(data *ReportData) ([]byte, error)
	SupportedFormat() ReportFormat
	ContentType() string
}

type JobProcessor interface {
	ProcessJobs(jobs []api.Job, now time.Time) *ReportData
}

type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
)

type ReportOptions struct {
	Format ReportFormat
}

type ReportData struct {
	Jobs       []api.Job
	Summary    analytics.Summary
	ByStatus   []analytics.Slice
	ByWorkMode []analytics.Slice
	Options    ReportOptions
	Generated  time.Time
}

// JobColumns is the header row shared by every tabular export.
var JobColumns = []string{
	"Title", "Employer", "Applied", "Status", "Work mode", "Location", "Rejected", "Ghosted", "Notes",
}

// JobRow renders a job in JobColumns order.
func JobRow(j api.Job) []string {
	return []string{
		j.Title,
		j.Employer,
		j.AppliedDate.Format(time.DateOnly),
		string(j.Status),
		string(j.WorkMode),
		deref(j.Location),
		yesNo(j.Rejected),
		yesNo(j.Ghosted),
		deref(j.Notes),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
