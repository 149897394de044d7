package report

import (
	"time"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/analytics"
	"github.com/applytrack/applytrack/internal/service/report/types"
)

type StandardJobProcessor struct{}

func NewStandardJobProcessor() *StandardJobProcessor {
	return &StandardJobProcessor{}
}

// ProcessJobs sorts the jobs newest application first and computes the summary tables.
func (p *StandardJobProcessor) ProcessJobs(jobs []api.Job, now time.Time) *types.ReportData {
	return &types.ReportData{
		Jobs:       analytics.Sort(jobs, analytics.SortByDate, analytics.SortDesc),
		Summary:    analytics.Summarize(jobs),
		ByStatus:   analytics.Distribution(jobs, analytics.MetricStatus),
		ByWorkMode: analytics.Distribution(jobs, analytics.MetricWorkMode),
		Generated:  now,
	}
}
