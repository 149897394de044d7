package service

import (
	"context"
	"time"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/analytics"
	"github.com/applytrack/applytrack/internal/service/mappers"
)

// AnalyticsService computes the dashboard aggregates over the caller's jobs.
type AnalyticsService struct {
	jobs *JobService
	now  func() time.Time
}

func NewAnalyticsService(jobs *JobService) *AnalyticsService {
	return &AnalyticsService{jobs: jobs, now: jobs.now}
}

func (a *AnalyticsService) Summary(ctx context.Context, r analytics.DateRange) (analytics.Summary, error) {
	jobs, err := a.jobsInRange(ctx, r)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(jobs), nil
}

func (a *AnalyticsService) Board(ctx context.Context, r analytics.DateRange) (map[analytics.Bucket][]api.Job, error) {
	jobs, err := a.jobsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	return analytics.Board(jobs), nil
}

func (a *AnalyticsService) Distribution(ctx context.Context, metric analytics.Metric, r analytics.DateRange) ([]analytics.Slice, error) {
	jobs, err := a.jobsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	return analytics.Distribution(jobs, metric), nil
}

func (a *AnalyticsService) Funnel(ctx context.Context, r analytics.DateRange) ([]analytics.FlowEdge, error) {
	jobs, err := a.jobsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	return analytics.Funnel(jobs), nil
}

func (a *AnalyticsService) Bar(ctx context.Context, groupBy analytics.GroupBy, r analytics.DateRange) ([]analytics.BarRow, error) {
	jobs, err := a.jobsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	return analytics.Bar(jobs, groupBy), nil
}

func (a *AnalyticsService) Velocity(ctx context.Context, r analytics.DateRange) ([]analytics.WeekCount, error) {
	jobs, err := a.jobsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	return analytics.Velocity(jobs), nil
}

// Heatmap ignores date ranges. A zero year selects the latest year with applications.
func (a *AnalyticsService) Heatmap(ctx context.Context, year int) (analytics.Heatmap, error) {
	jobs, err := a.jobsInRange(ctx, analytics.RangeAll)
	if err != nil {
		return analytics.Heatmap{}, err
	}
	return analytics.DailyHeatmap(jobs, year), nil
}

func (a *AnalyticsService) Keywords(ctx context.Context, r analytics.DateRange) ([]analytics.KeywordCount, error) {
	jobs, err := a.jobsInRange(ctx, r)
	if err != nil {
		return nil, err
	}
	return analytics.Keywords(jobs), nil
}

func (a *AnalyticsService) jobsInRange(ctx context.Context, r analytics.DateRange) ([]api.Job, error) {
	jobs, err := a.jobs.ListJobs(ctx, nil)
	if err != nil {
		return nil, err
	}
	return analytics.FilterByRange(mappers.JobListToApi(jobs...), r, a.now()), nil
}
