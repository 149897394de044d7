package metrics

import (
	"context"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"github.com/applytrack/applytrack/internal/store"
)

// Bucket labels. The statuses of rejected or ghosted jobs are not subtracted,
// so the status gauges count every job with that status.
const (
	rejectedBucket = "Rejected"
	ghostedBucket  = "Ghosted"
)

// JobStatsUpdater refreshes the job gauges from the store on a jittered interval,
// so several replicas do not query the store at the same time.
type JobStatsUpdater struct {
	store    store.Store
	interval time.Duration
}

func NewJobStatsUpdater(s store.Store, interval time.Duration) *JobStatsUpdater {
	return &JobStatsUpdater{store: s, interval: interval}
}

func (u *JobStatsUpdater) Run(ctx context.Context) {
	ticker := jitterbug.New(u.interval, &jitterbug.Norm{Stdev: u.interval / 10})
	defer ticker.Stop()

	u.Update(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.Update(ctx)
		}
	}
}

func (u *JobStatsUpdater) Update(ctx context.Context) {
	stats, err := u.store.Statistics(ctx)
	if err != nil {
		zap.S().Named("job_stats").Errorf("failed to collect job statistics: %s", err)
		return
	}

	for status, count := range stats.ByStatus {
		UpdateJobsByBucketMetric(status, count)
	}
	UpdateJobsByBucketMetric(rejectedBucket, stats.Rejected)
	UpdateJobsByBucketMetric(ghostedBucket, stats.Ghosted)
	UpdateJobOwnersMetric(stats.Owners)
}
