package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// uniqueUsers counts distinct identities seen since the last reset.
type uniqueUsers struct {
	counter prometheus.Gauge
	seen    map[string]struct{}
	mu      sync.Mutex
}

const usersCountPerWeek = "users_count_per_week"

var totalUniqueUsersPerWeekMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: applytrack,
		Name:      usersCountPerWeek,
		Help:      "metrics to record the number of unique users per week",
	},
)

var UniqueUsersPerWeek = &uniqueUsers{
	counter: totalUniqueUsersPerWeekMetric,
	seen:    make(map[string]struct{}),
}

func (u *uniqueUsers) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.seen = make(map[string]struct{})
	u.counter.Set(0)
}

func (u *uniqueUsers) Observe(subject string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.seen[subject]; exists {
		return
	}

	u.seen[subject] = struct{}{}
	u.counter.Inc()
}

func (u *uniqueUsers) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.seen)
}
