package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	applytrack = "applytrack"

	// Identity metrics
	identityResolutionsTotal = "identity_resolutions_total"

	// Job metrics
	jobOperationsTotal = "job_operations_total"
	jobsByBucketCount  = "jobs_by_bucket_count"
	jobOwnersCount     = "job_owners_count"

	// Labels
	trustLabel     = "trust"
	sourceLabel    = "source"
	operationLabel = "operation"
	resultLabel    = "result"
	bucketLabel    = "bucket"
)

var identityResolutionsLabels = []string{
	trustLabel,
	sourceLabel,
}

var jobOperationsLabels = []string{
	operationLabel,
	resultLabel,
}

/**
* Metrics definition
**/
var identityResolutionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: applytrack,
		Name:      identityResolutionsTotal,
		Help:      "number of identity resolutions by trust level and credential source",
	},
	identityResolutionsLabels,
)

var jobOperationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: applytrack,
		Name:      jobOperationsTotal,
		Help:      "number of job operations by outcome",
	},
	jobOperationsLabels,
)

var jobsByBucketMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: applytrack,
		Name:      jobsByBucketCount,
		Help:      "metrics to record the number of jobs in each bucket",
	},
	[]string{bucketLabel},
)

var jobOwnersMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: applytrack,
		Name:      jobOwnersCount,
		Help:      "number of users owning at least one job",
	},
)

// IncreaseIdentityResolutionMetric counts a resolution. trust is "failed" when no identity was found.
func IncreaseIdentityResolutionMetric(trust, source string) {
	labels := prometheus.Labels{
		trustLabel:  trust,
		sourceLabel: source,
	}
	identityResolutionsTotalMetric.With(labels).Inc()
}

func IncreaseJobOperationMetric(operation, result string) {
	labels := prometheus.Labels{
		operationLabel: operation,
		resultLabel:    result,
	}
	jobOperationsTotalMetric.With(labels).Inc()
}

func UpdateJobsByBucketMetric(bucket string, count int64) {
	labels := prometheus.Labels{
		bucketLabel: bucket,
	}
	jobsByBucketMetric.With(labels).Set(float64(count))
}

func UpdateJobOwnersMetric(count int64) {
	jobOwnersMetric.Set(float64(count))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(identityResolutionsTotalMetric)
	prometheus.MustRegister(jobOperationsTotalMetric)
	prometheus.MustRegister(jobsByBucketMetric)
	prometheus.MustRegister(jobOwnersMetric)
	prometheus.MustRegister(totalUniqueUsersPerWeekMetric)
}
