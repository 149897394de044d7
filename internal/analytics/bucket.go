// Package analytics turns an owner-scoped job collection into chart-ready
// aggregates. Every function is pure and returns an empty result for an empty
// collection.
package analytics

import (
	"time"

	api "github.com/applytrack/applytrack/api/v1alpha1"
)

type Bucket string

const (
	BucketPreInterview Bucket = "Pre-interview"
	BucketInterview    Bucket = "Interview"
	BucketOffer        Bucket = "Offer"
	BucketRejected     Bucket = "Rejected"

	unknownLabel = "Unknown"
)

// Buckets lists the board columns in display order.
var Buckets = []Bucket{BucketPreInterview, BucketInterview, BucketOffer, BucketRejected}

// BucketOf classifies a job. A rejected or ghosted job is always in the
// Rejected bucket whatever its status.
func BucketOf(job api.Job) Bucket {
	if job.Rejected || job.Ghosted {
		return BucketRejected
	}
	switch job.Status {
	case api.JobStatusInterview:
		return BucketInterview
	case api.JobStatusOffer:
		return BucketOffer
	default:
		return BucketPreInterview
	}
}

// calendarDay returns the calendar date of t as midnight UTC.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
