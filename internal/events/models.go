package events

import (
	api "github.com/applytrack/applytrack/api/v1alpha1"
)

const (
	JobCreatedKind string = "applytrack.jobs.created"
	JobUpdatedKind string = "applytrack.jobs.updated"
	JobDeletedKind string = "applytrack.jobs.deleted"
)

// JobEvent is the payload of every job event. Job is nil for deletions.
type JobEvent struct {
	JobID   string   `json:"job_id"`
	OwnerID string   `json:"owner_id"`
	Job     *api.Job `json:"job,omitempty"`
}
