package v1alpha1

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// JobStatus defines model for Job.Status.
type JobStatus string

const (
	JobStatusPreInterview JobStatus = "Pre-interview"
	JobStatusInterview    JobStatus = "Interview"
	JobStatusOffer        JobStatus = "Offer"
)

// WorkMode defines model for Job.WorkMode.
type WorkMode string

const (
	WorkModeInPerson WorkMode = "In-person"
	WorkModeHybrid   WorkMode = "Hybrid"
	WorkModeRemote   WorkMode = "Remote"
)

// Job defines model for Job.
type Job struct {
	Id          string             `json:"id"`
	OwnerId     string             `json:"ownerId"`
	Title       string             `json:"title"`
	Employer    string             `json:"employer"`
	AppliedDate openapi_types.Date `json:"appliedDate"`
	Status      JobStatus          `json:"status"`
	WorkMode    WorkMode           `json:"workMode"`
	Location    *string            `json:"location,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
	Rejected    bool               `json:"rejected"`
	Ghosted     bool               `json:"ghosted"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// JobList defines model for JobList.
type JobList = []Job

// JobCreate defines model for JobCreate.
// AppliedDate accepts a calendar date or a RFC3339 date-time.
type JobCreate struct {
	Title       string    `json:"title"`
	Employer    string    `json:"employer"`
	AppliedDate string    `json:"appliedDate"`
	Status      JobStatus `json:"status"`
	WorkMode    WorkMode  `json:"workMode"`
	Location    *string   `json:"location,omitempty"`
	Notes       *string   `json:"notes,omitempty"`

	// OwnerId is accepted for compatibility with older clients and never trusted.
	OwnerId *string `json:"ownerId,omitempty"`
}

// JobUpdate defines model for JobUpdate. Omitted fields keep their value.
type JobUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Employer    *string    `json:"employer,omitempty"`
	AppliedDate *string    `json:"appliedDate,omitempty"`
	Status      *JobStatus `json:"status,omitempty"`
	WorkMode    *WorkMode  `json:"workMode,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Rejected    *bool      `json:"rejected,omitempty"`
	Ghosted     *bool      `json:"ghosted,omitempty"`
}

// JobUpdateRequest defines model for the rpc update body.
type JobUpdateRequest struct {
	Id    string  `json:"id"`
	Token *string `json:"token,omitempty"`
	JobUpdate
}

// JobDeleteRequest defines model for the rpc delete body.
type JobDeleteRequest struct {
	Id    string  `json:"id"`
	Token *string `json:"token,omitempty"`
}

// DeleteResult defines model for DeleteResult.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// Error defines model for Error.
type Error struct {
	Message string    `json:"message"`
	Fields  *[]string `json:"fields,omitempty"`
}

// Health defines model for Health.
type Health struct {
	Status string `json:"status"`
}
