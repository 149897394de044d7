package model

import (
	"time"
)

// Job is one job application. The bson names keep the document layout of the
// jobs collection.
type Job struct {
	ID          string    `gorm:"primaryKey;type:VARCHAR(64)" bson:"-"`
	OwnerID     string    `gorm:"type:VARCHAR(255);not null;index:idx_jobs_owner_created,priority:1" bson:"userid"`
	Title       string    `gorm:"type:TEXT;not null" bson:"job_title"`
	Employer    string    `gorm:"type:TEXT;not null" bson:"employer"`
	AppliedDate time.Time `gorm:"not null" bson:"job_date"`
	Status      string    `gorm:"type:VARCHAR(32);not null" bson:"status"`
	WorkMode    string    `gorm:"type:VARCHAR(32);not null" bson:"work_mode"`
	Location    *string   `gorm:"type:TEXT" bson:"location,omitempty"`
	Notes       *string   `gorm:"type:TEXT" bson:"notes,omitempty"`
	Rejected    bool      `gorm:"not null;default:false" bson:"rejected"`
	Ghosted     bool      `gorm:"not null;default:false" bson:"ghosted"`
	CreatedAt   time.Time `gorm:"not null;index:idx_jobs_owner_created,priority:2" bson:"createdAt"`
}

func (Job) TableName() string {
	return "jobs"
}

type JobList []Job

// JobStats is a snapshot of the whole jobs table, across owners.
type JobStats struct {
	Total    int64
	Owners   int64
	Rejected int64
	Ghosted  int64
	ByStatus map[string]int64
}
