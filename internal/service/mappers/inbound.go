package mappers

import (
	"strings"
	"time"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/store"
	"github.com/applytrack/applytrack/internal/store/model"
	"github.com/applytrack/applytrack/internal/validator"
	"github.com/applytrack/applytrack/pkg/location"
)

// JobCreateForm holds a create request. Any owner sent by the client is dropped here.
type JobCreateForm struct {
	Title       string  `json:"title" validate:"not_blank"`
	Employer    string  `json:"employer" validate:"not_blank"`
	AppliedDate string  `json:"appliedDate" validate:"applied_date"`
	Status      string  `json:"status" validate:"job_status"`
	WorkMode    string  `json:"workMode" validate:"work_mode"`
	Location    *string `json:"location" validate:"omitnil,location"`
	Notes       *string `json:"notes"`
}

func JobCreateFormFromApi(resource api.JobCreate) JobCreateForm {
	return JobCreateForm{
		Title:       resource.Title,
		Employer:    resource.Employer,
		AppliedDate: resource.AppliedDate,
		Status:      string(resource.Status),
		WorkMode:    string(resource.WorkMode),
		Location:    resource.Location,
		Notes:       resource.Notes,
	}
}

// ToJob must only be called on a validated form.
func (f JobCreateForm) ToJob(ownerID string, now time.Time) model.Job {
	appliedDate, _ := validator.ParseAppliedDate(f.AppliedDate)
	return model.Job{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(f.Title),
		Employer:    strings.TrimSpace(f.Employer),
		AppliedDate: appliedDate,
		Status:      f.Status,
		WorkMode:    f.WorkMode,
		Location:    canonicalLocation(f.Location),
		Notes:       nonEmpty(f.Notes),
		CreatedAt:   now,
	}
}

// JobUpdateForm holds a partial update. Nil fields are left untouched.
type JobUpdateForm struct {
	Title       *string `json:"title" validate:"omitnil,not_blank"`
	Employer    *string `json:"employer" validate:"omitnil,not_blank"`
	AppliedDate *string `json:"appliedDate" validate:"omitnil,applied_date"`
	Status      *string `json:"status" validate:"omitnil,job_status"`
	WorkMode    *string `json:"workMode" validate:"omitnil,work_mode"`
	Location    *string `json:"location" validate:"omitnil,location"`
	Notes       *string `json:"notes"`
	Rejected    *bool   `json:"rejected"`
	Ghosted     *bool   `json:"ghosted"`
}

func JobUpdateFormFromApi(resource api.JobUpdate) JobUpdateForm {
	form := JobUpdateForm{
		Title:       resource.Title,
		Employer:    resource.Employer,
		AppliedDate: resource.AppliedDate,
		Location:    resource.Location,
		Notes:       resource.Notes,
		Rejected:    resource.Rejected,
		Ghosted:     resource.Ghosted,
	}
	if resource.Status != nil {
		s := string(*resource.Status)
		form.Status = &s
	}
	if resource.WorkMode != nil {
		w := string(*resource.WorkMode)
		form.WorkMode = &w
	}
	return form
}

// ToPatch must only be called on a validated form.
func (f JobUpdateForm) ToPatch() store.JobPatch {
	patch := store.JobPatch{
		Status:   f.Status,
		WorkMode: f.WorkMode,
		Notes:    f.Notes,
		Rejected: f.Rejected,
		Ghosted:  f.Ghosted,
	}
	if f.Title != nil {
		t := strings.TrimSpace(*f.Title)
		patch.Title = &t
	}
	if f.Employer != nil {
		e := strings.TrimSpace(*f.Employer)
		patch.Employer = &e
	}
	if f.AppliedDate != nil {
		d, _ := validator.ParseAppliedDate(*f.AppliedDate)
		patch.AppliedDate = &d
	}
	if f.Location != nil {
		l := location.Normalize(*f.Location)
		patch.Location = &l
	}
	return patch
}

func canonicalLocation(s *string) *string {
	if s == nil {
		return nil
	}
	return nonEmpty(ptr(location.Normalize(*s)))
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}
