package mappers

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/internal/store/model"
)

func JobToApi(j model.Job) api.Job {
	return api.Job{
		Id:          j.ID,
		OwnerId:     j.OwnerID,
		Title:       j.Title,
		Employer:    j.Employer,
		AppliedDate: openapi_types.Date{Time: j.AppliedDate.UTC()},
		Status:      api.StringToJobStatus(j.Status),
		WorkMode:    api.WorkMode(j.WorkMode),
		Location:    j.Location,
		Notes:       j.Notes,
		Rejected:    j.Rejected,
		Ghosted:     j.Ghosted,
		CreatedAt:   j.CreatedAt,
	}
}

func JobListToApi(jobs ...model.Job) api.JobList {
	result := make(api.JobList, 0, len(jobs))
	for _, j := range jobs {
		result = append(result, JobToApi(j))
	}
	return result
}
