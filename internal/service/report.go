package service

import (
	"context"
	"fmt"

	"github.com/applytrack/applytrack/internal/service/mappers"
	"github.com/applytrack/applytrack/internal/service/report"
	"github.com/applytrack/applytrack/internal/service/report/csv"
	"github.com/applytrack/applytrack/internal/service/report/types"
	"github.com/applytrack/applytrack/internal/service/report/xlsx"
)

type ReportFormat = types.ReportFormat
type ReportOptions = types.ReportOptions

const (
	ReportFormatCSV  = types.ReportFormatCSV
	ReportFormatXLSX = types.ReportFormatXLSX
)

// Report is a rendered export ready to be streamed.
type Report struct {
	Content     []byte
	ContentType string
	Filename    string
}

type ReportService struct {
	jobs      *JobService
	processor types.JobProcessor
	renderers map[types.ReportFormat]types.ReportRenderer
}

func NewReportService(jobs *JobService) *ReportService {
	service := &ReportService{
		jobs:      jobs,
		processor: report.NewStandardJobProcessor(),
		renderers: make(map[types.ReportFormat]types.ReportRenderer),
	}

	csvRenderer := csv.NewRenderer()
	xlsxRenderer := xlsx.NewRenderer()

	service.renderers[csvRenderer.SupportedFormat()] = csvRenderer
	service.renderers[xlsxRenderer.SupportedFormat()] = xlsxRenderer

	return service
}

// GenerateReport exports every job of the caller.
func (r *ReportService) GenerateReport(ctx context.Context, options types.ReportOptions) (*Report, error) {
	if options.Format == "" {
		options.Format = ReportFormatXLSX
	}

	renderer, exists := r.renderers[options.Format]
	if !exists {
		return nil, NewErrValidation("format")
	}

	jobs, err := r.jobs.ListJobs(ctx, nil)
	if err != nil {
		return nil, err
	}

	now := r.jobs.now()
	reportData := r.processor.ProcessJobs(mappers.JobListToApi(jobs...), now)
	reportData.Options = options

	content, err := renderer.Render(reportData)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", options.Format, err)
	}

	return &Report{
		Content:     content,
		ContentType: renderer.ContentType(),
		Filename:    fmt.Sprintf("applytrack-jobs-%s.%s", now.Format("2006-01-02"), options.Format),
	}, nil
}
