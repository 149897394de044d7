package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/applytrack/applytrack/internal/service/report/types"
)

const (
	jobsSheet    = "Jobs"
	summarySheet = "Summary"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatXLSX
}

func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render builds a workbook with the jobs on the first sheet and the bucket
// and distribution tables on the second.
func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", jobsSheet); err != nil {
		return nil, err
	}
	if err := r.writeJobs(f, data); err != nil {
		return nil, fmt.Errorf("failed to write jobs sheet: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if err := r.writeSummary(f, data); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeJobs(f *excelize.File, data *types.ReportData) error {
	if err := setRow(f, jobsSheet, 1, toAny(types.JobColumns)); err != nil {
		return err
	}
	for i, j := range data.Jobs {
		if err := setRow(f, jobsSheet, i+2, toAny(types.JobRow(j))); err != nil {
			return err
		}
	}
	return f.AutoFilter(jobsSheet, fmt.Sprintf("A1:%s1", lastColumn()), nil)
}

func (r *Renderer) writeSummary(f *excelize.File, data *types.ReportData) error {
	rows := [][]any{
		{"Generated", data.Generated.UTC().Format("2006-01-02 15:04 MST")},
		{},
		{"Bucket", "Jobs"},
		{"Total", data.Summary.Total},
		{"Pre-interview", data.Summary.PreInterview},
		{"Interview", data.Summary.Interview},
		{"Offer", data.Summary.Offer},
		{"Rejected", data.Summary.Rejected},
		{"Ghosted", data.Summary.Ghosted},
		{},
		{"Status", "Jobs", "Percentage"},
	}
	for _, s := range data.ByStatus {
		rows = append(rows, []any{s.Label, s.Value, s.Percentage})
	}
	rows = append(rows, []any{}, []any{"Work mode", "Jobs", "Percentage"})
	for _, s := range data.ByWorkMode {
		rows = append(rows, []any{s.Label, s.Value, s.Percentage})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func lastColumn() string {
	name, _ := excelize.ColumnNumberToName(len(types.JobColumns))
	return name
}

func toAny(values []string) []any {
	result := make([]any, len(values))
	for i, v := range values {
		result[i] = v
	}
	return result
}
