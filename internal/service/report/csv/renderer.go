package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/applytrack/applytrack/internal/service/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatCSV
}

func (r *Renderer) ContentType() string {
	return "text/csv"
}

// Render writes one row per job under a header row. An empty job list yields the header only.
func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	rows := make([][]string, 0, len(data.Jobs)+1)
	rows = append(rows, types.JobColumns)
	for _, j := range data.Jobs {
		rows = append(rows, types.JobRow(j))
	}
	return r.convertRowsToCSV(rows)
}

func (r *Renderer) convertRowsToCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
