package analytics

import (
	"fmt"
	"sort"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/pkg/location"
)

const maxBarGroups = 24

type GroupBy string

const (
	GroupByCity     GroupBy = "city"
	GroupByState    GroupBy = "state"
	GroupByCountry  GroupBy = "country"
	GroupByWorkMode GroupBy = "workMode"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case GroupByCity, GroupByState, GroupByCountry, GroupByWorkMode:
		return g, nil
	case "":
		return GroupByState, nil
	default:
		return "", fmt.Errorf("unknown group %q", s)
	}
}

type BarRow struct {
	Label        string `json:"label"`
	Total        int    `json:"total"`
	PreInterview int    `json:"preInterview"`
	Interview    int    `json:"interview"`
	Offer        int    `json:"offer"`
	Rejected     int    `json:"rejected"`
}

func (r *BarRow) add(b Bucket) {
	r.Total++
	switch b {
	case BucketPreInterview:
		r.PreInterview++
	case BucketInterview:
		r.Interview++
	case BucketOffer:
		r.Offer++
	case BucketRejected:
		r.Rejected++
	}
}

// Bar tallies jobs per group and bucket. Rows are sorted by total, largest first,
// and capped to the 24 largest groups.
func Bar(jobs []api.Job, groupBy GroupBy) []BarRow {
	rows := make([]*BarRow, 0)
	index := make(map[string]*BarRow)

	for _, j := range jobs {
		key := barKey(j, groupBy)
		row, found := index[key]
		if !found {
			row = &BarRow{Label: key}
			index[key] = row
			rows = append(rows, row)
		}
		row.add(BucketOf(j))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})
	if len(rows) > maxBarGroups {
		rows = rows[:maxBarGroups]
	}

	result := make([]BarRow, 0, len(rows))
	for _, r := range rows {
		result = append(result, *r)
	}
	return result
}

func barKey(j api.Job, groupBy GroupBy) string {
	if groupBy == GroupByWorkMode {
		return orUnknown(string(j.WorkMode))
	}

	parts := location.Split(stringValue(j.Location))
	switch groupBy {
	case GroupByCity:
		return orUnknown(parts.City)
	case GroupByState:
		return orUnknown(parts.State)
	default:
		return orUnknown(parts.Country)
	}
}
