package analytics

import (
	"fmt"
	"sort"
	"strings"

	api "github.com/applytrack/applytrack/api/v1alpha1"
	"github.com/applytrack/applytrack/pkg/location"
)

type Metric string

const (
	MetricWorkMode Metric = "workMode"
	MetricStatus   Metric = "status"
	MetricState    Metric = "state"
	MetricCountry  Metric = "country"
)

func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricWorkMode, MetricStatus, MetricState, MetricCountry:
		return m, nil
	case "":
		return MetricStatus, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

type Slice struct {
	Label      string  `json:"label"`
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Distribution counts jobs per value of metric. Missing values are counted as "Unknown".
// Slices are sorted by value, largest first.
func Distribution(jobs []api.Job, metric Metric) []Slice {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, j := range jobs {
		key := distributionKey(j, metric)
		if _, found := counts[key]; !found {
			order = append(order, key)
		}
		counts[key]++
	}

	total := len(jobs)
	if total == 0 {
		total = 1
	}

	slices := make([]Slice, 0, len(order))
	for _, k := range order {
		slices = append(slices, Slice{
			Label:      k,
			Value:      counts[k],
			Percentage: float64(counts[k]) / float64(total) * 100,
		})
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Value > slices[j].Value
	})

	return slices
}

func distributionKey(j api.Job, metric Metric) string {
	var v string
	switch metric {
	case MetricWorkMode:
		v = string(j.WorkMode)
	case MetricStatus:
		v = string(j.Status)
	case MetricState:
		v = location.Split(stringValue(j.Location)).State
	case MetricCountry:
		v = location.Split(stringValue(j.Location)).Country
	}
	return orUnknown(v)
}

func orUnknown(s string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return unknownLabel
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
