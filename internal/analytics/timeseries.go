package analytics

import (
	"sort"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	api "github.com/applytrack/applytrack/api/v1alpha1"
)

type WeekCount struct {
	WeekStart openapi_types.Date `json:"weekStart"`
	Count     int                `json:"count"`
}

type DayCount struct {
	Day   openapi_types.Date `json:"day"`
	Count int                `json:"count"`
}

type Heatmap struct {
	Year  int        `json:"year"`
	Days  []DayCount `json:"days"`
	Years []int      `json:"years"`
}

// WeekStart returns the Monday starting the week of t. Sundays belong to the
// week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := calendarDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Velocity counts applications per week. The series has no gaps from the first
// week to the last one and ends with one empty week.
func Velocity(jobs []api.Job) []WeekCount {
	counts := make(map[time.Time]int)
	var first, last time.Time

	for _, j := range jobs {
		if j.AppliedDate.IsZero() {
			continue
		}
		week := WeekStart(j.AppliedDate.Time)
		if len(counts) == 0 || week.Before(first) {
			first = week
		}
		if len(counts) == 0 || week.After(last) {
			last = week
		}
		counts[week]++
	}

	series := make([]WeekCount, 0)
	if len(counts) == 0 {
		return series
	}

	end := last.AddDate(0, 0, 7)
	for week := first; !week.After(end); week = week.AddDate(0, 0, 7) {
		series = append(series, WeekCount{
			WeekStart: openapi_types.Date{Time: week},
			Count:     counts[week],
		})
	}
	return series
}

// DailyHeatmap counts applications per calendar day of year. A zero year selects
// the most recent year with data. Years lists every year present, ascending.
func DailyHeatmap(jobs []api.Job, year int) Heatmap {
	counts := make(map[time.Time]int)
	years := make(map[int]struct{})

	for _, j := range jobs {
		if j.AppliedDate.IsZero() {
			continue
		}
		day := calendarDay(j.AppliedDate.Time)
		years[day.Year()] = struct{}{}
		counts[day]++
	}

	h := Heatmap{Days: []DayCount{}, Years: make([]int, 0, len(years))}
	for y := range years {
		h.Years = append(h.Years, y)
	}
	sort.Ints(h.Years)

	if year == 0 && len(h.Years) > 0 {
		year = h.Years[len(h.Years)-1]
	}
	h.Year = year

	for day, c := range counts {
		if day.Year() != year {
			continue
		}
		h.Days = append(h.Days, DayCount{Day: openapi_types.Date{Time: day}, Count: c})
	}
	sort.Slice(h.Days, func(i, j int) bool {
		return h.Days[i].Day.Before(h.Days[j].Day.Time)
	})

	return h
}
