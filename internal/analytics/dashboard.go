package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	api "github.com/applytrack/applytrack/api/v1alpha1"
)

type DateRange string

const (
	RangeAll      DateRange = "all"
	RangeWeek     DateRange = "week"
	RangeMonth    DateRange = "month"
	RangeQuarter  DateRange = "3months"
	RangeHalfYear DateRange = "6months"
)

var rangeDays = map[DateRange]int{
	RangeWeek:     7,
	RangeMonth:    30,
	RangeQuarter:  90,
	RangeHalfYear: 180,
}

func ParseDateRange(s string) (DateRange, error) {
	r := DateRange(s)
	if r == "" || r == RangeAll {
		return RangeAll, nil
	}
	if _, found := rangeDays[r]; !found {
		return "", fmt.Errorf("unknown date range %q", s)
	}
	return r, nil
}

// FilterByRange keeps the jobs applied within the range ending at now.
func FilterByRange(jobs []api.Job, r DateRange, now time.Time) []api.Job {
	days, found := rangeDays[r]
	if !found {
		return append([]api.Job{}, jobs...)
	}

	cutoff := calendarDay(now).AddDate(0, 0, -days)
	result := make([]api.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.AppliedDate.IsZero() {
			continue
		}
		if !calendarDay(j.AppliedDate.Time).Before(cutoff) {
			result = append(result, j)
		}
	}
	return result
}

type SortBy string

const (
	SortByDate     SortBy = "date"
	SortByEmployer SortBy = "employer"
	SortByTitle    SortBy = "title"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort returns a sorted copy of jobs. Text fields compare case-insensitively.
func Sort(jobs []api.Job, by SortBy, order SortOrder) []api.Job {
	sorted := append([]api.Job{}, jobs...)

	less := func(a, b api.Job) bool {
		switch by {
		case SortByEmployer:
			return strings.ToLower(a.Employer) < strings.ToLower(b.Employer)
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.AppliedDate.Before(b.AppliedDate.Time)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Board groups jobs into the four bucket columns. Every column is present.
func Board(jobs []api.Job) map[Bucket][]api.Job {
	board := make(map[Bucket][]api.Job, len(Buckets))
	for _, b := range Buckets {
		board[b] = []api.Job{}
	}
	for _, j := range jobs {
		b := BucketOf(j)
		board[b] = append(board[b], j)
	}
	return board
}

type Summary struct {
	Total        int `json:"total"`
	PreInterview int `json:"preInterview"`
	Interview    int `json:"interview"`
	Offer        int `json:"offer"`
	Rejected     int `json:"rejected"`
	Ghosted      int `json:"ghosted"`
}

func Summarize(jobs []api.Job) Summary {
	row := BarRow{}
	s := Summary{}
	for _, j := range jobs {
		row.add(BucketOf(j))
		if j.Ghosted {
			s.Ghosted++
		}
	}
	s.Total = row.Total
	s.PreInterview = row.PreInterview
	s.Interview = row.Interview
	s.Offer = row.Offer
	s.Rejected = row.Rejected
	return s
}
