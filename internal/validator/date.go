package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// ParseAppliedDate accepts a calendar date or a date-time and returns the
// calendar date as midnight UTC. A date-time keeps the day it names in its own offset.
func ParseAppliedDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}

	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid applied date %q", s)
	}
	t := time.Time(dt)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
