// Package location canonicalizes free-text job locations into the
// "City, State, Country" form used for storage and grouping.
package location

import (
	"regexp"
	"strings"
)

const (
	DefaultCountry     = "United States"
	WashingtonDC       = "Washington, DC, United States"
	maxStateCodeLength = 3
)

var washingtonDCRegex = regexp.MustCompile(`(?i)^washington\s*,?\s*dc$`)

// Parts holds the three positional components of a location.
type Parts struct {
	City    string
	State   string
	Country string
}

// Normalize returns the canonical form of s. Empty input stays empty.
func Normalize(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	if washingtonDCRegex.MatchString(trimmed) {
		return WashingtonDC
	}

	segments := segments(trimmed)
	if len(segments) == 0 {
		return ""
	}

	p := Parts{City: segments[0]}
	if len(segments) > 1 {
		p.State = segments[1]
		if len(p.State) <= maxStateCodeLength {
			p.State = strings.ToUpper(p.State)
		}
	}
	p.Country = DefaultCountry
	if len(segments) > 2 {
		p.Country = segments[2]
	}

	return p.String()
}

// IsValid reports whether s can be stored. An empty value is valid and clears the field.
func IsValid(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return true
	}
	if washingtonDCRegex.MatchString(trimmed) {
		return true
	}
	return len(segments(trimmed)) >= 2
}

// Split reads the parts of an already normalized location: the first segment is
// the city, the second the state and the last one the country.
func Split(s string) Parts {
	segments := segments(s)
	p := Parts{}
	if len(segments) == 0 {
		return p
	}
	p.City = segments[0]
	p.Country = segments[len(segments)-1]
	if len(segments) > 1 {
		p.State = segments[1]
	}
	return p
}

func (p Parts) String() string {
	parts := make([]string, 0, 3)
	for _, v := range []string{p.City, p.State, p.Country} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func segments(s string) []string {
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if v := strings.TrimSpace(r); v != "" {
			out = append(out, v)
		}
	}
	return out
}
