package analytics

import (
	"regexp"
	"sort"
	"strings"

	api "github.com/applytrack/applytrack/api/v1alpha1"
)

const (
	maxKeywords      = 10
	minKeywordLength = 3
)

var (
	nonWordRegex = regexp.MustCompile(`[^\w\s]`)

	stopWords = map[string]struct{}{
		"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
		"for": {}, "with": {}, "at": {}, "by": {}, "from": {}, "-": {}, "&": {}, "|": {}, "/": {},
	}
)

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Tokenize splits a job title into display keywords.
func Tokenize(title string) []string {
	cleaned := nonWordRegex.ReplaceAllString(strings.ToLower(title), " ")

	tokens := make([]string, 0)
	for _, t := range strings.Fields(cleaned) {
		if len(t) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[t]; stop {
			continue
		}
		tokens = append(tokens, strings.ToUpper(t[:1])+t[1:])
	}
	return tokens
}

// Keywords returns the ten most frequent title keywords. Ties keep the order in
// which the keywords first appeared.
func Keywords(jobs []api.Job) []KeywordCount {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, j := range jobs {
		for _, t := range Tokenize(j.Title) {
			if _, found := counts[t]; !found {
				order = append(order, t)
			}
			counts[t]++
		}
	}

	result := make([]KeywordCount, 0, len(order))
	for _, k := range order {
		result = append(result, KeywordCount{Keyword: k, Count: counts[k]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if len(result) > maxKeywords {
		result = result[:maxKeywords]
	}
	return result
}
