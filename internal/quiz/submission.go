package quiz

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ParseSubmissions decodes an application/x-www-form-urlencoded body while
// keeping the order in which fields were sent. Only the first value of a
// repeated field is kept.
func ParseSubmissions(body string) ([]Submission, error) {
	var subs []Submission
	seen := make(map[string]bool)

	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		field, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("invalid field name %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid value for field %q: %w", field, err)
		}
		if field == "" || seen[field] {
			continue
		}
		seen[field] = true
		subs = append(subs, Submission{Field: field, Value: value})
	}
	return subs, nil
}

// SubmissionsFromValues is used when the body arrives as multipart form data
// and the wire order is lost. Fields are ordered by question number, then by
// name.
func SubmissionsFromValues(values map[string][]string) []Submission {
	subs := make([]Submission, 0, len(values))
	for field, vals := range values {
		if len(vals) == 0 {
			continue
		}
		subs = append(subs, Submission{Field: field, Value: vals[0]})
	}

	sort.SliceStable(subs, func(i, j int) bool {
		ni, okI := questionNumber(subs[i].Field)
		nj, okJ := questionNumber(subs[j].Field)
		switch {
		case okI && okJ && ni != nj:
			return ni < nj
		case okI != okJ:
			return okI
		}
		return subs[i].Field < subs[j].Field
	})
	return subs
}

func questionNumber(field string) (int, bool) {
	if !strings.HasPrefix(field, FieldPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(field, FieldPrefix))
	return n, err == nil
}
