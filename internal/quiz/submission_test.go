package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmissions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Submission
	}{
		{
			name: "keeps wire order",
			body: "q3=1789&q1=Paris",
			want: []Submission{{Field: "q3", Value: "1789"}, {Field: "q1", Value: "Paris"}},
		},
		{
			name: "decodes values",
			body: "q1=New+York&q2=caf%C3%A9&q3=N%2FA",
			want: []Submission{{Field: "q1", Value: "New York"}, {Field: "q2", Value: "café"}, {Field: "q3", Value: "N/A"}},
		},
		{
			name: "first value of a repeated field wins",
			body: "q1=Paris&q1=Lyon",
			want: []Submission{{Field: "q1", Value: "Paris"}},
		},
		{
			name: "field without value",
			body: "q1&q2=",
			want: []Submission{{Field: "q1", Value: ""}, {Field: "q2", Value: ""}},
		},
		{
			name: "skips empty pairs and names",
			body: "&&=x&q1=a&",
			want: []Submission{{Field: "q1", Value: "a"}},
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubmissions(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSubmissions_InvalidEscape(t *testing.T) {
	_, err := ParseSubmissions("q1=%zz")
	assert.Error(t, err)

	_, err = ParseSubmissions("%zz=1")
	assert.Error(t, err)
}

func TestSubmissionsFromValues(t *testing.T) {
	got := SubmissionsFromValues(map[string][]string{
		"q10":     {"ten"},
		"q2":      {"two", "ignored"},
		"subject": {"History"},
		"q1":      {"one"},
		"empty":   {},
	})

	assert.Equal(t, []Submission{
		{Field: "q1", Value: "one"},
		{Field: "q2", Value: "two"},
		{Field: "q10", Value: "ten"},
		{Field: "subject", Value: "History"},
	}, got)
}
