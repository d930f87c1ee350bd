package formatting_test

import (
	"errors"
	"testing"

	"github.com/j2kenton/jobsift/pkg/formatting"
)

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    payload
	}{
		{
			name:    "bare json",
			content: `{"name": "acme", "score": 0.9}`,
			want:    payload{Name: "acme", Score: 0.9},
		},
		{
			name:    "surrounding whitespace",
			content: "\n  {\"name\": \"acme\", \"score\": 0.9}  \n",
			want:    payload{Name: "acme", Score: 0.9},
		},
		{
			name:    "json fence",
			content: "Here is the result:\n```json\n{\"name\": \"acme\", \"score\": 0.9}\n```",
			want:    payload{Name: "acme", Score: 0.9},
		},
		{
			name:    "plain fence",
			content: "```\n{\"name\": \"acme\", \"score\": 0.9}\n```",
			want:    payload{Name: "acme", Score: 0.9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[payload](tt.content)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"prose only", "I could not determine the answer."},
		{"malformed json", `{"name": `},
		{"malformed fenced json", "```json\n{broken\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := formatting.Parse[payload](tt.content); !errors.Is(err, formatting.ErrParseFailed) {
				t.Errorf("error: got %v, want ErrParseFailed", err)
			}
		})
	}
}
