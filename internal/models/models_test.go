package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Operation
		wantErr bool
	}{
		{"word list", "word-list", OpWordList, false},
		{"word count", "word-count", OpWordCount, false},
		{"summary", "summary", OpSummary, false},
		{"stats", "stats", OpStats, false},
		{"wrong case", "Summary", "", true},
		{"unknown", "sentiment", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOperation(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOperation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOperation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"word list", WordListResponse{WordList: []string{"a", "b"}}.Display(), "a, b"},
		{"nil word list", WordListResponse{}.Display(), ""},
		{"single word", WordListResponse{WordList: []string{"solo"}}.Display(), "solo"},
		{"word count", WordCountResponse{WordCount: 42}.Display(), "42"},
		{"zero count", WordCountResponse{}.Display(), "0"},
		{"summary unspaced", SummaryResponse{WordCount: 2, WordList: []string{"x", "y"}}.Display(""), "Word Count: 2Word List: x, y"},
		{"summary separated", SummaryResponse{WordCount: 2, WordList: []string{"x", "y"}}.Display(", "), "Word Count: 2, Word List: x, y"},
		{"stats", StatsResponse{Stats: []string{"a: 1", "b: 2"}}.Display(), "a: 1, b: 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Display() = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestFieldNames(t *testing.T) {
	// Field names are part of the backend contract and case-sensitive.
	body, err := json.Marshal(Input{Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"text":"hi"}` {
		t.Errorf("Input encoded as %s", body)
	}

	var summary SummaryResponse
	if err := json.Unmarshal([]byte(`{"wordCount":2,"wordList":["x","y"]}`), &summary); err != nil {
		t.Fatal(err)
	}
	want := SummaryResponse{WordCount: 2, WordList: []string{"x", "y"}}
	if !reflect.DeepEqual(summary, want) {
		t.Errorf("SummaryResponse = %+v, want %+v", summary, want)
	}
}
