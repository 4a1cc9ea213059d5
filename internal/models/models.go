package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Operation selects one of the remote text-analysis endpoints.
type Operation string

const (
	OpWordList  Operation = "word-list"
	OpWordCount Operation = "word-count"
	OpSummary   Operation = "summary"
	OpStats     Operation = "stats"
)

// Operations lists every supported operation in display order.
var Operations = []Operation{OpWordList, OpWordCount, OpSummary, OpStats}

// ParseOperation maps a name like "word-list" to its Operation
func ParseOperation(name string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", name)
}

// Path is the request path relative to the API base URL.
func (o Operation) Path() string {
	return string(o)
}

// Input is the request body shared by all operations.
type Input struct {
	Text string `json:"text"`
}

type WordListResponse struct {
	WordList []string `json:"wordList"`
}

type WordCountResponse struct {
	WordCount int `json:"wordCount"`
}

type SummaryResponse struct {
	WordCount int      `json:"wordCount"`
	WordList  []string `json:"wordList"`
}

type StatsResponse struct {
	Stats []string `json:"stats"`
}

// ListSeparator joins list items in display strings
const ListSeparator = ", "

func (r WordListResponse) Display() string {
	return strings.Join(r.WordList, ListSeparator)
}

func (r WordCountResponse) Display() string {
	return strconv.Itoa(r.WordCount)
}

// Display renders the summary. sep goes between the count and the
// "Word List:" label; the mobile app showed them with no separator.
func (r SummaryResponse) Display(sep string) string {
	return "Word Count: " + strconv.Itoa(r.WordCount) + sep + "Word List: " + strings.Join(r.WordList, ListSeparator)
}

func (r StatsResponse) Display() string {
	return strings.Join(r.Stats, ListSeparator)
}

// Entry is the outcome of analysing one input in batch mode.
type Entry struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Result struct {
	Operation Operation `json:"operation"`
	Entries   []Entry   `json:"entries"`
	Stats     struct {
		Succeeded   int `json:"succeeded"`
		Failed      int `json:"failed"`
		TimeElapsed int `json:"timeElapsedMs"`
	} `json:"stats"`
}
