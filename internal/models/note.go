package models

import (
	"strings"
	"time"
)

// Concept is one weak concept named by an AI failure analysis.
type Concept struct {
	Name string `json:"name"`
	Tip  string `json:"tip"`
}

// ConceptSummary groups the concepts of one analysis.
type ConceptSummary struct {
	Title    string    `json:"title,omitempty"`
	Concepts []Concept `json:"concepts"`
}

// AIAnalysis is the asynchronous analysis attached to a [Note].
type AIAnalysis struct {
	ReasonAnalysis  string         `json:"reasonAnalysis"`
	PatternAnalysis string         `json:"patternAnalysis"`
	ConceptSummary  ConceptSummary `json:"conceptSummary"`
}

// Note is a persisted record of one non-passing (or manually saved) attempt.
// The JSON names match the notes.json files written by earlier releases.
type Note struct {
	ProblemID  string          `json:"problemName"`
	Timestamp  time.Time       `json:"timestamp"`
	Code       string          `json:"code"`
	Results    *ResultDocument `json:"results"`
	AIAnalysis *AIAnalysis     `json:"aiAnalysis,omitempty"`
}

// Key returns the note's timestamp formatted the way the CLI accepts it.
func (n *Note) Key() string {
	return FormatNoteKey(n.Timestamp)
}

// FormatNoteKey formats a note timestamp as its external key.
func FormatNoteKey(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339Nano)
}

// ParseNoteKey parses a key produced by [FormatNoteKey].
func ParseNoteKey(key string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(key))
}
