package models

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Test status values written by the harness. The harness and its schema own
// the vocabulary; these are the values the workbench gives meaning to.
const (
	StatusPass    = "Pass"
	StatusPassed  = "Passed"
	StatusSkipped = "Skipped"

	// StatusManualFailure marks the single entry of a manually saved note.
	StatusManualFailure = "Failed (Manual)"
)

// IsPassing reports whether a test status counts as a pass. Both spellings
// the harness has used ("Pass" and "Passed") are accepted, case-insensitively.
func IsPassing(status string) bool {
	s := strings.TrimSpace(status)
	return strings.EqualFold(s, StatusPass) || strings.EqualFold(s, StatusPassed)
}

// IsSkipped reports whether a test status is the skipped sentinel used for
// ad-hoc (custom testcase) runs.
func IsSkipped(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusSkipped)
}

// TestEntry is the result of one testcase inside a [ResultDocument].
type TestEntry struct {
	TestcaseName string `json:"testcase_name"`
	Status       string `json:"status"`
	TestcaseFile string `json:"testcase_file,omitempty"`
	Actual       any    `json:"actual,omitempty"`
	Expected     any    `json:"expected,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Input        any    `json:"input,omitempty"`
}

// ResultDocument is the structured result file the harness writes.
//
// NOTE: a ResultDocument must only be built from a document that already
// passed schema validation, see [DecodeResultDocument].
type ResultDocument struct {
	DurationMs         float64     `json:"duration_ms"`
	Status             string      `json:"status"`
	TestcaseFilterName string      `json:"testcase_filter_name"`
	Tests              []TestEntry `json:"tests"`
	Stderr             string      `json:"stderr,omitempty"`
	Stdout             string      `json:"stdout,omitempty"`
	ErrorCode          int         `json:"errorcode,omitempty"`
}

// AllPassed is true when no test in the document failed. A document with no
// tests has nothing failing and counts as passed.
func (d *ResultDocument) AllPassed() bool {
	for _, t := range d.Tests {
		if !IsPassing(t.Status) {
			return false
		}
	}
	return true
}

// AllSkipped is true for a non-empty document where every test was skipped.
func (d *ResultDocument) AllSkipped() bool {
	if len(d.Tests) == 0 {
		return false
	}
	for _, t := range d.Tests {
		if !IsSkipped(t.Status) {
			return false
		}
	}
	return true
}

// FirstFailure returns the first test that did not pass, or nil.
func (d *ResultDocument) FirstFailure() *TestEntry {
	for i := range d.Tests {
		if !IsPassing(d.Tests[i].Status) {
			return &d.Tests[i]
		}
	}
	return nil
}

// Counts returns the number of passed, failed and skipped tests.
func (d *ResultDocument) Counts() (passed, failed, skipped int) {
	for _, t := range d.Tests {
		switch {
		case IsPassing(t.Status):
			passed++
		case IsSkipped(t.Status):
			skipped++
		default:
			failed++
		}
	}
	return passed, failed, skipped
}

// DecodeResultDocument converts a generic, already validated JSON value into
// a typed [ResultDocument].
func DecodeResultDocument(raw any) (*ResultDocument, error) {
	var doc ResultDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("creating result decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding result document: %w", err)
	}
	return &doc, nil
}

// ManualResultDocument is the synthetic document recorded when the user saves
// the current code as a mistake note without running it.
func ManualResultDocument() *ResultDocument {
	return &ResultDocument{
		Status:             "Manual Save",
		TestcaseFilterName: "Manual",
		Tests: []TestEntry{{
			TestcaseName: "manual save",
			Status:       StatusManualFailure,
			Reason:       "Saved to the mistake notes by the user.",
		}},
	}
}
