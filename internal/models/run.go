package models

// Testcase filter values understood by the harness.
const (
	// FilterAll runs every testcase of a problem.
	FilterAll = "All"

	// CustomTestcaseName is the reserved testcase slot used for ad-hoc input.
	CustomTestcaseName = "_custom_testcase"
)

// DefaultLanguage is the only language the bundled harness supports today.
const DefaultLanguage = "cpp"

// RunRequest describes a single harness invocation.
type RunRequest struct {
	ProblemID       string
	Language        string
	TestcaseFilter  string
	RunExpectedOnly bool

	// Code is the editor buffer to persist to the solution file before the
	// run. Empty means nothing is persisted.
	Code string
}

// Filter returns the testcase filter, defaulting to [FilterAll].
func (r RunRequest) Filter() string {
	if r.TestcaseFilter == "" {
		return FilterAll
	}
	return r.TestcaseFilter
}

// Lang returns the language token, defaulting to [DefaultLanguage].
func (r RunRequest) Lang() string {
	if r.Language == "" {
		return DefaultLanguage
	}
	return r.Language
}

// IsCustom reports whether the request targets the custom testcase slot.
func (r RunRequest) IsCustom() bool {
	return r.Filter() == CustomTestcaseName
}
