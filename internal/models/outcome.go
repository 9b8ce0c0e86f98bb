package models

// OutcomeKind identifies which case of an [Outcome] holds.
type OutcomeKind string

const (
	OutcomeKindBuildFailure   OutcomeKind = "build_failure"
	OutcomeKindRuntimeFailure OutcomeKind = "runtime_failure"
	OutcomeKindStructured     OutcomeKind = "structured_result"
)

// Outcome is the classified result of one harness run. Exactly one of
// [BuildFailure], [RuntimeFailure] or [StructuredResult].
type Outcome interface {
	Kind() OutcomeKind
	isOutcome()
}

// BuildFailure means no trustworthy result file was produced: the build
// failed, the harness died, or the result document failed validation.
type BuildFailure struct {
	Excerpt string `json:"excerpt"`
}

// RuntimeFailure means the harness produced a result file but reported that
// the solution process itself failed.
type RuntimeFailure struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// StructuredResult carries a schema-validated result document.
type StructuredResult struct {
	Document *ResultDocument `json:"document"`
}

func (BuildFailure) Kind() OutcomeKind     { return OutcomeKindBuildFailure }
func (RuntimeFailure) Kind() OutcomeKind   { return OutcomeKindRuntimeFailure }
func (StructuredResult) Kind() OutcomeKind { return OutcomeKindStructured }

func (BuildFailure) isOutcome()     {}
func (RuntimeFailure) isOutcome()   {}
func (StructuredResult) isOutcome() {}

// Verdict is the user-facing reading of an [Outcome].
type Verdict string

const (
	VerdictPass         Verdict = "pass"
	VerdictFail         Verdict = "fail"
	VerdictSkipped      Verdict = "skipped"
	VerdictBuildError   Verdict = "build_error"
	VerdictRuntimeError Verdict = "runtime_error"
)

// VerdictOf maps an outcome to its verdict. Structured results are a pass
// only when every test passed, and "skipped" when every test was skipped
// (custom testcase runs).
func VerdictOf(o Outcome) Verdict {
	switch v := o.(type) {
	case BuildFailure, *BuildFailure:
		return VerdictBuildError
	case RuntimeFailure, *RuntimeFailure:
		return VerdictRuntimeError
	case StructuredResult:
		return structuredVerdict(v.Document)
	case *StructuredResult:
		return structuredVerdict(v.Document)
	default:
		return VerdictBuildError
	}
}

func structuredVerdict(doc *ResultDocument) Verdict {
	switch {
	case doc == nil:
		return VerdictBuildError
	case doc.AllSkipped():
		return VerdictSkipped
	case doc.AllPassed():
		return VerdictPass
	default:
		return VerdictFail
	}
}

// IsMistake reports whether an outcome should be recorded as a mistake note.
// Full passes and skipped (custom) runs are not mistakes.
func IsMistake(o Outcome) bool {
	switch VerdictOf(o) {
	case VerdictPass, VerdictSkipped:
		return false
	default:
		return true
	}
}

// NoteDocument returns the result document recorded with a mistake note for
// the outcome. Build and runtime failures have no validated document, so a
// synthetic one describing the failure is produced.
func NoteDocument(o Outcome) *ResultDocument {
	switch v := o.(type) {
	case StructuredResult:
		return v.Document
	case *StructuredResult:
		return v.Document
	case BuildFailure:
		return buildFailureDocument(v)
	case *BuildFailure:
		return buildFailureDocument(*v)
	case RuntimeFailure:
		return runtimeFailureDocument(v)
	case *RuntimeFailure:
		return runtimeFailureDocument(*v)
	default:
		return nil
	}
}

func buildFailureDocument(b BuildFailure) *ResultDocument {
	return &ResultDocument{
		Status:             "Build Failed",
		TestcaseFilterName: "Build",
		Tests: []TestEntry{{
			TestcaseName: "build",
			Status:       "Build Failed",
			Reason:       b.Excerpt,
		}},
	}
}

func runtimeFailureDocument(r RuntimeFailure) *ResultDocument {
	return &ResultDocument{
		Status:             "Runtime Error",
		TestcaseFilterName: "Runtime",
		Tests: []TestEntry{{
			TestcaseName: "runtime",
			Status:       "Runtime Error",
			Reason:       r.Stderr,
		}},
		Stdout:    r.Stdout,
		Stderr:    r.Stderr,
		ErrorCode: r.ExitCode,
	}
}
