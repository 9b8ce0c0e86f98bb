package reporting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/coft-dev/coft/internal/models"
)

// TestcaseReader returns the contents of a testcase file, or "" when it is
// unavailable.
type TestcaseReader func(path string) string

// InterpretVerdict returns a plain-language label for a verdict.
func InterpretVerdict(v models.Verdict) string {
	switch v {
	case models.VerdictPass:
		return "All tests passed"
	case models.VerdictFail:
		return "Some tests failed"
	case models.VerdictSkipped:
		return "Ran without expected answers"
	case models.VerdictBuildError:
		return "The solution did not build"
	case models.VerdictRuntimeError:
		return "The solution crashed"
	default:
		return string(v)
	}
}

// FormatOutcome produces a plain-language report of a run outcome.
func FormatOutcome(o models.Outcome, readTestcase TestcaseReader) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== %s ===\n\n", InterpretVerdict(models.VerdictOf(o))))

	switch v := o.(type) {
	case models.BuildFailure:
		formatBuildFailure(&b, v)
	case models.RuntimeFailure:
		b.WriteString(fmt.Sprintf("Exit code: %d\n", v.ExitCode))
		if v.Stdout != "" {
			b.WriteString(fmt.Sprintf("Stdout:\n%s\n", indent(v.Stdout)))
		}
		if v.Stderr != "" {
			b.WriteString(fmt.Sprintf("Stderr:\n%s\n", indent(v.Stderr)))
		}
	case models.StructuredResult:
		formatDocument(&b, v.Document, readTestcase)
	}

	return b.String()
}

func formatBuildFailure(b *strings.Builder, f models.BuildFailure) {
	if t, ok := TranslateBuildError(f.Excerpt); ok {
		b.WriteString(t.Title + "\n")
		b.WriteString(t.Explanation + "\n\n")
		b.WriteString("Original message:\n")
	}
	b.WriteString(indent(f.Excerpt) + "\n")
}

func formatDocument(b *strings.Builder, doc *models.ResultDocument, readTestcase TestcaseReader) {
	if doc == nil {
		return
	}
	passed, failed, skipped := doc.Counts()
	duration := time.Duration(doc.DurationMs * float64(time.Millisecond))

	b.WriteString(fmt.Sprintf("Status:   %s\n", doc.Status))
	b.WriteString(fmt.Sprintf("Filter:   %s\n", doc.TestcaseFilterName))
	b.WriteString(fmt.Sprintf("Duration: %v\n", duration))
	b.WriteString(fmt.Sprintf("Tests:    %d passed, %d failed, %d skipped out of %d total\n", passed, failed, skipped, len(doc.Tests)))

	if len(doc.Tests) > 0 {
		b.WriteString("\n")
	}
	for _, t := range doc.Tests {
		icon := "✓"
		switch {
		case models.IsSkipped(t.Status):
			icon = "-"
		case !models.IsPassing(t.Status):
			icon = "✗"
		}
		b.WriteString(fmt.Sprintf("  %s %s: %s\n", icon, t.TestcaseName, t.Status))
		if models.IsPassing(t.Status) {
			continue
		}
		if t.Actual != nil {
			b.WriteString(fmt.Sprintf("    Actual:   %s\n", jsonValue(t.Actual)))
		}
		if t.Expected != nil {
			b.WriteString(fmt.Sprintf("    Expected: %s\n", jsonValue(t.Expected)))
		}
		if t.Reason != "" {
			b.WriteString(fmt.Sprintf("    Reason:   %s\n", t.Reason))
		}
		if t.TestcaseFile != "" && readTestcase != nil {
			if content := readTestcase(t.TestcaseFile); content != "" {
				b.WriteString(fmt.Sprintf("    Testcase:\n%s\n", indentBy(strings.TrimRight(content, "\n"), "      ")))
			}
		}
	}
}

// FailedDump is the text saved next to a problem for a failed testcase.
func FailedDump(t models.TestEntry, testcaseContent string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Testcase: %s\n", t.TestcaseName))
	b.WriteString(fmt.Sprintf("Status: %s\n", t.Status))
	if t.Actual != nil {
		b.WriteString(fmt.Sprintf("Actual: %s\n", jsonValue(t.Actual)))
	}
	if t.Expected != nil {
		b.WriteString(fmt.Sprintf("Expected: %s\n", jsonValue(t.Expected)))
	}
	if t.Reason != "" {
		b.WriteString(fmt.Sprintf("Reason: %s\n", t.Reason))
	}
	if testcaseContent != "" {
		b.WriteString(fmt.Sprintf("Testcase Content: %s\n", testcaseContent))
	}
	return b.String()
}

func jsonValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func indent(s string) string {
	return indentBy(strings.TrimRight(s, "\n"), "  ")
}

func indentBy(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
