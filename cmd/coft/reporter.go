package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/orchestration"
	"github.com/coft-dev/coft/internal/reporting"
	"github.com/coft-dev/coft/internal/spinner"
	"github.com/coft-dev/coft/internal/workbench"
)

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}

// attachSpinner shows a spinner on w while the harness is running. It does
// nothing unless w is a terminal.
func attachSpinner(runner *orchestration.Runner, w io.Writer) {
	if !isTerminal(w) {
		return
	}
	s := spinner.New(w)
	runner.OnProgress(func(e orchestration.ProgressEvent) {
		switch e.EventType {
		case orchestration.EventRunStart:
			s.Start(fmt.Sprintf("Building and testing %s [%s]", e.ProblemID, e.Filter))
		case orchestration.EventHarnessExit:
			s.Stop()
		}
	})
}

// printRunReport writes the plain-language report of a session run.
func printRunReport(w io.Writer, report *workbench.RunReport) {
	fmt.Fprint(w, reporting.FormatOutcome(report.Outcome, workbench.ReadTestcase)) //nolint:errcheck

	if report.Verification != nil && report.Verification.Report != "" {
		fmt.Fprintf(w, "\nAI review:\n%s\n", strings.TrimSpace(report.Verification.Report)) //nolint:errcheck
	}
	for _, d := range report.Dumps {
		fmt.Fprintf(w, "Failed testcase saved to %s\n", d) //nolint:errcheck
	}
	if report.Note != nil {
		fmt.Fprintf(w, "\nRecorded mistake note %s\n", report.Note.Key()) //nolint:errcheck
	}
}

// runFailure turns a non-passing report into the error that sets exit code 1.
func runFailure(report *workbench.RunReport) error {
	if !models.IsMistake(report.Outcome) {
		return nil
	}
	return &TestFailureError{Message: fmt.Sprintf("%s: %s", report.ProblemID, reporting.InterpretVerdict(report.Verdict))}
}

// readCode reads a solution from path, or from stdin when path is "-".
func readCode(path string, stdin io.Reader) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading code from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading code: %w", err)
	}
	return string(data), nil
}
