package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coft-dev/coft/internal/catalog"
	"github.com/coft-dev/coft/internal/models"
)

// ErrCustomContract is returned when a custom testcase run doesn't report
// exactly one skipped test.
var ErrCustomContract = errors.New("custom testcase run broke the harness contract")

// CustomResult is the outcome of running ad-hoc input through the user's
// solution and the reference solution.
type CustomResult struct {
	// Outcome of the user's run. When it is not a structured result the
	// remaining fields are empty.
	Outcome models.Outcome

	Actual   any
	Expected any
	Stdout   string
	Stderr   string
}

// RunCustom writes input to the problem's custom testcase slot, runs the
// user's solution on it and then the reference solution. The harness cannot
// know the answer for ad-hoc input, so each run must report exactly one
// skipped test carrying the produced value.
func (r *Runner) RunCustom(ctx context.Context, problemID, language, input, code string) (*CustomResult, error) {
	if !r.inFlight.TryAcquire(1) {
		return nil, ErrRunInProgress
	}
	defer r.inFlight.Release(1)

	if _, generated := models.ParseGeneratedRef(problemID); generated {
		return nil, fmt.Errorf("custom testcases need a problem from the builds directory, got %q", problemID)
	}

	buildsDir, err := catalog.ResolveBuildsDir(r.pathsFile)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Open(buildsDir)
	if err != nil {
		return nil, err
	}
	if _, err := cat.WriteCustomTestcase(problemID, input); err != nil {
		return nil, err
	}

	req := models.RunRequest{
		ProblemID:      problemID,
		Language:       language,
		TestcaseFilter: models.CustomTestcaseName,
		Code:           code,
	}
	outcome, err := r.run(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &CustomResult{Outcome: outcome}
	actualDoc, ok := outcome.(models.StructuredResult)
	if !ok {
		return result, nil
	}
	actual, err := customEntry(actualDoc.Document, true)
	if err != nil {
		return nil, err
	}
	result.Actual = actual.Actual
	result.Stdout = actualDoc.Document.Stdout
	result.Stderr = actualDoc.Document.Stderr

	req.RunExpectedOnly = true
	req.Code = ""
	expectedOutcome, err := r.run(ctx, req)
	if err != nil {
		return nil, err
	}
	expectedDoc, ok := expectedOutcome.(models.StructuredResult)
	if !ok {
		return nil, fmt.Errorf("%w: expected run produced %s", ErrCustomContract, expectedOutcome.Kind())
	}
	expected, err := customEntry(expectedDoc.Document, false)
	if err != nil {
		return nil, err
	}
	result.Expected = expected.Actual
	return result, nil
}

// customEntry checks the single-skipped-entry contract. The reference run's
// status is only logged when it differs, since it still carries the value.
func customEntry(doc *models.ResultDocument, strict bool) (*models.TestEntry, error) {
	if len(doc.Tests) != 1 {
		return nil, fmt.Errorf("%w: expected 1 test result, got %d", ErrCustomContract, len(doc.Tests))
	}
	entry := &doc.Tests[0]
	if !models.IsSkipped(entry.Status) {
		if strict {
			return nil, fmt.Errorf("%w: expected status %q, got %q", ErrCustomContract, models.StatusSkipped, entry.Status)
		}
		slog.Warn("Reference run of custom testcase was not skipped", "status", entry.Status)
	}
	return entry, nil
}
