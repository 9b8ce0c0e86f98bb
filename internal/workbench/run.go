package workbench

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/coft-dev/coft/internal/ai"
	"github.com/coft-dev/coft/internal/catalog"
	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/orchestration"
	"github.com/coft-dev/coft/internal/reporting"
)

// verificationTestName names the single test of a generated problem run.
const verificationTestName = "AI verification"

// RunReport is what a run through the session produced.
type RunReport struct {
	ProblemID string
	Outcome   models.Outcome
	Verdict   models.Verdict

	// Note is the mistake note recorded for the run, nil for passing runs or
	// when the note could not be written.
	Note *models.Note

	// Dumps lists the failed-testcase files written next to the problem.
	Dumps []string

	// Verification is set for generated problems, which are judged by the
	// AI service instead of the harness.
	Verification *ai.Verification
}

// Run runs the request and records a mistake note for any outcome that is
// not a full pass. An empty ProblemID means the active problem.
func (s *Session) Run(ctx context.Context, req models.RunRequest) (*RunReport, error) {
	problemID, err := s.problemOrActive(req.ProblemID)
	if err != nil {
		return nil, err
	}
	req.ProblemID = problemID
	if req.Language == "" {
		req.Language = s.language
	}

	if id, generated := models.ParseGeneratedRef(problemID); generated {
		return s.verifyGenerated(ctx, id, req.Code)
	}

	outcome, err := s.runner.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	report := &RunReport{ProblemID: problemID, Outcome: outcome, Verdict: models.VerdictOf(outcome)}
	if !models.IsMistake(outcome) {
		return report, nil
	}

	cat, err := s.Catalog()
	if err != nil {
		slog.Warn("Could not open catalog after run", "problem", problemID, "error", err)
		report.Note = s.recordMistake(problemID, req.Code, models.NoteDocument(outcome))
		return report, nil
	}

	code := req.Code
	if code == "" {
		if code, err = cat.ReadSolution(problemID, req.Lang()); err != nil {
			slog.Warn("Could not read solution for note", "problem", problemID, "error", err)
		}
	}
	report.Note = s.recordMistake(problemID, code, models.NoteDocument(outcome))

	if sr, ok := outcome.(models.StructuredResult); ok {
		report.Dumps = writeFailedDumps(cat.Layout, problemID, sr.Document)
	}
	return report, nil
}

// RunCustom runs ad-hoc input. Custom runs never produce notes.
func (s *Session) RunCustom(ctx context.Context, problemID, input, code string) (*orchestration.CustomResult, error) {
	problemID, err := s.problemOrActive(problemID)
	if err != nil {
		return nil, err
	}
	return s.runner.RunCustom(ctx, problemID, s.language, input, code)
}

// SaveManual records code as a mistake note without running it.
func (s *Session) SaveManual(problemID, code string) (models.Note, error) {
	problemID, err := s.problemOrActive(problemID)
	if err != nil {
		return models.Note{}, err
	}
	return s.store.AddNote(problemID, code, models.ManualResultDocument())
}

func (s *Session) recordMistake(problemID, code string, doc *models.ResultDocument) *models.Note {
	note, err := s.store.AddNote(problemID, code, doc)
	if err != nil {
		slog.Error("Failed to record mistake note", "problem", problemID, "error", err)
		return nil
	}
	slog.Debug("Mistake note recorded", "problem", problemID, "note", note.Key())
	return &note
}

func (s *Session) verifyGenerated(ctx context.Context, id, code string) (*RunReport, error) {
	svc, err := s.aiService()
	if err != nil {
		return nil, err
	}
	problem, err := s.store.GeneratedProblem(id)
	if err != nil {
		return nil, err
	}
	if code == "" {
		code = problem.StarterCode
	}

	v, err := svc.VerifySolution(ctx, &problem, code)
	if err != nil {
		return nil, fmt.Errorf("verifying %s: %w", problem.Title, err)
	}

	status := models.StatusPassed
	if !v.IsPass {
		status = "Failed"
	}
	doc := &models.ResultDocument{
		Status:             "AI Verified",
		TestcaseFilterName: models.FilterAll,
		Tests: []models.TestEntry{{
			TestcaseName: verificationTestName,
			Status:       status,
			Reason:       v.Report,
		}},
	}
	outcome := models.StructuredResult{Document: doc}

	report := &RunReport{
		ProblemID:    problem.Ref(),
		Outcome:      outcome,
		Verdict:      models.VerdictOf(outcome),
		Verification: v,
	}
	if models.IsMistake(outcome) {
		report.Note = s.recordMistake(problem.Ref(), code, doc)
	}
	return report, nil
}

// writeFailedDumps copies every failed testcase of doc to
// <problem>/<testcase>_failed.txt. Failures are logged and skipped.
func writeFailedDumps(layout catalog.Layout, problemID string, doc *models.ResultDocument) []string {
	if doc == nil {
		return nil
	}
	var written []string
	for _, t := range doc.Tests {
		if models.IsPassing(t.Status) || models.IsSkipped(t.Status) || t.TestcaseName == "" {
			continue
		}
		path := layout.FailedDumpFile(problemID, t.TestcaseName)
		if err := os.WriteFile(path, []byte(reporting.FailedDump(t, readTestcase(t.TestcaseFile))), 0o644); err != nil {
			slog.Warn("Failed to write failed testcase dump", "path", path, "error", err)
			continue
		}
		written = append(written, path)
	}
	return written
}

// readTestcase returns the testcase file content, or "" when unavailable.
func readTestcase(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// ReadTestcase is the [reporting.TestcaseReader] used for session reports.
var ReadTestcase reporting.TestcaseReader = readTestcase
