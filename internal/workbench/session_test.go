package workbench

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/coft-dev/coft/internal/ai"
	"github.com/coft-dev/coft/internal/catalog"
	"github.com/coft-dev/coft/internal/harness"
	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/orchestration"
	"github.com/coft-dev/coft/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSchema = `{
  "$id": "results_validation_schema.json",
  "type": "object",
  "properties": {
    "duration_ms": { "type": "number" },
    "status": { "type": "string" },
    "testcase_filter_name": { "type": "string" },
    "tests": { "type": "array" }
  },
  "required": ["duration_ms", "status", "testcase_filter_name", "tests"]
}`

type scriptedHarness struct {
	mu     sync.Mutex
	calls  int
	script func(inv harness.Invocation) *harness.Result
}

func (h *scriptedHarness) Invoke(_ context.Context, inv harness.Invocation) (*harness.Result, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return h.script(inv), nil
}

type env struct {
	buildsDir string
	outDir    string
	harness   *scriptedHarness
	store     *store.Store
	session   *Session
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()
	root := t.TempDir()
	buildsDir := filepath.Join(root, "problem_builds")
	problemDir := filepath.Join(buildsDir, "problems", "TwoSum")
	require.NoError(t, os.MkdirAll(filepath.Join(buildsDir, "languages", "cpp"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(problemDir, "cpp"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(problemDir, "testcases"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(problemDir, "description.md"), []byte("# Two Sum\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(problemDir, "cpp", "solution.cpp"), []byte("// start\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(buildsDir, "results_validation_schema.json"), []byte(testSchema), 0o644))

	pathsFile := filepath.Join(root, catalog.DefaultPathsFile)
	_, err := catalog.WriteBuildsDir(pathsFile, buildsDir)
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(root, "data"))
	require.NoError(t, err)

	outDir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	h := &scriptedHarness{script: func(harness.Invocation) *harness.Result { return &harness.Result{ExitCode: 1} }}
	runner := orchestration.NewRunner(pathsFile, h)
	return &env{
		buildsDir: buildsDir,
		outDir:    outDir,
		harness:   h,
		store:     st,
		session:   New(pathsFile, runner, st, opts...),
	}
}

// respond makes the harness announce a result file holding doc.
func (e *env) respond(t *testing.T, doc map[string]any) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(e.outDir, "TwoSum.results")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	e.harness.script = func(harness.Invocation) *harness.Result {
		return &harness.Result{Stdout: "Results written to " + path + "\n"}
	}
}

func resultDoc(tests ...map[string]any) map[string]any {
	return map[string]any{
		"duration_ms":          3,
		"status":               "Done",
		"testcase_filter_name": "All",
		"tests":                tests,
	}
}

func TestSelect(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.session.Select("TwoSum"))
	assert.Equal(t, "TwoSum", e.session.Active())
	assert.Equal(t, "", e.session.Previous())

	err := e.session.Select("Nope")
	require.ErrorIs(t, err, catalog.ErrUnknownProblem)
	assert.Equal(t, "TwoSum", e.session.Active())

	p, err := e.store.AddGeneratedProblem(models.GeneratedProblem{Title: "Gen"})
	require.NoError(t, err)
	require.NoError(t, e.session.Select(p.Ref()))
	assert.Equal(t, p.Ref(), e.session.Active())
	assert.Equal(t, "TwoSum", e.session.Previous())

	require.ErrorIs(t, e.session.Select(models.GeneratedRef("missing")), store.ErrProblemNotFound)
}

func TestRun_PassRecordsNoNote(t *testing.T) {
	e := newEnv(t)
	e.respond(t, resultDoc(map[string]any{"testcase_name": "t1", "status": "Passed"}))

	report, err := e.session.Run(context.Background(), models.RunRequest{ProblemID: "TwoSum", Code: "int main() {}"})
	require.NoError(t, err)

	assert.Equal(t, models.VerdictPass, report.Verdict)
	assert.Nil(t, report.Note)
	assert.Empty(t, report.Dumps)
	assert.Empty(t, e.store.AllNotes())
}

func TestRun_FailureRecordsOneNoteAndDump(t *testing.T) {
	e := newEnv(t)
	tcFile := filepath.Join(e.buildsDir, "problems", "TwoSum", "testcases", "t2.test")
	require.NoError(t, os.WriteFile(tcFile, []byte("[3,3]\n6"), 0o644))
	e.respond(t, resultDoc(
		map[string]any{"testcase_name": "t1", "status": "Passed"},
		map[string]any{"testcase_name": "t2", "status": "Failed", "testcase_file": tcFile, "actual": []int{1, 1}, "expected": []int{0, 1}},
	))

	report, err := e.session.Run(context.Background(), models.RunRequest{ProblemID: "TwoSum", Code: "int main() {}"})
	require.NoError(t, err)

	assert.Equal(t, models.VerdictFail, report.Verdict)
	require.NotNil(t, report.Note)
	notes := e.store.Notes("TwoSum")
	require.Len(t, notes, 1)
	assert.Equal(t, "int main() {}", notes[0].Code)
	assert.Nil(t, notes[0].AIAnalysis)

	require.Len(t, report.Dumps, 1)
	dump, err := os.ReadFile(report.Dumps[0])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.buildsDir, "problems", "TwoSum", "t2_failed.txt"), report.Dumps[0])
	assert.Contains(t, string(dump), "Testcase: t2\n")
	assert.Contains(t, string(dump), "Testcase Content: [3,3]\n6\n")
}

func TestRun_BuildFailureNoteUsesSolutionFile(t *testing.T) {
	e := newEnv(t)
	e.harness.script = func(harness.Invocation) *harness.Result {
		return &harness.Result{Stdout: "cmake --build\nerror: boom\ncmake --build", ExitCode: 1}
	}
	require.NoError(t, e.session.Select("TwoSum"))

	report, err := e.session.Run(context.Background(), models.RunRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.VerdictBuildError, report.Verdict)
	require.NotNil(t, report.Note)
	assert.Equal(t, "// start\n", report.Note.Code)
	assert.Equal(t, "error: boom", report.Note.Results.Tests[0].Reason)
	assert.Empty(t, report.Dumps)
}

func TestRun_CatalogGoneAfterRunStillRecordsNote(t *testing.T) {
	e := newEnv(t)
	e.harness.script = func(harness.Invocation) *harness.Result {
		_ = os.RemoveAll(filepath.Join(e.buildsDir, "languages"))
		return &harness.Result{Stdout: "cmake --build\nerror: boom\ncmake --build", ExitCode: 1}
	}

	report, err := e.session.Run(context.Background(), models.RunRequest{ProblemID: "TwoSum", Code: "int main() {}"})
	require.NoError(t, err)

	assert.Equal(t, models.VerdictBuildError, report.Verdict)
	require.NotNil(t, report.Note)
	assert.Equal(t, "int main() {}", report.Note.Code)
	assert.Empty(t, report.Dumps)
	assert.Len(t, e.store.Notes("TwoSum"), 1)
}

func TestRun_NoProblemSelected(t *testing.T) {
	e := newEnv(t)
	_, err := e.session.Run(context.Background(), models.RunRequest{})
	require.Error(t, err)
	assert.Equal(t, 0, e.harness.calls)
}

func TestSaveManual(t *testing.T) {
	e := newEnv(t)

	note, err := e.session.SaveManual("TwoSum", "code")
	require.NoError(t, err)
	assert.Equal(t, "Manual Save", note.Results.Status)
	assert.Equal(t, models.StatusManualFailure, note.Results.Tests[0].Status)
	assert.Len(t, e.store.AllNotes(), 1)
}

func TestAnalyzeNote(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockAIService(ctrl)
	e := newEnv(t, WithAI(svc))

	older, err := e.store.AddNote("TwoSum", "old", models.ManualResultDocument())
	require.NoError(t, err)
	require.NoError(t, e.store.SaveAIAnalysis(older.Timestamp, &models.AIAnalysis{PatternAnalysis: "forgets empty input"}))
	note, err := e.store.AddNote("TwoSum", "new", models.ManualResultDocument())
	require.NoError(t, err)

	want := &models.AIAnalysis{
		ReasonAnalysis:  "index out of range",
		PatternAnalysis: "boundary checks",
		ConceptSummary:  models.ConceptSummary{Concepts: []models.Concept{{Name: "Array", Tip: "check bounds"}}},
	}
	svc.EXPECT().AnalyzeFailure(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ai.AnalysisRequest) (*models.AIAnalysis, error) {
			assert.Equal(t, "TwoSum", req.ProblemID)
			assert.Equal(t, "new", req.Code)
			assert.Equal(t, []string{"forgets empty input"}, req.HistoricalPatterns)
			return want, nil
		})

	got, err := e.session.AnalyzeNote(context.Background(), note.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, want, got.AIAnalysis)

	stored, err := e.store.Note(note.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, want, stored.AIAnalysis)

	_, err = e.session.AnalyzeNote(context.Background(), note.Timestamp)
	require.ErrorIs(t, err, store.ErrAlreadyAnalyzed)
}

func TestAnalyzeNote_FailureLeavesNoteRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockAIService(ctrl)
	e := newEnv(t, WithAI(svc))
	note, err := e.store.AddNote("TwoSum", "code", models.ManualResultDocument())
	require.NoError(t, err)

	boom := errors.New("quota exceeded")
	svc.EXPECT().AnalyzeFailure(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err = e.session.AnalyzeNote(context.Background(), note.Timestamp)
	require.ErrorIs(t, err, boom)

	stored, err := e.store.Note(note.Timestamp)
	require.NoError(t, err)
	assert.Nil(t, stored.AIAnalysis)
}

func TestAIFeaturesWithoutService(t *testing.T) {
	e := newEnv(t)
	note, err := e.store.AddNote("TwoSum", "code", models.ManualResultDocument())
	require.NoError(t, err)

	_, err = e.session.AnalyzeNote(context.Background(), note.Timestamp)
	require.ErrorIs(t, err, ai.ErrNotConfigured)
	_, err = e.session.ProblemInsights(context.Background(), "TwoSum")
	require.ErrorIs(t, err, ai.ErrNotConfigured)
	_, err = e.session.GenerateProblem(context.Background(), "easy")
	require.ErrorIs(t, err, ai.ErrNotConfigured)
}

func TestProblemInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockAIService(ctrl)
	e := newEnv(t, WithAI(svc))

	svc.EXPECT().ExplainConcepts(gomock.Any(), "TwoSum", "# Two Sum\n").Return("<p>hashing</p>", nil)
	svc.EXPECT().RecommendRelated(gomock.Any(), "TwoSum").Return("<ul><li>3Sum</li></ul>", nil)

	insights, err := e.session.ProblemInsights(context.Background(), "TwoSum")
	require.NoError(t, err)
	assert.Equal(t, &Insights{Concepts: "<p>hashing</p>", Related: "<ul><li>3Sum</li></ul>"}, insights)
}

func TestProblemInsights_ErrorFromEitherRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockAIService(ctrl)
	e := newEnv(t, WithAI(svc))

	svc.EXPECT().ExplainConcepts(gomock.Any(), gomock.Any(), gomock.Any()).Return("<p>ok</p>", nil).AnyTimes()
	svc.EXPECT().RecommendRelated(gomock.Any(), gomock.Any()).Return("", ai.ErrEmptyResponse)

	_, err := e.session.ProblemInsights(context.Background(), "TwoSum")
	require.ErrorIs(t, err, ai.ErrEmptyResponse)
}

func TestProblemInsights_GeneratedProblemIsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockAIService(ctrl)
	e := newEnv(t, WithAI(svc))

	p, err := e.store.AddGeneratedProblem(models.GeneratedProblem{Title: "Gen", HTMLContent: "<p>Sum pairs</p>"})
	require.NoError(t, err)

	svc.EXPECT().ExplainConcepts(gomock.Any(), p.Ref(), "<p>Sum pairs</p>").Return("<p>concepts</p>", nil).Times(1)
	svc.EXPECT().RecommendRelated(gomock.Any(), p.Ref()).Return("<p>related</p>", nil).Times(1)

	first, err := e.session.ProblemInsights(context.Background(), p.Ref())
	require.NoError(t, err)
	second, err := e.session.ProblemInsights(context.Background(), p.Ref())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, err := e.store.GeneratedProblem(p.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{TabConcepts: "<p>concepts</p>", TabRelated: "<p>related</p>"}, stored.CachedTabs)
}

func TestGenerateAndVerify(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockAIService(ctrl)
	e := newEnv(t, WithAI(svc))

	svc.EXPECT().GenerateProblem(gomock.Any(), "easy").Return(&models.GeneratedProblem{
		Title:       "Pair Sum",
		Difficulty:  "easy",
		StarterCode: "// starter",
	}, nil)
	p, err := e.session.GenerateProblem(context.Background(), "easy")
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	gomock.InOrder(
		svc.EXPECT().VerifySolution(gomock.Any(), gomock.Any(), "wrong").Return(&ai.Verification{IsPass: false, Report: "misses negatives"}, nil),
		svc.EXPECT().VerifySolution(gomock.Any(), gomock.Any(), "right").Return(&ai.Verification{IsPass: true, Report: "ok"}, nil),
	)

	failed, err := e.session.Run(context.Background(), models.RunRequest{ProblemID: p.Ref(), Code: "wrong"})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictFail, failed.Verdict)
	require.NotNil(t, failed.Note)
	assert.Equal(t, p.Ref(), failed.Note.ProblemID)
	assert.Equal(t, "misses negatives", failed.Note.Results.Tests[0].Reason)

	passed, err := e.session.Run(context.Background(), models.RunRequest{ProblemID: p.Ref(), Code: "right"})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictPass, passed.Verdict)
	assert.Nil(t, passed.Note)

	assert.Len(t, e.store.Notes(p.Ref()), 1)
	assert.Equal(t, 0, e.harness.calls)
}

func TestCurriculumSkipsDeletedGeneratedProblems(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockAIService(ctrl)
	e := newEnv(t, WithAI(svc))

	withConcept := func(problemID, concept string) {
		n, err := e.store.AddNote(problemID, "", models.ManualResultDocument())
		require.NoError(t, err)
		require.NoError(t, e.store.SaveAIAnalysis(n.Timestamp, &models.AIAnalysis{
			ConceptSummary: models.ConceptSummary{Concepts: []models.Concept{{Name: concept, Tip: "tip"}}},
		}))
	}

	gone, err := e.store.AddGeneratedProblem(models.GeneratedProblem{Title: "Gone"})
	require.NoError(t, err)
	withConcept("TwoSum", "Hash Map")
	withConcept("TwoSum", "Hash Map (data structure)")
	withConcept(gone.Ref(), "Graph")
	require.NoError(t, e.store.DeleteGeneratedProblem(gone.ID))

	svc.EXPECT().PlanCurriculum(gomock.Any(), []models.WeakConcept{{Name: "Hash Map", Count: 2, Tips: []string{"tip"}}}).Return("<ol></ol>", nil)

	plan, weakest, err := e.session.Curriculum(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "<ol></ol>", plan)
	require.Len(t, weakest, 1)
}

func TestCurriculum_NoConcepts(t *testing.T) {
	ctrl := gomock.NewController(t)
	e := newEnv(t, WithAI(NewMockAIService(ctrl)))

	_, _, err := e.session.Curriculum(context.Background(), 5)
	require.ErrorIs(t, err, ErrNoWeakConcepts)
}
