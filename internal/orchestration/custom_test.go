package orchestration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/coft-dev/coft/internal/harness"
	"github.com/coft-dev/coft/internal/models"
	"github.com/stretchr/testify/require"
)

func customDoc(t *testing.T, actual any, statuses ...string) string {
	t.Helper()
	tests := []map[string]any{}
	for _, s := range statuses {
		tests = append(tests, map[string]any{
			"testcase_name": models.CustomTestcaseName,
			"status":        s,
			"actual":        actual,
		})
	}
	data, err := json.Marshal(map[string]any{
		"duration_ms":          3,
		"status":               "Done",
		"testcase_filter_name": models.CustomTestcaseName,
		"stdout":               "debug print\n",
		"stderr":               "",
		"tests":                tests,
	})
	require.NoError(t, err)
	return string(data)
}

func TestRunCustom(t *testing.T) {
	f := newFixture(t)
	h := &fakeHarness{script: func(inv harness.Invocation) (*harness.Result, error) {
		if inv.Request.RunExpectedOnly {
			return &harness.Result{Stdout: f.resultFile(t, "expected", customDoc(t, []int{0, 1}, "Skipped"))}, nil
		}
		return &harness.Result{Stdout: f.resultFile(t, "actual", customDoc(t, []int{1, 0}, "Skipped"))}, nil
	}}

	res, err := NewRunner(f.pathsFile, h).RunCustom(context.Background(), "TwoSum", "cpp", "[2,7,11,15]\n9", "// mine\n")
	require.NoError(t, err)
	require.Equal(t, models.OutcomeKindStructured, res.Outcome.Kind())
	require.Equal(t, []any{float64(1), float64(0)}, res.Actual)
	require.Equal(t, []any{float64(0), float64(1)}, res.Expected)
	require.Equal(t, "debug print\n", res.Stdout)

	input, err := os.ReadFile(filepath.Join(f.buildsDir, "problems", "TwoSum", "testcases", "_custom_testcase.test"))
	require.NoError(t, err)
	require.Equal(t, "[2,7,11,15]\n9\n*", string(input))

	calls := h.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, models.CustomTestcaseName, calls[0].Request.TestcaseFilter)
	require.False(t, calls[0].Request.RunExpectedOnly)
	require.Equal(t, models.CustomTestcaseName, calls[1].Request.TestcaseFilter)
	require.True(t, calls[1].Request.RunExpectedOnly)
}

func TestRunCustom_ContractViolations(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
	}{
		{name: "no entries"},
		{name: "two entries", statuses: []string{"Skipped", "Skipped"}},
		{name: "not skipped", statuses: []string{"Passed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			h := staticHarness(&harness.Result{Stdout: f.resultFile(t, "actual", customDoc(t, 1, tt.statuses...))})

			_, err := NewRunner(f.pathsFile, h).RunCustom(context.Background(), "TwoSum", "cpp", "1", "")
			require.ErrorIs(t, err, ErrCustomContract)
			require.Len(t, h.Calls(), 1)
		})
	}
}

func TestRunCustom_BuildFailureIsReturnedAsOutcome(t *testing.T) {
	f := newFixture(t)
	h := staticHarness(&harness.Result{Stdout: "cmake --build\nsolution.cpp:1: error\ncmake --build"})

	res, err := NewRunner(f.pathsFile, h).RunCustom(context.Background(), "TwoSum", "cpp", "1", "broken")
	require.NoError(t, err)
	require.Equal(t, models.BuildFailure{Excerpt: "solution.cpp:1: error"}, res.Outcome)
	require.Nil(t, res.Actual)
	require.Len(t, h.Calls(), 1)
}

func TestRunCustom_ExpectedRunMustBeStructured(t *testing.T) {
	f := newFixture(t)
	h := &fakeHarness{script: func(inv harness.Invocation) (*harness.Result, error) {
		if inv.Request.RunExpectedOnly {
			return &harness.Result{Stdout: "reference build failed"}, nil
		}
		return &harness.Result{Stdout: f.resultFile(t, "actual", customDoc(t, 1, "Skipped"))}, nil
	}}

	_, err := NewRunner(f.pathsFile, h).RunCustom(context.Background(), "TwoSum", "cpp", "1", "")
	require.ErrorIs(t, err, ErrCustomContract)
}

func TestRunCustom_RejectsGeneratedProblems(t *testing.T) {
	f := newFixture(t)
	h := staticHarness(&harness.Result{})

	_, err := NewRunner(f.pathsFile, h).RunCustom(context.Background(), models.GeneratedRef("abc"), "cpp", "1", "")
	require.Error(t, err)
	require.Empty(t, h.Calls())
}
