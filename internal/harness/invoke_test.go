package harness

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/coft-dev/coft/internal/models"
	"github.com/stretchr/testify/require"
)

func TestInvocationArgs(t *testing.T) {
	tests := []struct {
		name string
		req  models.RunRequest
		want []string
	}{
		{
			name: "defaults",
			req:  models.RunRequest{ProblemID: "TwoSum"},
			want: []string{
				"--problem_builds_dir", "/builds",
				"--language", "cpp",
				"--problem", "TwoSum",
				"--testcase", "All",
				"--verbose",
			},
		},
		{
			name: "expected tests for the custom slot",
			req: models.RunRequest{
				ProblemID:       "TwoSum",
				Language:        "cpp",
				TestcaseFilter:  models.CustomTestcaseName,
				RunExpectedOnly: true,
			},
			want: []string{
				"--problem_builds_dir", "/builds",
				"--language", "cpp",
				"--problem", "TwoSum",
				"--testcase", "_custom_testcase",
				"--run-expected-tests",
				"--verbose",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invocation{BuildsDir: "/builds", Request: tt.req}
			require.Equal(t, tt.want, inv.Args())
		})
	}
}

func TestInvocationCommandDefault(t *testing.T) {
	inv := Invocation{BuildsDir: "/builds"}
	require.Equal(t, filepath.Join("/builds", ScriptName()), inv.command())

	inv.Command = "/opt/harness"
	require.Equal(t, "/opt/harness", inv.command())
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available on Windows")
	}
	path := filepath.Join(t.TempDir(), "harness.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecInvoker_CapturesOutput(t *testing.T) {
	script := writeScript(t, `echo "problem=$6"; echo "oops" >&2; exit 3`)

	inv := Invocation{Command: script, BuildsDir: t.TempDir(), Request: models.RunRequest{ProblemID: "TwoSum"}}
	res, err := (&ExecInvoker{}).Invoke(context.Background(), inv)
	require.NoError(t, err)
	require.Equal(t, "problem=TwoSum\n", res.Stdout)
	require.Equal(t, "oops\n", res.Stderr)
	require.Equal(t, 3, res.ExitCode)
	require.False(t, res.Killed)
}

func TestExecInvoker_Timeout(t *testing.T) {
	script := writeScript(t, "exec sleep 5\n")

	inv := Invocation{Command: script, BuildsDir: t.TempDir(), Request: models.RunRequest{ProblemID: "TwoSum"}}
	res, err := (&ExecInvoker{Timeout: 100 * time.Millisecond}).Invoke(context.Background(), inv)
	require.NoError(t, err)
	require.True(t, res.Killed)
	require.Empty(t, res.Stdout)
}

func TestExecInvoker_MissingCommand(t *testing.T) {
	inv := Invocation{Command: filepath.Join(t.TempDir(), "nope"), BuildsDir: t.TempDir()}
	_, err := (&ExecInvoker{}).Invoke(context.Background(), inv)
	require.Error(t, err)
	require.Contains(t, err.Error(), "starting harness")
}
