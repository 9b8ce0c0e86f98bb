package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/coft-dev/coft/internal/models"
)

// defaultTimeoutSeconds bounds a harness run when none is configured.
const defaultTimeoutSeconds = 300

const waitDelay = 2 * time.Second

// ScriptName returns the harness launcher shipped in the problem-builds
// directory for the current platform.
func ScriptName() string {
	if runtime.GOOS == "windows" {
		return "openleetcode.bat"
	}
	return "openleetcode.sh"
}

// Invocation is one fully resolved harness call.
type Invocation struct {
	// Command is the launcher to run. Defaults to <BuildsDir>/[ScriptName].
	Command   string
	BuildsDir string
	Request   models.RunRequest
}

// Args returns the harness argument contract for the invocation.
func (inv Invocation) Args() []string {
	args := []string{
		"--problem_builds_dir", inv.BuildsDir,
		"--language", inv.Request.Lang(),
		"--problem", inv.Request.ProblemID,
		"--testcase", inv.Request.Filter(),
	}
	if inv.Request.RunExpectedOnly {
		args = append(args, "--run-expected-tests")
	}
	return append(args, "--verbose")
}

func (inv Invocation) command() string {
	if inv.Command != "" {
		return inv.Command
	}
	return filepath.Join(inv.BuildsDir, ScriptName())
}

// Result is what the harness process left behind. The exit code is
// informational only: a zero exit without a result file is still a failure.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int

	// Killed is set when the process was stopped by a timeout or cancellation.
	Killed bool
}

// Invoker runs the harness.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) (*Result, error)
}

// ExecInvoker runs the harness as a child process.
type ExecInvoker struct {
	// Timeout bounds a single run. Defaults to 300 seconds.
	Timeout time.Duration
}

// Invoke runs the harness and waits for it to exit. A process that starts
// and then fails, exits non-zero, or gets killed is reported through
// [Result]; only a process that could not be started returns an error.
func (e *ExecInvoker) Invoke(ctx context.Context, inv Invocation) (*Result, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds * time.Second
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // the launcher comes from the user's problem-builds directory or config
	cmd := exec.CommandContext(timeoutCtx, inv.command(), inv.Args()...)
	cmd.Dir = inv.BuildsDir
	// The harness spawns compilers; don't wait forever on their inherited pipes.
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running harness", "command", cmd.Path, "args", cmd.Args[1:])
	start := time.Now()
	err := cmd.Run()

	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("starting harness %s: %w", inv.command(), err)
		}
		res.ExitCode = exitErr.ExitCode()
		if timeoutCtx.Err() != nil {
			res.Killed = true
		}
	}

	slog.Debug("Harness finished", "exit_code", res.ExitCode, "killed", res.Killed, "elapsed", time.Since(start))
	return res, nil
}
