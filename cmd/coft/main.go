package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // The solution passed
	ExitTestFailed = 1 // Build, runtime or test failure
	ExitError      = 2 // Configuration or runtime error
)

// TestFailureError indicates that the harness ran, but the solution did not
// pass. The run has been recorded as a mistake note.
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var testFailureErr *TestFailureError
		if errors.As(err, &testFailureErr) {
			os.Exit(ExitTestFailed)
		}

		os.Exit(ExitError)
	}
}
