// Package harness talks to the external build/test harness: it builds the
// argument contract, runs the process, and scrapes its console output.
package harness

import (
	"regexp"
	"strings"
)

// BuildMarker is the build step invocation the harness echoes before each
// build. Compiler diagnostics appear between two of them.
const BuildMarker = "cmake --build"

var resultPathRegex = regexp.MustCompile(`Results written to (.*\.results)`)

// ExtractResultPath finds the result file the harness announced on stdout.
// ok is false when no announcement is present, which is how a failed build
// shows up; it is not an error by itself.
func ExtractResultPath(stdout string) (path string, ok bool) {
	m := resultPathRegex.FindStringSubmatch(stdout)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractBuildExcerpt returns the lines strictly between the line holding the
// first [BuildMarker] and the line holding the second one. With fewer than two
// markers the whole input comes back unchanged.
//
// This is a heuristic: the harness interleaves configure, build and run
// output, and the second marker is only usually the end of the diagnostics.
func ExtractBuildExcerpt(output string) string {
	first := strings.Index(output, BuildMarker)
	if first < 0 {
		return output
	}
	rest := first + len(BuildMarker)
	second := strings.Index(output[rest:], BuildMarker)
	if second < 0 {
		return output
	}
	second += rest

	lines := strings.Split(output[first:second+len(BuildMarker)], "\n")
	if len(lines) <= 2 {
		return ""
	}
	kept := lines[1 : len(lines)-1]
	for i, line := range kept {
		kept[i] = strings.TrimSuffix(line, "\r")
	}
	return strings.Join(kept, "\n")
}
