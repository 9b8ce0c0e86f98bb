// Package catalog reads the problem-builds directory: where it lives, which
// problems and languages it holds, and the per-problem files inside it.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/validation"
)

// DefaultPathsFile is the file, relative to the working directory, that
// records where the problem-builds directory lives.
const DefaultPathsFile = "filePaths.tmp"

const (
	problemsDirName  = "problems"
	languagesDirName = "languages"
	testcasesDirName = "testcases"
)

// ErrConfigurationMissing is returned when the paths file, or a directory it
// points at, does not exist. Nothing can run without it.
var ErrConfigurationMissing = errors.New("problem-builds configuration missing")

// ResolveBuildsDir reads the builds directory recorded in pathsFile. A
// relative entry is resolved against the working directory.
func ResolveBuildsDir(pathsFile string) (string, error) {
	data, err := os.ReadFile(pathsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: paths file %s does not exist", ErrConfigurationMissing, pathsFile)
		}
		return "", fmt.Errorf("reading paths file %s: %w", pathsFile, err)
	}
	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return "", fmt.Errorf("%w: paths file %s is empty", ErrConfigurationMissing, pathsFile)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving builds dir %s: %w", dir, err)
	}
	return abs, nil
}

// WriteBuildsDir records buildsDir, made absolute, in pathsFile and returns
// the recorded value.
func WriteBuildsDir(pathsFile, buildsDir string) (string, error) {
	abs, err := filepath.Abs(buildsDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", buildsDir, err)
	}
	if err := os.WriteFile(pathsFile, []byte(abs), 0o644); err != nil {
		return "", fmt.Errorf("writing paths file %s: %w", pathsFile, err)
	}
	return abs, nil
}

// Layout derives file locations inside a problem-builds directory.
type Layout struct {
	Root string
}

func (l Layout) ProblemsDir() string  { return filepath.Join(l.Root, problemsDirName) }
func (l Layout) LanguagesDir() string { return filepath.Join(l.Root, languagesDirName) }

func (l Layout) ProblemDir(problem string) string {
	return filepath.Join(l.ProblemsDir(), problem)
}

func (l Layout) DescriptionFile(problem string) string {
	return filepath.Join(l.ProblemDir(problem), "description.md")
}

func (l Layout) MetadataFile(problem string) string {
	return filepath.Join(l.ProblemDir(problem), "metadata.json")
}

func (l Layout) ReferenceSolutionFile(problem, language string) string {
	return filepath.Join(l.ProblemDir(problem), language, "solution.md")
}

// SolutionFile is the user's editable solution for a problem.
func (l Layout) SolutionFile(problem, language string) string {
	return filepath.Join(l.ProblemDir(problem), language, "solution."+language)
}

func (l Layout) TestcasesDir(problem string) string {
	return filepath.Join(l.ProblemDir(problem), testcasesDirName)
}

// CustomTestcaseFile is the reserved slot for ad-hoc input.
func (l Layout) CustomTestcaseFile(problem string) string {
	return filepath.Join(l.TestcasesDir(problem), models.CustomTestcaseName+".test")
}

func (l Layout) SchemaFile() string {
	return filepath.Join(l.Root, validation.ResultsSchemaFileName)
}

// FailedDumpFile is where the input of a failed testcase is copied for later
// inspection.
func (l Layout) FailedDumpFile(problem, testcase string) string {
	return filepath.Join(l.ProblemDir(problem), testcase+"_failed.txt")
}
