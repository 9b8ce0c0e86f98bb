package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrUnknownProblem is returned for a problem name the catalog doesn't have.
var ErrUnknownProblem = errors.New("unknown problem")

// Metadata is the optional metadata.json next to a problem's description.
// JSON is valid YAML, so it is decoded with the YAML decoder and unknown keys
// are kept in Extra.
type Metadata struct {
	Title      string         `yaml:"title,omitempty" json:"title,omitempty"`
	Difficulty string         `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	Tags       []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
	Extra      map[string]any `yaml:",inline" json:"-"`
}

// Catalog is a snapshot of a problem-builds directory.
type Catalog struct {
	Layout    Layout
	Problems  []string
	Languages []string

	md goldmark.Markdown
}

// Open scans the builds directory. Missing problems/ or languages/
// directories mean the directory was never set up and wrap
// [ErrConfigurationMissing].
func Open(buildsDir string) (*Catalog, error) {
	layout := Layout{Root: buildsDir}

	problems, err := listDir(layout.ProblemsDir())
	if err != nil {
		return nil, err
	}
	languages, err := listDir(layout.LanguagesDir())
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Layout:    layout,
		Problems:  problems,
		Languages: languages,
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrConfigurationMissing, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Has reports whether the catalog contains problem.
func (c *Catalog) Has(problem string) bool {
	_, found := slices.BinarySearch(c.Problems, problem)
	return found
}

func (c *Catalog) check(problem string) error {
	if !c.Has(problem) {
		return fmt.Errorf("%w: %q", ErrUnknownProblem, problem)
	}
	return nil
}

// Description returns the problem description rendered to HTML. A missing
// description renders a short notice instead of failing.
func (c *Catalog) Description(problem string) (string, error) {
	if err := c.check(problem); err != nil {
		return "", err
	}
	return c.renderFile(c.Layout.DescriptionFile(problem))
}

// DescriptionMarkdown returns the raw markdown of the description.
func (c *Catalog) DescriptionMarkdown(problem string) (string, error) {
	if err := c.check(problem); err != nil {
		return "", err
	}
	data, err := os.ReadFile(c.Layout.DescriptionFile(problem))
	if err != nil {
		return "", fmt.Errorf("reading description of %s: %w", problem, err)
	}
	return string(data), nil
}

// ReferenceSolution returns the published solution write-up rendered to HTML.
func (c *Catalog) ReferenceSolution(problem, language string) (string, error) {
	if err := c.check(problem); err != nil {
		return "", err
	}
	return c.renderFile(c.Layout.ReferenceSolutionFile(problem, language))
}

func (c *Catalog) renderFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Sprintf("<p>File does not exist: %s</p>\n", filepath.Base(path)), nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := c.md.Convert(data, &buf); err != nil {
		return "", fmt.Errorf("rendering %s: %w", path, err)
	}
	return buf.String(), nil
}

// Metadata reads a problem's metadata. A missing or unparseable file yields
// empty metadata; the latter is logged.
func (c *Catalog) Metadata(problem string) (Metadata, error) {
	if err := c.check(problem); err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	data, err := os.ReadFile(c.Layout.MetadataFile(problem))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read problem metadata", "problem", problem, "error", err)
		}
		return meta, nil
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		slog.Warn("Failed to parse problem metadata", "problem", problem, "error", err)
		return Metadata{}, nil
	}
	return meta, nil
}

// ReadSolution returns the user's current solution.
func (c *Catalog) ReadSolution(problem, language string) (string, error) {
	if err := c.check(problem); err != nil {
		return "", err
	}
	data, err := os.ReadFile(c.Layout.SolutionFile(problem, language))
	if err != nil {
		return "", fmt.Errorf("reading solution of %s: %w", problem, err)
	}
	return string(data), nil
}

// WriteSolution saves code as the user's solution. The file is left alone
// when its content already matches, so watchers don't see a spurious change.
func (c *Catalog) WriteSolution(problem, language, code string) (changed bool, err error) {
	if err := c.check(problem); err != nil {
		return false, err
	}
	path := c.Layout.SolutionFile(problem, language)
	if current, err := os.ReadFile(path); err == nil && string(current) == code {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating solution directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return false, fmt.Errorf("writing solution of %s: %w", problem, err)
	}
	return true, nil
}

// WriteCustomTestcase fills the reserved custom testcase slot with input.
// The trailing "*" line tells the harness there is no expected output.
func (c *Catalog) WriteCustomTestcase(problem, input string) (string, error) {
	if err := c.check(problem); err != nil {
		return "", err
	}
	path := c.Layout.CustomTestcaseFile(problem)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating testcases directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(input+"\n*"), 0o644); err != nil {
		return "", fmt.Errorf("writing custom testcase: %w", err)
	}
	return path, nil
}
