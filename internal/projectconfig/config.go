// Package projectconfig provides the ProjectConfig struct and loader for
// .coft.yaml configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up from the working directory.
const FileName = ".coft.yaml"

// Default values for the configuration. New() references them and no other
// code should duplicate them.
const (
	DefaultProblemBuilds = "./problem_builds"
	DefaultPathsFile     = "filePaths.tmp"

	DefaultLanguage       = "cpp"
	DefaultHarnessTimeout = 300

	DefaultAIModel   = "gemini-2.5-flash"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
	DefaultAITimeout = 120
	DefaultLocale    = "ko"

	// dataDirName is the directory created under os.UserConfigDir.
	dataDirName = "coft"
)

// PathsConfig holds the builds directory, the paths file and the data dir.
type PathsConfig struct {
	ProblemBuilds string `yaml:"problem_builds,omitempty"`
	PathsFile     string `yaml:"paths_file,omitempty"`
	DataDir       string `yaml:"data_dir,omitempty"`
}

// HarnessConfig holds harness invocation settings.
type HarnessConfig struct {
	Command  string `yaml:"command,omitempty"`
	Language string `yaml:"language,omitempty"`
	Timeout  int    `yaml:"timeout,omitempty"`
}

// AIConfig holds settings for the AI service.
type AIConfig struct {
	Model     string `yaml:"model,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	Timeout   int    `yaml:"timeout,omitempty"`
	Locale    string `yaml:"locale,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .coft.yaml.
type ProjectConfig struct {
	Paths   PathsConfig   `yaml:"paths,omitempty"`
	Harness HarnessConfig `yaml:"harness,omitempty"`
	AI      AIConfig      `yaml:"ai,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
// Paths.DataDir stays empty; see [ProjectConfig.DataDir].
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			ProblemBuilds: DefaultProblemBuilds,
			PathsFile:     DefaultPathsFile,
		},
		Harness: HarnessConfig{
			Language: DefaultLanguage,
			Timeout:  DefaultHarnessTimeout,
		},
		AI: AIConfig{
			Model:     DefaultAIModel,
			APIKeyEnv: DefaultAPIKeyEnv,
			Timeout:   DefaultAITimeout,
			Locale:    DefaultLocale,
		},
	}
}

// Load finds .coft.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .coft.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.ProblemBuilds != "" {
		dst.Paths.ProblemBuilds = src.Paths.ProblemBuilds
	}
	if src.Paths.PathsFile != "" {
		dst.Paths.PathsFile = src.Paths.PathsFile
	}
	if src.Paths.DataDir != "" {
		dst.Paths.DataDir = src.Paths.DataDir
	}

	// Harness
	if src.Harness.Command != "" {
		dst.Harness.Command = src.Harness.Command
	}
	if src.Harness.Language != "" {
		dst.Harness.Language = src.Harness.Language
	}
	if src.Harness.Timeout != 0 {
		dst.Harness.Timeout = src.Harness.Timeout
	}

	// AI
	if src.AI.Model != "" {
		dst.AI.Model = src.AI.Model
	}
	if src.AI.APIKeyEnv != "" {
		dst.AI.APIKeyEnv = src.AI.APIKeyEnv
	}
	if src.AI.Timeout != 0 {
		dst.AI.Timeout = src.AI.Timeout
	}
	if src.AI.Locale != "" {
		dst.AI.Locale = src.AI.Locale
	}
}

// DataDir returns where notes are stored: Paths.DataDir when set, otherwise
// <user config dir>/coft.
func (c *ProjectConfig) DataDir() (string, error) {
	if c.Paths.DataDir != "" {
		return c.Paths.DataDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(base, dataDirName), nil
}

// HarnessTimeout returns the harness timeout as a duration.
func (c *ProjectConfig) HarnessTimeout() time.Duration {
	return time.Duration(c.Harness.Timeout) * time.Second
}

// AITimeout returns the AI request timeout as a duration.
func (c *ProjectConfig) AITimeout() time.Duration {
	return time.Duration(c.AI.Timeout) * time.Second
}

// APIKey reads the AI API key from the configured environment variable.
func (c *ProjectConfig) APIKey() string {
	return os.Getenv(c.AI.APIKeyEnv)
}
