// Package orchestration runs the harness for a request and classifies what it
// left behind into a [models.Outcome].
package orchestration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/coft-dev/coft/internal/catalog"
	"github.com/coft-dev/coft/internal/harness"
	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/validation"
)

// ErrRunInProgress is returned when a run is requested while another one is
// still waiting on the harness.
var ErrRunInProgress = errors.New("a harness run is already in progress")

// ErrConfigurationMissing is the fatal error for a missing paths file,
// builds directory or results schema.
var ErrConfigurationMissing = catalog.ErrConfigurationMissing

// Runner orchestrates harness runs. At most one run is in flight at a time.
type Runner struct {
	pathsFile string
	invoker   harness.Invoker
	command   string

	inFlight *semaphore.Weighted

	validatorsMu sync.Mutex
	validators   map[string]*validation.ResultsValidator

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// EventType represents the type of progress event
type EventType string

const (
	EventRunStart    EventType = "run_start"
	EventHarnessExit EventType = "harness_exit"
	EventRunComplete EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType EventType
	ProblemID string
	Filter    string
	Outcome   models.Outcome
	Duration  time.Duration
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHarnessCommand overrides the launcher found in the builds directory.
func WithHarnessCommand(command string) RunnerOption {
	return func(r *Runner) {
		r.command = command
	}
}

// NewRunner creates a runner that finds the builds directory through
// pathsFile and starts the harness with invoker.
func NewRunner(pathsFile string, invoker harness.Invoker, opts ...RunnerOption) *Runner {
	r := &Runner{
		pathsFile:  pathsFile,
		invoker:    invoker,
		inFlight:   semaphore.NewWeighted(1),
		validators: map[string]*validation.ResultsValidator{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notify(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := append([]ProgressListener(nil), r.listeners...)
	r.progressMu.Unlock()
	for _, l := range listeners {
		l(event)
	}
}

// Run persists the request's code, runs the harness and classifies the
// result. Only configuration problems and [ErrRunInProgress] are returned
// as errors; everything the harness does wrong is an [models.Outcome].
func (r *Runner) Run(ctx context.Context, req models.RunRequest) (models.Outcome, error) {
	if !r.inFlight.TryAcquire(1) {
		return nil, ErrRunInProgress
	}
	defer r.inFlight.Release(1)

	return r.run(ctx, req)
}

func (r *Runner) run(ctx context.Context, req models.RunRequest) (models.Outcome, error) {
	env, err := r.prepare()
	if err != nil {
		return nil, err
	}

	if req.Code != "" {
		if _, generated := models.ParseGeneratedRef(req.ProblemID); !generated {
			if _, err := env.catalog.WriteSolution(req.ProblemID, req.Lang(), req.Code); err != nil {
				return nil, fmt.Errorf("saving solution before run: %w", err)
			}
		}
	}

	start := time.Now()
	r.notify(ProgressEvent{EventType: EventRunStart, ProblemID: req.ProblemID, Filter: req.Filter()})

	res, err := r.invoker.Invoke(ctx, harness.Invocation{
		Command:   r.command,
		BuildsDir: env.catalog.Layout.Root,
		Request:   req,
	})
	if err != nil {
		slog.Warn("Harness could not be started", "problem", req.ProblemID, "error", err)
		res = &harness.Result{Stderr: err.Error()}
	}
	r.notify(ProgressEvent{EventType: EventHarnessExit, ProblemID: req.ProblemID, Filter: req.Filter(), Duration: time.Since(start)})

	outcome := Classify(res, env.validator)
	slog.Debug("Run classified", "problem", req.ProblemID, "filter", req.Filter(), "kind", outcome.Kind())

	r.notify(ProgressEvent{
		EventType: EventRunComplete,
		ProblemID: req.ProblemID,
		Filter:    req.Filter(),
		Outcome:   outcome,
		Duration:  time.Since(start),
	})
	return outcome, nil
}

type runEnv struct {
	catalog   *catalog.Catalog
	validator *validation.ResultsValidator
}

// prepare resolves everything a run depends on before the harness starts.
func (r *Runner) prepare() (*runEnv, error) {
	buildsDir, err := catalog.ResolveBuildsDir(r.pathsFile)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Open(buildsDir)
	if err != nil {
		return nil, err
	}
	v, err := r.validator(cat.Layout.SchemaFile())
	if err != nil {
		return nil, err
	}
	return &runEnv{catalog: cat, validator: v}, nil
}

func (r *Runner) validator(schemaPath string) (*validation.ResultsValidator, error) {
	r.validatorsMu.Lock()
	defer r.validatorsMu.Unlock()

	if v, ok := r.validators[schemaPath]; ok {
		return v, nil
	}
	v, err := validation.LoadResultsValidator(schemaPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: results schema %s does not exist", ErrConfigurationMissing, schemaPath)
		}
		return nil, fmt.Errorf("loading results schema: %w", err)
	}
	r.validators[schemaPath] = v
	return v, nil
}

// Classify turns a finished harness process into an outcome:
//
//  1. no announced result file, or the file is missing: [models.BuildFailure]
//  2. a result document with a non-zero errorcode: [models.RuntimeFailure]
//  3. a document failing validation: [models.BuildFailure]
//  4. otherwise: [models.StructuredResult]
//
// The same inputs always give the same outcome.
func Classify(res *harness.Result, validator *validation.ResultsValidator) models.Outcome {
	if res.Killed {
		slog.Warn("Harness was stopped before it finished", "exit_code", res.ExitCode)
		return buildFailureFrom(res)
	}

	path, ok := harness.ExtractResultPath(res.Stdout)
	if !ok {
		return buildFailureFrom(res)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Failed to read result file", "path", path, "error", err)
		}
		return buildFailureFrom(res)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("Result file is not valid JSON", "path", path, "error", err)
		return models.BuildFailure{Excerpt: fmt.Sprintf("Result file %s is not valid JSON: %v", path, err)}
	}

	if obj, ok := raw.(map[string]any); ok {
		if code := errorCode(obj["errorcode"]); code != 0 {
			stdout, _ := obj["stdout"].(string)
			stderr, _ := obj["stderr"].(string)
			return models.RuntimeFailure{ExitCode: code, Stdout: stdout, Stderr: stderr}
		}
	}

	if errs := validator.Validate(raw); len(errs) > 0 {
		return models.BuildFailure{Excerpt: "Result document failed schema validation:\n" + strings.Join(errs, "\n")}
	}
	doc, err := models.DecodeResultDocument(raw)
	if err != nil {
		slog.Warn("Failed to decode validated result document", "path", path, "error", err)
		return models.BuildFailure{Excerpt: err.Error()}
	}
	return models.StructuredResult{Document: doc}
}

func buildFailureFrom(res *harness.Result) models.BuildFailure {
	out := res.Stdout
	if out == "" {
		out = res.Stderr
	}
	return models.BuildFailure{Excerpt: harness.ExtractBuildExcerpt(out)}
}

func errorCode(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}
