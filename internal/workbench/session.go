// Package workbench ties one practice session together: the selected
// problem, harness runs, mistake notes, concept statistics and the AI
// collaborator.
package workbench

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coft-dev/coft/internal/ai"
	"github.com/coft-dev/coft/internal/catalog"
	"github.com/coft-dev/coft/internal/concepts"
	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/orchestration"
	"github.com/coft-dev/coft/internal/store"
)

// ErrNoWeakConcepts is returned when a curriculum is requested before any
// analysed mistakes exist.
var ErrNoWeakConcepts = errors.New("no weak concepts recorded yet")

// Session holds the active problem and the collaborators every command
// works through. It replaces process-wide state: callers create one per
// process and pass it around.
type Session struct {
	pathsFile string
	language  string
	runner    *orchestration.Runner
	store     *store.Store
	ai        ai.Service

	mu       sync.Mutex
	active   string
	previous string
}

// Option configures a Session.
type Option func(*Session)

// WithAI sets the AI collaborator. Without one, AI features return
// [ai.ErrNotConfigured].
func WithAI(svc ai.Service) Option {
	return func(s *Session) {
		s.ai = svc
	}
}

// WithLanguage sets the language used when a request doesn't name one.
func WithLanguage(language string) Option {
	return func(s *Session) {
		s.language = language
	}
}

// New creates a session. pathsFile locates the problem-builds directory, the
// same file the runner reads.
func New(pathsFile string, runner *orchestration.Runner, st *store.Store, opts ...Option) *Session {
	s := &Session{
		pathsFile: pathsFile,
		language:  models.DefaultLanguage,
		runner:    runner,
		store:     st,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Store returns the note store.
func (s *Session) Store() *store.Store {
	return s.store
}

// Runner returns the run orchestrator.
func (s *Session) Runner() *orchestration.Runner {
	return s.runner
}

// Catalog opens the current problem-builds directory.
func (s *Session) Catalog() (*catalog.Catalog, error) {
	dir, err := catalog.ResolveBuildsDir(s.pathsFile)
	if err != nil {
		return nil, err
	}
	return catalog.Open(dir)
}

// Select makes problemID the active problem. Generated problems are selected
// by their "generated:<id>" ref.
func (s *Session) Select(problemID string) error {
	if id, generated := models.ParseGeneratedRef(problemID); generated {
		if _, err := s.store.GeneratedProblem(id); err != nil {
			return err
		}
	} else {
		cat, err := s.Catalog()
		if err != nil {
			return err
		}
		if !cat.Has(problemID) {
			return fmt.Errorf("%w: %s", catalog.ErrUnknownProblem, problemID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != problemID {
		s.previous = s.active
		s.active = problemID
	}
	return nil
}

// Active returns the active problem, or "" when none is selected.
func (s *Session) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Previous returns the problem that was active before the current one.
func (s *Session) Previous() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous
}

func (s *Session) problemOrActive(problemID string) (string, error) {
	if problemID != "" {
		return problemID, nil
	}
	if active := s.Active(); active != "" {
		return active, nil
	}
	return "", errors.New("no problem selected")
}

func (s *Session) aiService() (ai.Service, error) {
	if s.ai == nil {
		return nil, ai.ErrNotConfigured
	}
	return s.ai, nil
}

// WeakConcepts aggregates the concepts of every live note, skipping the
// ignore list.
func (s *Session) WeakConcepts() []models.WeakConcept {
	return concepts.ComputeWeakConcepts(s.store.AllNotes(), s.store.IgnoredConcepts(), s.store.GeneratedIDs())
}
