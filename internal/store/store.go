// Package store persists mistake notes, the ignored-concept list and
// generated problems as three independent JSON files.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coft-dev/coft/internal/models"
)

// File names inside the data directory.
const (
	NotesFileName             = "notes.json"
	IgnoredConceptsFileName   = "ignored_concepts.json"
	GeneratedProblemsFileName = "generated_problems.json"
)

var (
	// ErrNoteNotFound is returned when no note has the given timestamp.
	ErrNoteNotFound = errors.New("note not found")
	// ErrAlreadyAnalyzed is returned when a note already carries an analysis.
	ErrAlreadyAnalyzed = errors.New("note already has an AI analysis")
	// ErrProblemNotFound is returned for an unknown generated problem ID.
	ErrProblemNotFound = errors.New("generated problem not found")
	// ErrEmptyConcept is returned when a concept name normalizes to nothing.
	ErrEmptyConcept = errors.New("concept name is empty")
)

// Store holds the three collections in memory and writes each mutation
// through to disk before returning. Each collection has its own lock; there
// are no transactions across collections.
type Store struct {
	dir   string
	now   func() time.Time
	newID func() (uuid.UUID, error)

	notesMu   sync.RWMutex
	notesFile jsonFile[models.Note]
	notes     []models.Note
	lastTS    time.Time

	ignoredMu   sync.RWMutex
	ignoredFile jsonFile[string]
	ignored     []string

	generatedMu   sync.RWMutex
	generatedFile jsonFile[models.GeneratedProblem]
	generated     []models.GeneratedProblem
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the clock used for note and problem timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open loads the store from dir, creating the directory if needed.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{
		dir:           dir,
		now:           time.Now,
		newID:         uuid.NewV7,
		notesFile:     jsonFile[models.Note]{path: filepath.Join(dir, NotesFileName)},
		ignoredFile:   jsonFile[string]{path: filepath.Join(dir, IgnoredConceptsFileName)},
		generatedFile: jsonFile[models.GeneratedProblem]{path: filepath.Join(dir, GeneratedProblemsFileName)},
	}
	for _, o := range opts {
		o(s)
	}

	s.notes = s.notesFile.load()
	for _, n := range s.notes {
		if n.Timestamp.After(s.lastTS) {
			s.lastTS = n.Timestamp
		}
	}
	s.ignored = s.ignoredFile.load()
	s.generated = s.generatedFile.load()

	slog.Debug("Store opened", "dir", dir, "notes", len(s.notes), "ignored", len(s.ignored), "generated", len(s.generated))
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}
