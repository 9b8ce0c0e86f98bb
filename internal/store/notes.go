package store

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/coft-dev/coft/internal/models"
)

// nextTimestamp returns a timestamp strictly after every note already
// stored, so timestamps stay unique keys even when the clock stalls.
// Callers hold notesMu.
func (s *Store) nextTimestamp() time.Time {
	ts := s.now().UTC()
	if !ts.After(s.lastTS) {
		ts = s.lastTS.Add(time.Nanosecond)
	}
	return ts
}

// AddNote records a mistake note for problemID and persists it. If the write
// fails the note is dropped again and the error returned.
func (s *Store) AddNote(problemID, code string, doc *models.ResultDocument) (models.Note, error) {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()

	note := models.Note{
		ProblemID: problemID,
		Timestamp: s.nextTimestamp(),
		Code:      code,
		Results:   doc,
	}

	prevLast := s.lastTS
	s.notes = append(s.notes, note)
	s.lastTS = note.Timestamp

	if err := s.notesFile.save(s.notes); err != nil {
		s.notes = s.notes[:len(s.notes)-1]
		s.lastTS = prevLast
		slog.Error("Failed to save note", "problem", problemID, "error", err)
		return models.Note{}, fmt.Errorf("saving note: %w", err)
	}

	slog.Debug("Note added", "problem", problemID, "timestamp", note.Key())
	return note, nil
}

// Notes returns the notes of one problem, newest first.
func (s *Store) Notes(problemID string) []models.Note {
	s.notesMu.RLock()
	defer s.notesMu.RUnlock()

	var out []models.Note
	for _, n := range s.notes {
		if n.ProblemID == problemID {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Note) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

// AllNotes returns a copy of every note in no particular order.
func (s *Store) AllNotes() []models.Note {
	s.notesMu.RLock()
	defer s.notesMu.RUnlock()
	return slices.Clone(s.notes)
}

// Note returns the note stored under ts.
func (s *Store) Note(ts time.Time) (models.Note, error) {
	s.notesMu.RLock()
	defer s.notesMu.RUnlock()

	i := s.indexOf(ts)
	if i < 0 {
		return models.Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, models.FormatNoteKey(ts))
	}
	return s.notes[i], nil
}

func (s *Store) indexOf(ts time.Time) int {
	return slices.IndexFunc(s.notes, func(n models.Note) bool {
		return n.Timestamp.Equal(ts)
	})
}

// DeleteNote removes the note stored under ts. Deleting a note that doesn't
// exist does nothing.
func (s *Store) DeleteNote(ts time.Time) error {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()

	i := s.indexOf(ts)
	if i < 0 {
		return nil
	}

	prev := slices.Clone(s.notes)
	s.notes = slices.Delete(s.notes, i, i+1)
	if err := s.notesFile.save(s.notes); err != nil {
		s.notes = prev
		slog.Error("Failed to delete note", "timestamp", models.FormatNoteKey(ts), "error", err)
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

// SaveAIAnalysis attaches analysis to the note stored under ts. A note is
// analysed at most once; a missing note is logged and reported but is not
// fatal to the caller.
func (s *Store) SaveAIAnalysis(ts time.Time, analysis *models.AIAnalysis) error {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()

	key := models.FormatNoteKey(ts)
	i := s.indexOf(ts)
	if i < 0 {
		slog.Warn("No note to attach AI analysis to", "timestamp", key)
		return fmt.Errorf("%w: %s", ErrNoteNotFound, key)
	}
	if s.notes[i].AIAnalysis != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyAnalyzed, key)
	}

	s.notes[i].AIAnalysis = analysis
	if err := s.notesFile.save(s.notes); err != nil {
		s.notes[i].AIAnalysis = nil
		slog.Error("Failed to save AI analysis", "timestamp", key, "error", err)
		return fmt.Errorf("saving AI analysis: %w", err)
	}
	return nil
}
