package store

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/coft-dev/coft/internal/models"
)

const archiveVersion = 1

// archive is the zstd-compressed JSON snapshot written by Export.
type archive struct {
	Version           int                       `json:"version"`
	ExportedAt        time.Time                 `json:"exported_at"`
	Notes             []models.Note             `json:"notes"`
	IgnoredConcepts   []string                  `json:"ignored_concepts"`
	GeneratedProblems []models.GeneratedProblem `json:"generated_problems"`
}

// ImportStats counts what an import added.
type ImportStats struct {
	Notes             int
	IgnoredConcepts   int
	GeneratedProblems int
}

// Export writes a compressed snapshot of all three collections to w.
func (s *Store) Export(w io.Writer) error {
	a := archive{
		Version:           archiveVersion,
		ExportedAt:        s.now().UTC(),
		Notes:             s.AllNotes(),
		IgnoredConcepts:   s.IgnoredConcepts(),
		GeneratedProblems: s.GeneratedProblems(),
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating archive encoder: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(a); err != nil {
		_ = enc.Close()
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

// Import merges an archive written by Export into the store. Notes are
// matched by timestamp and generated problems by ID; entries already present
// are kept as they are.
func (s *Store) Import(r io.Reader) (ImportStats, error) {
	var stats ImportStats

	dec, err := zstd.NewReader(r)
	if err != nil {
		return stats, fmt.Errorf("opening archive: %w", err)
	}
	defer dec.Close()

	var a archive
	if err := json.NewDecoder(dec).Decode(&a); err != nil {
		return stats, fmt.Errorf("reading archive: %w", err)
	}
	if a.Version != archiveVersion {
		return stats, fmt.Errorf("unsupported archive version %d", a.Version)
	}

	if stats.Notes, err = s.importNotes(a.Notes); err != nil {
		return stats, err
	}
	known := s.IgnoredConcepts()
	for _, name := range a.IgnoredConcepts {
		key := models.NormalizeConceptName(name)
		if key == "" || slices.Contains(known, key) {
			continue
		}
		if err := s.IgnoreConcept(key); err != nil {
			return stats, err
		}
		known = append(known, key)
		stats.IgnoredConcepts++
	}
	if stats.GeneratedProblems, err = s.importGenerated(a.GeneratedProblems); err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *Store) importNotes(notes []models.Note) (int, error) {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()

	prev := slices.Clone(s.notes)
	prevLast := s.lastTS
	added := 0
	for _, n := range notes {
		if s.indexOf(n.Timestamp) >= 0 {
			continue
		}
		s.notes = append(s.notes, n)
		if n.Timestamp.After(s.lastTS) {
			s.lastTS = n.Timestamp
		}
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := s.notesFile.save(s.notes); err != nil {
		s.notes = prev
		s.lastTS = prevLast
		return 0, fmt.Errorf("saving imported notes: %w", err)
	}
	return added, nil
}

func (s *Store) importGenerated(problems []models.GeneratedProblem) (int, error) {
	s.generatedMu.Lock()
	defer s.generatedMu.Unlock()

	prev := slices.Clone(s.generated)
	added := 0
	for _, p := range problems {
		if p.ID == "" || s.generatedIndex(p.ID) >= 0 {
			continue
		}
		s.generated = append(s.generated, p)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := s.generatedFile.save(s.generated); err != nil {
		s.generated = prev
		return 0, fmt.Errorf("saving imported problems: %w", err)
	}
	return added, nil
}
