package store

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/coft-dev/coft/internal/models"
)

// IgnoreConcept adds name, normalized, to the ignore list. Ignoring a concept
// twice is a no-op.
func (s *Store) IgnoreConcept(name string) error {
	key := models.NormalizeConceptName(name)
	if key == "" {
		return ErrEmptyConcept
	}

	s.ignoredMu.Lock()
	defer s.ignoredMu.Unlock()

	if slices.Contains(s.ignored, key) {
		return nil
	}
	s.ignored = append(s.ignored, key)
	if err := s.ignoredFile.save(s.ignored); err != nil {
		s.ignored = s.ignored[:len(s.ignored)-1]
		slog.Error("Failed to save ignored concepts", "concept", key, "error", err)
		return fmt.Errorf("saving ignored concepts: %w", err)
	}
	return nil
}

// UnignoreConcept removes name from the ignore list, if present.
func (s *Store) UnignoreConcept(name string) error {
	key := models.NormalizeConceptName(name)

	s.ignoredMu.Lock()
	defer s.ignoredMu.Unlock()

	i := slices.Index(s.ignored, key)
	if i < 0 {
		return nil
	}
	prev := slices.Clone(s.ignored)
	s.ignored = slices.Delete(s.ignored, i, i+1)
	if err := s.ignoredFile.save(s.ignored); err != nil {
		s.ignored = prev
		slog.Error("Failed to save ignored concepts", "concept", key, "error", err)
		return fmt.Errorf("saving ignored concepts: %w", err)
	}
	return nil
}

// IgnoredConcepts returns the normalized ignore list in insertion order.
func (s *Store) IgnoredConcepts() []string {
	s.ignoredMu.RLock()
	defer s.ignoredMu.RUnlock()
	return slices.Clone(s.ignored)
}
