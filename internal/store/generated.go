package store

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/coft-dev/coft/internal/models"
)

// AddGeneratedProblem persists p. A missing ID is filled with a UUIDv7 and a
// zero timestamp with the current time.
func (s *Store) AddGeneratedProblem(p models.GeneratedProblem) (models.GeneratedProblem, error) {
	if p.ID == "" {
		id, err := s.newID()
		if err != nil {
			return models.GeneratedProblem{}, fmt.Errorf("generating problem id: %w", err)
		}
		p.ID = id.String()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = s.now().UTC()
	}

	s.generatedMu.Lock()
	defer s.generatedMu.Unlock()

	if slices.ContainsFunc(s.generated, func(g models.GeneratedProblem) bool { return g.ID == p.ID }) {
		return models.GeneratedProblem{}, fmt.Errorf("generated problem %s already exists", p.ID)
	}

	s.generated = append(s.generated, p)
	if err := s.generatedFile.save(s.generated); err != nil {
		s.generated = s.generated[:len(s.generated)-1]
		slog.Error("Failed to save generated problem", "id", p.ID, "error", err)
		return models.GeneratedProblem{}, fmt.Errorf("saving generated problem: %w", err)
	}
	return p, nil
}

// GeneratedProblems returns every generated problem in creation order.
func (s *Store) GeneratedProblems() []models.GeneratedProblem {
	s.generatedMu.RLock()
	defer s.generatedMu.RUnlock()
	return slices.Clone(s.generated)
}

// GeneratedIDs returns the IDs of the generated problems that still exist.
func (s *Store) GeneratedIDs() []string {
	s.generatedMu.RLock()
	defer s.generatedMu.RUnlock()

	ids := make([]string, 0, len(s.generated))
	for _, g := range s.generated {
		ids = append(ids, g.ID)
	}
	return ids
}

// GeneratedProblem returns the generated problem with the given ID.
func (s *Store) GeneratedProblem(id string) (models.GeneratedProblem, error) {
	s.generatedMu.RLock()
	defer s.generatedMu.RUnlock()

	i := s.generatedIndex(id)
	if i < 0 {
		return models.GeneratedProblem{}, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	return s.generated[i], nil
}

func (s *Store) generatedIndex(id string) int {
	return slices.IndexFunc(s.generated, func(g models.GeneratedProblem) bool { return g.ID == id })
}

// DeleteGeneratedProblem removes a generated problem. Its notes stay; they
// are filtered out when concepts are aggregated. Unknown IDs are a no-op.
func (s *Store) DeleteGeneratedProblem(id string) error {
	s.generatedMu.Lock()
	defer s.generatedMu.Unlock()

	i := s.generatedIndex(id)
	if i < 0 {
		return nil
	}
	prev := slices.Clone(s.generated)
	s.generated = slices.Delete(s.generated, i, i+1)
	if err := s.generatedFile.save(s.generated); err != nil {
		s.generated = prev
		slog.Error("Failed to delete generated problem", "id", id, "error", err)
		return fmt.Errorf("deleting generated problem: %w", err)
	}
	return nil
}

// CacheTab stores rendered content for one tab of a generated problem.
func (s *Store) CacheTab(id, tab, content string) error {
	s.generatedMu.Lock()
	defer s.generatedMu.Unlock()

	i := s.generatedIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}

	prev := s.generated[i].CachedTabs
	tabs := make(map[string]string, len(prev)+1)
	for k, v := range prev {
		tabs[k] = v
	}
	tabs[tab] = content
	s.generated[i].CachedTabs = tabs

	if err := s.generatedFile.save(s.generated); err != nil {
		s.generated[i].CachedTabs = prev
		slog.Warn("Failed to cache tab", "id", id, "tab", tab, "error", err)
		return fmt.Errorf("caching tab: %w", err)
	}
	return nil
}
