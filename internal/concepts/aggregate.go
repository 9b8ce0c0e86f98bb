// Package concepts derives weak-concept statistics from mistake notes.
package concepts

import (
	"slices"

	"github.com/coft-dev/coft/internal/models"
)

// ComputeWeakConcepts counts the concepts named by the AI analyses of notes.
//
// Notes of generated problems whose ID is not in liveGeneratedIDs are
// skipped. Names are merged only through [models.NormalizeConceptName];
// ignored and empty names are dropped. Each concept keeps its distinct tips
// in first-seen order. The result is sorted by count, highest first, with
// ties in first-seen order.
//
// The function only reads its arguments, so it is safe to call after every
// note mutation.
func ComputeWeakConcepts(notes []models.Note, ignoreList, liveGeneratedIDs []string) []models.WeakConcept {
	ignored := make(map[string]struct{}, len(ignoreList))
	for _, name := range ignoreList {
		ignored[models.NormalizeConceptName(name)] = struct{}{}
	}
	live := make(map[string]struct{}, len(liveGeneratedIDs))
	for _, id := range liveGeneratedIDs {
		live[id] = struct{}{}
	}

	var out []models.WeakConcept
	index := map[string]int{}

	for _, n := range notes {
		if !isLive(n.ProblemID, live) || n.AIAnalysis == nil {
			continue
		}
		for _, c := range n.AIAnalysis.ConceptSummary.Concepts {
			name := models.NormalizeConceptName(c.Name)
			if name == "" {
				continue
			}
			if _, skip := ignored[name]; skip {
				continue
			}

			i, seen := index[name]
			if !seen {
				i = len(out)
				index[name] = i
				out = append(out, models.WeakConcept{Name: name, Tips: []string{}})
			}
			out[i].Count++
			if c.Tip != "" && !slices.Contains(out[i].Tips, c.Tip) {
				out[i].Tips = append(out[i].Tips, c.Tip)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b models.WeakConcept) int {
		return b.Count - a.Count
	})
	return out
}

// LiveNotes drops notes that belong to generated problems that no longer
// exist.
func LiveNotes(notes []models.Note, liveGeneratedIDs []string) []models.Note {
	live := make(map[string]struct{}, len(liveGeneratedIDs))
	for _, id := range liveGeneratedIDs {
		live[id] = struct{}{}
	}
	var out []models.Note
	for _, n := range notes {
		if isLive(n.ProblemID, live) {
			out = append(out, n)
		}
	}
	return out
}

func isLive(problemID string, live map[string]struct{}) bool {
	id, generated := models.ParseGeneratedRef(problemID)
	if !generated {
		return true
	}
	_, ok := live[id]
	return ok
}

// Top returns at most n concepts from an already sorted list.
func Top(concepts []models.WeakConcept, n int) []models.WeakConcept {
	if n <= 0 || n >= len(concepts) {
		return concepts
	}
	return concepts[:n]
}
