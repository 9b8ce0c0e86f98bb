package models

import (
	"strings"
	"time"
)

// generatedRefPrefix marks note problem IDs that point at generated problems.
const generatedRefPrefix = "generated:"

// GeneratedProblem is a synthetic practice problem produced by the AI service.
type GeneratedProblem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Difficulty    string    `json:"difficulty"`
	HTMLContent   string    `json:"htmlContent"`
	StarterCode   string    `json:"starterCode"`
	SolutionLogic string    `json:"solutionLogic"`
	Timestamp     time.Time `json:"timestamp"`

	// CachedTabs holds rendered tab content keyed by tab name. It can always be
	// rebuilt and is never authoritative.
	CachedTabs map[string]string `json:"cachedTabs,omitempty"`
}

// Ref is the problem ID notes use for this generated problem.
func (p *GeneratedProblem) Ref() string {
	return GeneratedRef(p.ID)
}

// GeneratedRef builds the note problem ID for a generated problem.
func GeneratedRef(id string) string {
	return generatedRefPrefix + id
}

// ParseGeneratedRef extracts the generated problem ID from a note problem ID.
func ParseGeneratedRef(problemID string) (string, bool) {
	id, ok := strings.CutPrefix(problemID, generatedRefPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
