package models

import "strings"

// WeakConcept is an aggregated knowledge gap. It is derived from notes on
// every query and never persisted.
type WeakConcept struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tips  []string `json:"tips"`
}

// NormalizeConceptName is the only rule used to merge concept names: the text
// before the first '(' with surrounding whitespace removed. "Hash Map" and
// "Hash Map (data structure)" therefore share one key.
func NormalizeConceptName(name string) string {
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
