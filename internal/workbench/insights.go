package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coft-dev/coft/internal/ai"
	"github.com/coft-dev/coft/internal/concepts"
	"github.com/coft-dev/coft/internal/models"
	"github.com/coft-dev/coft/internal/store"
)

// Tab names cached on generated problems.
const (
	TabConcepts = "concepts"
	TabRelated  = "related"
)

// Insights are the AI renderings shown next to a problem.
type Insights struct {
	Concepts string
	Related  string
}

// AnalyzeNote attaches an AI analysis to the note with timestamp ts. The
// pattern analyses of the other live notes are sent along so repeated
// mistakes can be recognised. On failure the note is left unanalysed.
func (s *Session) AnalyzeNote(ctx context.Context, ts time.Time) (models.Note, error) {
	svc, err := s.aiService()
	if err != nil {
		return models.Note{}, err
	}
	note, err := s.store.Note(ts)
	if err != nil {
		return models.Note{}, err
	}
	if note.AIAnalysis != nil {
		return note, store.ErrAlreadyAnalyzed
	}

	analysis, err := svc.AnalyzeFailure(ctx, ai.AnalysisRequest{
		ProblemID:          note.ProblemID,
		Code:               note.Code,
		Results:            note.Results,
		HistoricalPatterns: s.historicalPatterns(ts),
	})
	if err != nil {
		slog.Warn("AI analysis failed", "note", note.Key(), "error", err)
		return note, err
	}

	if err := s.store.SaveAIAnalysis(ts, analysis); err != nil {
		return note, err
	}
	note.AIAnalysis = analysis
	return note, nil
}

// AnalyzePending analyses every note that has no analysis yet and returns
// how many were analysed. It stops at the first AI failure.
func (s *Session) AnalyzePending(ctx context.Context) (int, error) {
	analysed := 0
	for _, n := range s.store.AllNotes() {
		if n.AIAnalysis != nil {
			continue
		}
		if _, err := s.AnalyzeNote(ctx, n.Timestamp); err != nil {
			if errors.Is(err, store.ErrAlreadyAnalyzed) {
				continue
			}
			return analysed, err
		}
		analysed++
	}
	return analysed, nil
}

func (s *Session) historicalPatterns(exclude time.Time) []string {
	var patterns []string
	for _, n := range concepts.LiveNotes(s.store.AllNotes(), s.store.GeneratedIDs()) {
		if n.Timestamp.Equal(exclude) || n.AIAnalysis == nil {
			continue
		}
		if p := strings.TrimSpace(n.AIAnalysis.PatternAnalysis); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// ProblemInsights explains the concepts behind a problem and recommends
// related ones. Both requests run concurrently. Results for generated
// problems are cached on the problem.
func (s *Session) ProblemInsights(ctx context.Context, problemID string) (*Insights, error) {
	svc, err := s.aiService()
	if err != nil {
		return nil, err
	}
	problemID, err = s.problemOrActive(problemID)
	if err != nil {
		return nil, err
	}

	var description string
	var cached map[string]string
	generatedID, generated := models.ParseGeneratedRef(problemID)
	if generated {
		p, err := s.store.GeneratedProblem(generatedID)
		if err != nil {
			return nil, err
		}
		description, cached = p.HTMLContent, p.CachedTabs
	} else {
		cat, err := s.Catalog()
		if err != nil {
			return nil, err
		}
		if description, err = cat.DescriptionMarkdown(problemID); err != nil {
			return nil, err
		}
	}

	insights := &Insights{Concepts: cached[TabConcepts], Related: cached[TabRelated]}
	g, gctx := errgroup.WithContext(ctx)
	if insights.Concepts == "" {
		g.Go(func() error {
			html, err := svc.ExplainConcepts(gctx, problemID, description)
			if err != nil {
				return fmt.Errorf("explaining concepts: %w", err)
			}
			insights.Concepts = html
			return nil
		})
	}
	if insights.Related == "" {
		g.Go(func() error {
			html, err := svc.RecommendRelated(gctx, problemID)
			if err != nil {
				return fmt.Errorf("recommending related problems: %w", err)
			}
			insights.Related = html
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if generated {
		s.cacheTab(generatedID, TabConcepts, insights.Concepts, cached)
		s.cacheTab(generatedID, TabRelated, insights.Related, cached)
	}
	return insights, nil
}

func (s *Session) cacheTab(id, tab, content string, cached map[string]string) {
	if cached[tab] == content {
		return
	}
	if err := s.store.CacheTab(id, tab, content); err != nil {
		slog.Warn("Failed to cache generated problem tab", "id", id, "tab", tab, "error", err)
	}
}

// Curriculum plans study around the n weakest concepts.
func (s *Session) Curriculum(ctx context.Context, n int) (string, []models.WeakConcept, error) {
	svc, err := s.aiService()
	if err != nil {
		return "", nil, err
	}
	weakest := concepts.Top(s.WeakConcepts(), n)
	if len(weakest) == 0 {
		return "", nil, ErrNoWeakConcepts
	}
	plan, err := svc.PlanCurriculum(ctx, weakest)
	if err != nil {
		return "", weakest, err
	}
	return plan, weakest, nil
}

// GenerateProblem asks the AI service for a new problem and stores it.
func (s *Session) GenerateProblem(ctx context.Context, difficulty string) (models.GeneratedProblem, error) {
	svc, err := s.aiService()
	if err != nil {
		return models.GeneratedProblem{}, err
	}
	p, err := svc.GenerateProblem(ctx, difficulty)
	if err != nil {
		return models.GeneratedProblem{}, err
	}
	return s.store.AddGeneratedProblem(*p)
}
