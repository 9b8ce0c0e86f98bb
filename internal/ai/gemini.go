package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/coft-dev/coft/internal/models"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const defaultTimeout = 120 * time.Second

// Config configures a [GeminiService].
type Config struct {
	APIKey string
	Model  string
	// Locale selects the answer language: "ko" or "en".
	Locale  string
	Timeout time.Duration
}

// GeminiService implements [Service] on the Gemini API.
type GeminiService struct {
	models  genaiModels
	model   string
	locale  string
	timeout time.Duration
}

// NewGeminiService creates a client for the Gemini API.
func NewGeminiService(ctx context.Context, cfg Config) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiService(client.Models, cfg), nil
}

func newGeminiService(m genaiModels, cfg Config) *GeminiService {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GeminiService{models: m, model: model, locale: cfg.Locale, timeout: timeout}
}

// generate sends one user prompt and returns the response text.
func (g *GeminiService) generate(ctx context.Context, op, prompt string, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var config *genai.GenerateContentConfig
	if jsonMode {
		config = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, config)
	if err != nil {
		slog.Warn("AI request failed", "op", op, "model", g.model, "error", err)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	text := strings.TrimSpace(resp.Text())
	slog.Debug("AI request finished", "op", op, "model", g.model, "chars", len(text), "elapsed", time.Since(start))
	if text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return text, nil
}

func (g *GeminiService) generateJSON(ctx context.Context, op, prompt string, out any) error {
	text, err := g.generate(ctx, op, prompt, true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripFence(text)), out); err != nil {
		slog.Warn("AI response is not the requested JSON", "op", op, "error", err)
		return fmt.Errorf("%s: parsing response: %w", op, err)
	}
	return nil
}

func (g *GeminiService) generateHTML(ctx context.Context, op, prompt string) (string, error) {
	text, err := g.generate(ctx, op, prompt, false)
	if err != nil {
		return "", err
	}
	return stripFence(text), nil
}

// stripFence returns the body of the first fenced code block in raw, or raw
// itself when it has none.
func stripFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	start := strings.Index(trimmed, "```")
	if start < 0 {
		return trimmed
	}

	rest := trimmed[start+3:]
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		return strings.TrimSpace(rest[:end])
	}
	return trimmed
}

// AnalyzeFailure explains why an attempt failed and which concepts to review.
func (g *GeminiService) AnalyzeFailure(ctx context.Context, req AnalysisRequest) (*models.AIAnalysis, error) {
	results, err := json.MarshalIndent(req.Results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding results: %w", err)
	}
	history, err := json.Marshal(orEmpty(req.HistoricalPatterns))
	if err != nil {
		return nil, fmt.Errorf("encoding history: %w", err)
	}

	prompt, err := render(analysisPrompt, g.promptData(map[string]any{
		"ProblemID": req.ProblemID,
		"Code":      req.Code,
		"Results":   string(results),
		"History":   string(history),
	}))
	if err != nil {
		return nil, err
	}

	var analysis models.AIAnalysis
	if err := g.generateJSON(ctx, "analyze failure", prompt, &analysis); err != nil {
		return nil, err
	}
	if analysis.ConceptSummary.Concepts == nil {
		analysis.ConceptSummary.Concepts = []models.Concept{}
	}
	return &analysis, nil
}

// ExplainConcepts describes the concepts a problem relies on, as HTML.
func (g *GeminiService) ExplainConcepts(ctx context.Context, problemID, description string) (string, error) {
	prompt, err := render(conceptsPrompt, g.promptData(map[string]any{
		"ProblemID":   problemID,
		"Description": description,
	}))
	if err != nil {
		return "", err
	}
	return g.generateHTML(ctx, "explain concepts", prompt)
}

// RecommendRelated suggests easier related problems, as HTML.
func (g *GeminiService) RecommendRelated(ctx context.Context, problemID string) (string, error) {
	prompt, err := render(relatedPrompt, g.promptData(map[string]any{"ProblemID": problemID}))
	if err != nil {
		return "", err
	}
	return g.generateHTML(ctx, "recommend related", prompt)
}

// GenerateProblem asks for a new practice problem. The returned problem has
// no ID yet; the store assigns one.
func (g *GeminiService) GenerateProblem(ctx context.Context, difficulty string) (*models.GeneratedProblem, error) {
	prompt, err := render(generatePrompt, g.promptData(map[string]any{"Difficulty": difficulty}))
	if err != nil {
		return nil, err
	}

	var p models.GeneratedProblem
	if err := g.generateJSON(ctx, "generate problem", prompt, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("generate problem: response has no title")
	}
	p.ID = ""
	p.Difficulty = difficulty
	p.CachedTabs = nil
	return &p, nil
}

// VerifySolution judges code against a generated problem.
func (g *GeminiService) VerifySolution(ctx context.Context, problem *models.GeneratedProblem, code string) (*Verification, error) {
	prompt, err := render(verifyPrompt, g.promptData(map[string]any{
		"Title":         problem.Title,
		"Problem":       problem.HTMLContent,
		"SolutionLogic": problem.SolutionLogic,
		"Code":          code,
	}))
	if err != nil {
		return nil, err
	}

	var v Verification
	if err := g.generateJSON(ctx, "verify solution", prompt, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// PlanCurriculum builds a study plan around the user's weakest concepts.
func (g *GeminiService) PlanCurriculum(ctx context.Context, concepts []models.WeakConcept) (string, error) {
	if len(concepts) == 0 {
		return "", fmt.Errorf("plan curriculum: no weak concepts to plan around")
	}
	prompt, err := render(curriculumPrompt, g.promptData(map[string]any{"Concepts": concepts}))
	if err != nil {
		return "", err
	}
	return g.generateHTML(ctx, "plan curriculum", prompt)
}

func (g *GeminiService) promptData(fields map[string]any) map[string]any {
	fields["Language"] = languageName(g.locale)
	return fields
}

func languageName(locale string) string {
	switch strings.ToLower(locale) {
	case "", "ko", "ko-kr":
		return "Korean (polite form)"
	default:
		return "English"
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
