// Package ai is the client for the text-generation service that analyses
// mistakes, explains concepts and generates practice problems.
package ai

import (
	"context"
	"errors"

	"github.com/coft-dev/coft/internal/models"
)

//go:generate go tool mockgen -source=service.go -destination=../workbench/mock_ai_test.go -package=workbench -mock_names=Service=MockAIService

var (
	// ErrNotConfigured is returned when no API key is available.
	ErrNotConfigured = errors.New("AI service is not configured")
	// ErrEmptyResponse is returned when the model answered with no text.
	ErrEmptyResponse = errors.New("AI service returned an empty response")
)

// AnalysisRequest is everything the service sees about a failed attempt.
type AnalysisRequest struct {
	ProblemID string
	Code      string
	Results   *models.ResultDocument

	// HistoricalPatterns are the pattern analyses of earlier notes, used to
	// spot repeated mistakes.
	HistoricalPatterns []string
}

// Verification is the service's judgement of a solution to a generated
// problem, which has no harness testcases.
type Verification struct {
	IsPass bool   `json:"isPass"`
	Report string `json:"report"`
}

// Service is the AI collaborator. Every call may fail and can be retried;
// none of them touch notes or runs.
type Service interface {
	AnalyzeFailure(ctx context.Context, req AnalysisRequest) (*models.AIAnalysis, error)
	ExplainConcepts(ctx context.Context, problemID, description string) (string, error)
	RecommendRelated(ctx context.Context, problemID string) (string, error)
	GenerateProblem(ctx context.Context, difficulty string) (*models.GeneratedProblem, error)
	VerifySolution(ctx context.Context, problem *models.GeneratedProblem, code string) (*Verification, error)
	PlanCurriculum(ctx context.Context, concepts []models.WeakConcept) (string, error)
}
