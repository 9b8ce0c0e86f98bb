package ai

import (
	"context"

	"google.golang.org/genai"
)

//go:generate go tool mockgen -source=genai_wrappers.go -destination=mocks_test.go -package=ai

// genaiModels is just an interface over [*genai.Models]
type genaiModels interface {
	// GenerateContent maps to [genai.Models.GenerateContent]
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
