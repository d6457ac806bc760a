package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator is the concrete Generator backed by the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a Generator that calls the Gemini API.
//   - apiKey: your GEMINI_API_KEY
//   - model:  e.g. "gemini-2.5-flash"
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ai: Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends one prompt and returns the concatenated text of the reply.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("ai: generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("ai: no text content in response")
	}
	return text, nil
}
