package translate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// GeminiTranslator translates through the Gemini generate content API.
type GeminiTranslator struct {
	Model string
	// Generate sends a prompt and returns the model's text answer.
	Generate func(ctx context.Context, prompt string) (string, error)
}

// NewGeminiTranslator creates a translator backed by the Gemini API.
func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
You are a translation engine for a stock market dashboard.
Translate the user text into the requested language.
Answer with the translation only, without quotes, notes or explanations.
Keep ticker symbols, company names and numbers unchanged.
`}}},
	}
	log.Printf("[INFO] gemini translator ready (model %s)", model)
	return &GeminiTranslator{
		Model: model,
		Generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		},
	}, nil
}

func (g *GeminiTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	prompt := fmt.Sprintf("Target language: %s\n\n%s", target, text)
	out, err := g.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini translate: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("gemini translate: empty answer")
	}
	return out, nil
}
