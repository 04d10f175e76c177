package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient adapts the Google GenAI SDK to the Completer interface.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}

	return &GeminiClient{client: client, modelName: model}, nil
}

func (g *GeminiClient) Model() string {
	return g.modelName
}

// Complete performs exactly one generation call against the Gemini API.
func (g *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, jsonMode bool) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	if jsonMode {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content failed: %v", ErrTransport, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: gemini returned nil response", ErrTransport)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini response contained no text", ErrTransport)
	}

	return text, nil
}
