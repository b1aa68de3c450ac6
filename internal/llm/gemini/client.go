package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-parser/internal/llm"
)

// Client implements llm.Client using the Gemini API.
type Client struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, apiKey, model string, temperature float32, maxOutputTokens int32) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client:          client,
		model:           model,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
	}, nil
}

// Complete returns the raw model response for the prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &c.temperature,
		MaxOutputTokens: c.maxOutputTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("gemini returned nil response")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	return text, nil
}

var _ llm.Client = (*Client)(nil)
