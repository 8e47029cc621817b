package classifier

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator asks the Gemini API to classify a message, sending
// the fixed instruction block and the user text as one prompt.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator fails when the API key is empty: a missing
// credential is a deployment defect, not a user-input problem.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("classifier: gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: failed to create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, userText string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(systemInstructions+"\nUser: "+userText),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return "", fmt.Errorf("classifier: generate content: %w", err)
	}
	return resp.Text(), nil
}

var _ Generator = (*GeminiGenerator)(nil)
