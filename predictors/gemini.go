package predictors

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

const continuePrompt = "Continue the following text with at most a few words. " +
	"Reply with the continuation only, including a leading space when one is needed.\n\n"

// Gemini completes text with Google's Gemini API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

func NewGemini(ctx context.Context, cc *genai.ClientConfig, model string, maxTokens int32) (*Gemini, error) {
	if cc == nil || cc.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cc.Backend == genai.BackendUnspecified {
		cc.Backend = genai.BackendGeminiAPI
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if maxTokens <= 0 {
		maxTokens = 8
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, model: model, maxTokens: maxTokens}, nil
}

func (p *Gemini) Predict(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(continuePrompt+text),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0),
			MaxOutputTokens: p.maxTokens,
		})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
