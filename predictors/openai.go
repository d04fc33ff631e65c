package predictors

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/iw2rmb/ghostline"
)

const DefaultOpenAIModel = openai.CompletionNewParamsModelGPT3_5TurboInstruct

// OpenAI completes text with the legacy completions endpoint.
type OpenAI struct {
	client    openai.Client
	model     openai.CompletionNewParamsModel
	maxTokens int64
}

// NewOpenAI builds a predictor. opts are passed to the client, so tests
// can point it at a local server with option.WithBaseURL.
func NewOpenAI(apiKey, model string, maxTokens int64, opts ...option.RequestOption) *OpenAI {
	if model == "" {
		model = string(DefaultOpenAIModel)
	}
	if maxTokens <= 0 {
		maxTokens = 5
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHeader("User-Agent", ghostline.UserAgent()),
	}, opts...)
	return &OpenAI{
		client:    openai.NewClient(opts...),
		model:     openai.CompletionNewParamsModel(model),
		maxTokens: maxTokens,
	}
}

func (p *OpenAI) Predict(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	resp, err := p.client.Completions.New(ctx, openai.CompletionNewParams{
		Model:       p.model,
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(text)},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(p.maxTokens),
		TopP:        openai.Float(1),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: no choices")
	}
	return resp.Choices[0].Text, nil
}
