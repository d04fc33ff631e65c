package main

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/iw2rmb/ghostline/internal/config"
	"github.com/iw2rmb/ghostline/predict"
	"github.com/iw2rmb/ghostline/predictors"
)

// counterDelay is how long the local counter takes to "think".
const counterDelay = 300 * time.Millisecond

// remotePredictor builds the predictor the config selects, bounded by the
// configured per-request timeout.
func remotePredictor(ctx context.Context, c *config.Config) (predict.Func, error) {
	var get predict.Func
	p := c.Provider

	switch p.Name {
	case "counter":
		get = predictors.NewCounter(counterDelay).Predict
	case "openai":
		var opts []option.RequestOption
		if p.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(p.BaseURL))
		}
		get = predictors.NewOpenAI(p.APIKey, p.Model, int64(p.MaxTokens), opts...).Predict
	case "gemini":
		cc := &genai.ClientConfig{APIKey: p.APIKey}
		if p.BaseURL != "" {
			cc.HTTPOptions.BaseURL = p.BaseURL
		}
		g, err := predictors.NewGemini(ctx, cc, p.Model, int32(p.MaxTokens))
		if err != nil {
			return nil, err
		}
		get = g.Predict
	default:
		return nil, fmt.Errorf("unknown provider %q", p.Name)
	}

	return withTimeout(get, c.TimeoutDuration()), nil
}

func withTimeout(get predict.Func, d time.Duration) predict.Func {
	return func(ctx context.Context, value string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return get(ctx, value)
	}
}

// counterConfig is the orange single-line field of the demo. It keeps the
// default debounce.
func counterConfig(c *config.Config, log *zap.Logger) predict.Config {
	pc := c.PredictConfig(predictors.NewCounter(counterDelay).Predict)
	pc.Debounce = 0
	pc.Color = "orange"
	pc.Logger = log.Named("counter")
	return pc
}
