package questions

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Provider names
const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderFallback   = "fallback"
)

// DefaultTimeout bounds one model call
const DefaultTimeout = 15 * time.Second

// Options selects and configures a provider
type Options struct {
	Provider      string
	Model         string
	OpenRouterKey string
	OpenRouterURL string
	AnthropicKey  string
	Timeout       time.Duration
}

// New returns the generator named by opts.Provider. A provider without an
// API key degrades to the fallback templates instead of failing.
func New(opts Options, logger *zap.Logger) (Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		primary Generator
		err     error
	)
	switch opts.Provider {
	case ProviderOpenRouter, "":
		if opts.OpenRouterKey == "" {
			logger.Warn("No OpenRouter API key, using fallback questions")
			return Fallback{}, nil
		}
		primary, err = NewOpenRouter(opts.OpenRouterKey, opts.OpenRouterURL, opts.Model)
	case ProviderAnthropic:
		if opts.AnthropicKey == "" {
			logger.Warn("No Anthropic API key, using fallback questions")
			return Fallback{}, nil
		}
		primary, err = NewAnthropic(opts.AnthropicKey, opts.Model)
	case ProviderFallback:
		return Fallback{}, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: openrouter, anthropic, fallback)", opts.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithFallback(primary, opts.Timeout, logger), nil
}

// Resilient bounds each call of a model backed generator and answers with
// the fallback template whenever the model fails.
type Resilient struct {
	primary Generator
	timeout time.Duration
	logger  *zap.Logger
}

// WithFallback wraps primary. A zero timeout means DefaultTimeout.
func WithFallback(primary Generator, timeout time.Duration, logger *zap.Logger) *Resilient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resilient{primary: primary, timeout: timeout, logger: logger}
}

// Generate never returns an error
func (r *Resilient) Generate(ctx context.Context, field Field, docContext string) (Question, error) {
	r.logger.Debug("Generating question",
		zap.String("field", field.Name),
		zap.String("type", field.Type))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	q, err := r.primary.Generate(ctx, field, docContext)
	if err != nil {
		r.logger.Warn("Question generation failed, using fallback",
			zap.String("field", field.Name),
			zap.Error(err))
		return FallbackQuestion(field), nil
	}
	return q, nil
}
