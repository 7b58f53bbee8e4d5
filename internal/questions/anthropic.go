package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured
const DefaultAnthropicModel = string(anthropic.ModelClaudeSonnet4_20250514)

// Anthropic generates questions with Claude
type Anthropic struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates a generator for the given key. Extra request options
// (base URL, retries) are passed through to the client.
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) (*Anthropic, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key required")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)

	return &Anthropic{
		client: &client,
		model:  model,
	}, nil
}

// Generate asks Claude for a question
func (g *Anthropic) Generate(ctx context.Context, field Field, docContext string) (Question, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(field, docContext))),
		},
	})
	if err != nil {
		return Question{}, fmt.Errorf("Claude API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return Question{}, errors.New("empty response from Claude")
	}

	return ParseResponse(text, field.Name), nil
}
