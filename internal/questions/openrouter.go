package questions

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// OpenRouterBaseURL is the OpenAI compatible endpoint of OpenRouter
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	// DefaultOpenRouterModel is used when no model is configured
	DefaultOpenRouterModel = "mistralai/mistral-7b-instruct"

	temperature = 0.7
	maxTokens   = 150
)

// OpenRouter generates questions through an OpenAI compatible chat API
type OpenRouter struct {
	client *openai.Client
	model  string
}

// NewOpenRouter creates a generator for the given key. An empty baseURL
// selects OpenRouter itself.
func NewOpenRouter(apiKey, baseURL, model string) (*OpenRouter, error) {
	if apiKey == "" {
		return nil, errors.New("OpenRouter API key required")
	}
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &OpenRouter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Generate asks the model for a question
func (g *OpenRouter) Generate(ctx context.Context, field Field, docContext string) (Question, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(field, docContext),
			},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return Question{}, fmt.Errorf("OpenRouter API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Question{}, errors.New("empty response from OpenRouter")
	}

	return ParseResponse(resp.Choices[0].Message.Content, field.Name), nil
}
