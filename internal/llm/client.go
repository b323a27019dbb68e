// Package llm wraps the language-model provider behind a single
// "produce text given a prompt" capability, plus the prompt builders and the
// sectioned response splitter that sit on either side of it.
package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"aicmd/internal/config"
)

// systemPrompt frames every request.
const systemPrompt = "You are an expert command-line assistant focused on helping users " +
	"with terminal commands, error fixing, and system administration."

// Client is the opaque completion capability consumed by the processor.
type Client interface {
	// Complete returns the model's response text for a prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient talks to OpenAI or any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewOpenAIClient builds a client from configuration. It fails when no API
// key is available, since every request would fail anyway.
func NewOpenAIClient(cfg *config.Config, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("no API key configured: set OPENAI_API_KEY or api_key in config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Complete sends the prompt as a single-turn chat completion.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug("sending completion request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
