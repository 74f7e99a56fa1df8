// Package assistant talks to the hosted chat-completion model used by the
// chatbot and the recommendation feature.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

var (
	// ErrNotConfigured is returned when no model client was set up.
	ErrNotConfigured = errors.New("assistant client not initialized")
	// ErrModelUnavailable is returned when the configured model is retired or unknown.
	ErrModelUnavailable = errors.New("selected model is unavailable")
	// ErrEmptyResponse is returned when the model answers without content.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Params are the decoding settings of a request.
type Params struct {
	Temperature     float64
	MaxTokens       int
	TopP            float64
	PresencePenalty float64
}

// ChatParams are used for chatbot conversations.
var ChatParams = Params{Temperature: 0.7, MaxTokens: 1000, TopP: 0.9, PresencePenalty: 0.1}

// RecommendParams are used for personalised recommendations.
var RecommendParams = Params{Temperature: 0.7, MaxTokens: 2000}

// Options configure the remote endpoint.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client sends message transcripts to the model. A nil *Client is valid and
// reports ErrNotConfigured on every call.
type Client struct {
	llm   llms.Model
	model string
}

// NewClient creates a client for an OpenAI-compatible endpoint.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	llm, err := openai.New(
		openai.WithToken(opts.APIKey),
		openai.WithBaseURL(opts.BaseURL),
		openai.WithModel(opts.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}
	return &Client{llm: llm, model: opts.Model}, nil
}

// NewWithModel wraps an existing model implementation.
func NewWithModel(llm llms.Model, model string) *Client {
	return &Client{llm: llm, model: model}
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// Configured reports whether the client can issue requests.
func (c *Client) Configured() bool {
	return c != nil && c.llm != nil
}

// Complete sends messages, in order, and returns the generated text.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage, p Params) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}

	opts := []llms.CallOption{
		llms.WithTemperature(p.Temperature),
		llms.WithMaxTokens(p.MaxTokens),
	}
	if p.TopP > 0 {
		opts = append(opts, llms.WithTopP(p.TopP))
	}
	if p.PresencePenalty != 0 {
		opts = append(opts, llms.WithPresencePenalty(p.PresencePenalty))
	}

	resp, err := c.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", classify(err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}

	log.Debug().Str("model", c.model).Int("messages", len(messages)).Msg("Model call successful")
	return resp.Choices[0].Content, nil
}

func messageType(role models.Role) schema.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return schema.ChatMessageTypeSystem
	case models.RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

func classify(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "model_decommissioned") || strings.Contains(msg, "model_not_found") {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return fmt.Errorf("model request failed: %w", err)
}
