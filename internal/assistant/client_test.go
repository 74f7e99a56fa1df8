package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, o := range options {
		o(&f.opts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	c, err := NewClient(Options{APIKey: "  ", BaseURL: "https://api.groq.com/openai/v1", Model: "llama-3.3-70b-versatile"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, c)
}

func TestNilClient(t *testing.T) {
	var c *Client
	assert.False(t, c.Configured())
	assert.Empty(t, c.Model())

	_, err := c.Complete(context.Background(), nil, ChatParams)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestComplete_SendsMessagesInOrder(t *testing.T) {
	fake := &fakeModel{reply: "Use a gentle simmer."}
	c := NewWithModel(fake, "test-model")

	out, err := c.Complete(context.Background(), []models.ChatMessage{
		{Role: models.RoleSystem, Content: "sys"},
		{Role: models.RoleUser, Content: "q1"},
		{Role: models.RoleAssistant, Content: "a1"},
		{Role: models.RoleUser, Content: "q2"},
	}, ChatParams)
	require.NoError(t, err)
	assert.Equal(t, "Use a gentle simmer.", out)

	require.Len(t, fake.messages, 4)
	roles := []schema.ChatMessageType{}
	for _, m := range fake.messages {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []schema.ChatMessageType{
		schema.ChatMessageTypeSystem,
		schema.ChatMessageTypeHuman,
		schema.ChatMessageTypeAI,
		schema.ChatMessageTypeHuman,
	}, roles)
	assert.Equal(t, llms.TextContent{Text: "q2"}, fake.messages[3].Parts[0])

	assert.InDelta(t, 0.7, fake.opts.Temperature, 1e-9)
	assert.Equal(t, 1000, fake.opts.MaxTokens)
	assert.InDelta(t, 0.9, fake.opts.TopP, 1e-9)
	assert.InDelta(t, 0.1, fake.opts.PresencePenalty, 1e-9)
}

func TestComplete_RecommendParams(t *testing.T) {
	fake := &fakeModel{reply: "ok"}
	c := NewWithModel(fake, "test-model")

	_, err := c.Complete(context.Background(), RecommendationMessages(models.Profile{}), RecommendParams)
	require.NoError(t, err)
	assert.Equal(t, 2000, fake.opts.MaxTokens)
	assert.Zero(t, fake.opts.TopP)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		model   *fakeModel
		wantErr error
	}{
		{"decommissioned", &fakeModel{err: errors.New(`400: {"code":"model_decommissioned"}`)}, ErrModelUnavailable},
		{"not found", &fakeModel{err: errors.New("model_not_found")}, ErrModelUnavailable},
		{"empty", &fakeModel{reply: "   "}, ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithModel(tt.model, "m").Complete(context.Background(), nil, ChatParams)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	cause := errors.New("connection refused")
	_, err := NewWithModel(&fakeModel{err: cause}, "m").Complete(context.Background(), nil, ChatParams)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrModelUnavailable)
}

func TestRecommendationPrompt_IncludesProfile(t *testing.T) {
	p := models.Profile{
		FavoriteCuisine:       "Thai",
		DietaryRestrictions:   "Vegetarian,Gluten-Free",
		PreferredIngredients:  "tofu",
		IngredientsToAvoid:    "peanuts",
		CookingSkill:          "Beginner",
		FavoriteMeal:          "Dinner",
		SpiceLevel:            "Hot",
		CookingTimePreference: "Under 30 minutes",
	}
	msgs := RecommendationMessages(p)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleSystem, msgs[0].Role)
	assert.Equal(t, RecommendSystemPrompt, msgs[0].Content)

	prompt := msgs[1].Content
	for _, want := range []string{"Thai", "Vegetarian,Gluten-Free", "tofu", "peanuts", "Beginner", "Dinner", "Hot", "Under 30 minutes", "3 personalized recipe"} {
		assert.Contains(t, prompt, want)
	}
}
