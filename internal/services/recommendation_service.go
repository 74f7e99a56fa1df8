package services

import (
	"context"
	"time"

	"github.com/isdelr/recipe-collection-be/internal/assistant"
	"github.com/isdelr/recipe-collection-be/internal/metrics"
	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/rs/zerolog/log"
)

// RecommendationServiceProvider defines the interface for personalised recommendations.
type RecommendationServiceProvider interface {
	Recommend(ctx context.Context, user models.User) ([]models.RecommendedRecipe, error)
}

// RecommendationService asks the model for recipes matching a user's profile.
type RecommendationService struct {
	client  Completer
	timeout time.Duration
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(client Completer, timeout time.Duration) *RecommendationService {
	return &RecommendationService{client: client, timeout: timeout}
}

// Recommend returns up to three recipes for user. The list is empty, never nil,
// when the model is unavailable or its answer cannot be parsed; err reports the cause.
func (s *RecommendationService) Recommend(ctx context.Context, user models.User) ([]models.RecommendedRecipe, error) {
	empty := []models.RecommendedRecipe{}
	if s.client == nil || !s.client.Configured() {
		metrics.RecommendationRequestsTotal.WithLabelValues("error").Inc()
		return empty, assistant.ErrNotConfigured
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.client.Complete(ctx, assistant.RecommendationMessages(user.Profile()), assistant.RecommendParams)
	metrics.ModelRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecommendationRequestsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("username", user.Username).Msg("Error getting recommendations")
		return empty, err
	}

	recipes := assistant.ParseRecommendations(text)
	if len(recipes) == 0 {
		metrics.RecommendationRequestsTotal.WithLabelValues("empty").Inc()
		log.Warn().Str("username", user.Username).Msg("Model answer contained no recognisable recipes")
		return recipes, nil
	}
	metrics.RecommendationRequestsTotal.WithLabelValues("success").Inc()
	return recipes, nil
}
