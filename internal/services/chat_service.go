package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/recipe-collection-be/internal/assistant"
	"github.com/isdelr/recipe-collection-be/internal/metrics"
	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/isdelr/recipe-collection-be/internal/session"
	"github.com/rs/zerolog/log"
)

const (
	// ApologyNotConfigured is the reply when no model client is available.
	ApologyNotConfigured = "I apologize, but I'm having trouble connecting to the AI service."
	// ApologyFailed is the reply when a model call fails.
	ApologyFailed = "I apologize, but I'm having trouble processing your request. Please try again."
)

var (
	// ErrEmptyMessage is returned for blank chat input.
	ErrEmptyMessage = &ValidationError{Message: "Message must not be empty"}
	// ErrTurnAborted is returned when ctx ends while waiting for an earlier turn.
	// Nothing is recorded in that case.
	ErrTurnAborted = errors.New("chat turn aborted")
)

// Completer sends a transcript to the model.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, messages []models.ChatMessage, p assistant.Params) (string, error)
}

// ChatServiceProvider defines the interface for the chatbot.
type ChatServiceProvider interface {
	Respond(ctx context.Context, sess *session.Session, message string) (string, error)
}

// ChatService runs chatbot turns against a session transcript.
type ChatService struct {
	client  Completer
	timeout time.Duration
}

// NewChatService creates a new ChatService. A zero timeout leaves calls bounded only by ctx.
func NewChatService(client Completer, timeout time.Duration) *ChatService {
	return &ChatService{client: client, timeout: timeout}
}

// Respond records message as a user turn, sends the whole transcript and
// records the reply. Turns on one session run one at a time. On failure it
// returns an apology together with the cause; the apology is shown in the chat
// history while the transcript ends with the user turn.
func (s *ChatService) Respond(ctx context.Context, sess *session.Session, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if s.client == nil || !s.client.Configured() {
		metrics.ChatRequestsTotal.WithLabelValues("unconfigured").Inc()
		return ApologyNotConfigured, assistant.ErrNotConfigured
	}

	release, err := sess.AcquireChat(ctx)
	if err != nil {
		return ApologyFailed, fmt.Errorf("%w: %w", ErrTurnAborted, err)
	}
	defer release()

	transcript := sess.BeginChat(message)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.client.Complete(ctx, transcript, assistant.ChatParams)
	metrics.ModelRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		result := "error"
		if errors.Is(err, assistant.ErrModelUnavailable) {
			result = "unavailable"
		}
		metrics.ChatRequestsTotal.WithLabelValues(result).Inc()
		log.Error().Err(err).Str("session_id", sess.ID()).Msg("Error getting chatbot response")
		sess.FailChat(ApologyFailed)
		return ApologyFailed, err
	}

	sess.CompleteChat(reply)
	metrics.ChatRequestsTotal.WithLabelValues("success").Inc()
	return reply, nil
}
