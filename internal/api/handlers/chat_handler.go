package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/recipe-collection-be/internal/assistant"
	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/isdelr/recipe-collection-be/internal/services"
	"github.com/isdelr/recipe-collection-be/internal/session"
	ws "github.com/isdelr/recipe-collection-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

const (
	msgNotInitialized   = "Assistant client not initialized. Please check your API key."
	msgModelUnavailable = "The selected model is unavailable. Please update to a supported model."
)

// ChatHandler handles the chatbot and personalised recommendations.
type ChatHandler struct {
	chat            services.ChatServiceProvider
	recommendations services.RecommendationServiceProvider
	users           services.UserServiceProvider
	hub             *ws.Hub
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat services.ChatServiceProvider, recommendations services.RecommendationServiceProvider, users services.UserServiceProvider, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{chat: chat, recommendations: recommendations, users: users, hub: hub}
}

// ChatPayload is a message typed by the user.
type ChatPayload struct {
	Message string `json:"message"`
}

// ChatResponse is the outcome of one chatbot turn. Reply is always shown;
// Error carries the cause when the model could not answer.
type ChatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// RecommendationsResponse lists recommended recipes.
type RecommendationsResponse struct {
	Recipes []models.RecommendedRecipe `json:"recipes"`
	Error   string                     `json:"error,omitempty"`
}

func describe(err error) string {
	switch {
	case errors.Is(err, assistant.ErrNotConfigured):
		return msgNotInitialized
	case errors.Is(err, assistant.ErrModelUnavailable):
		return msgModelUnavailable
	default:
		return err.Error()
	}
}

// exchange runs one chatbot turn and pushes the new transcript turns to every
// socket of the session. It returns the response and its HTTP status.
func (h *ChatHandler) exchange(ctx context.Context, sess *session.Session, message string) (ChatResponse, int) {
	message = strings.TrimSpace(message)
	reply, err := h.chat.Respond(ctx, sess, message)
	if err == nil {
		h.push(sess.ID(), models.ChatMessage{Role: models.RoleUser, Content: message})
		h.push(sess.ID(), models.ChatMessage{Role: models.RoleAssistant, Content: reply})
		return ChatResponse{Reply: reply}, http.StatusOK
	}

	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return ChatResponse{Error: vErr.Message}, http.StatusBadRequest
	case errors.Is(err, assistant.ErrNotConfigured):
		return ChatResponse{Reply: reply, Error: describe(err)}, http.StatusServiceUnavailable
	case errors.Is(err, services.ErrTurnAborted):
		return ChatResponse{Reply: reply, Error: describe(err)}, http.StatusRequestTimeout
	default:
		// The user turn and the apology were recorded before the call failed.
		h.push(sess.ID(), models.ChatMessage{Role: models.RoleUser, Content: message})
		h.push(sess.ID(), models.ChatMessage{Role: models.RoleAssistant, Content: reply})
		if h.hub != nil {
			h.hub.BroadcastTo(sess.ID(), ws.NewErrorMessage(describe(err)))
		}
		return ChatResponse{Reply: reply, Error: "Error getting chatbot response: " + describe(err)}, http.StatusBadGateway
	}
}

func (h *ChatHandler) push(sessionID string, turn models.ChatMessage) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastTo(sessionID, ws.NewChatReplyMessage(turn))
}

// History returns the visible chat turns.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.ChatHistory())
}

// Send posts a message to the chatbot.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var payload ChatPayload
	if !decode(w, r, &payload) {
		return
	}
	resp, status := h.exchange(r.Context(), sess, payload.Message)
	writeJSON(w, status, resp)
}

// Recommendations asks the model for three recipes matching the user's profile.
func (h *ChatHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	username, _ := sess.Username()
	user, err := h.users.GetUser(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Logged-in user not found in store")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	recipes, err := h.recommendations.Recommend(r.Context(), user)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, assistant.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, RecommendationsResponse{
			Recipes: []models.RecommendedRecipe{},
			Error:   "Error getting recommendations: " + describe(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, RecommendationsResponse{Recipes: recipes})
}
