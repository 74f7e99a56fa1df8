package websocket

import (
	"encoding/json"

	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Actions exchanged over the chat socket.
const (
	ActionChat      = "chat"
	ActionChatReply = "chat_reply"
	ActionError     = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ChatPayload is sent by clients with ActionChat.
type ChatPayload struct {
	Message string `json:"message"`
}

// ErrorPayload accompanies ActionError.
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewChatReplyMessage encodes one transcript turn.
func NewChatReplyMessage(turn models.ChatMessage) []byte {
	return encode(ActionChatReply, turn)
}

// NewErrorMessage encodes an error for the client.
func NewErrorMessage(message string) []byte {
	return encode(ActionError, ErrorPayload{Message: message})
}

func encode(action string, payload interface{}) []byte {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket payload")
		raw = nil
	}
	data, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return nil
	}
	return data
}
