package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/isdelr/recipe-collection-be/internal/session"
	ws "github.com/isdelr/recipe-collection-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// chatQueueSize bounds the chat messages waiting on one socket.
const chatQueueSize = 8

// WebSocketHandler upgrades chatbot connections and relays chat messages.
type WebSocketHandler struct {
	hub      *ws.Hub
	chat     *ChatHandler
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler accepting upgrades from
// allowedOrigins. "*" allows any origin.
func NewWebSocketHandler(hub *ws.Hub, chat *ChatHandler, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:  hub,
		chat: chat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		log.Warn().Str("origin", origin).Msg("Rejected websocket origin")
		return false
	}
}

// Serve handles the WebSocket connection request.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, sess.ID())
	h.hub.Register(client)

	// Model calls outlive the read loop iteration but not the connection.
	ctx, cancel := context.WithCancel(context.Background())
	inbox := make(chan string, chatQueueSize)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		// Messages of one socket are answered in the order they were sent.
		for message := range inbox {
			resp, status := h.chat.exchange(ctx, sess, message)
			if status == http.StatusBadRequest || status == http.StatusServiceUnavailable {
				h.hub.SendTo(client, ws.NewErrorMessage(resp.Error))
			}
		}
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(func(c *ws.Client, message []byte) {
			h.handleIncomingWSMessage(sess, c, message, inbox)
		})
		cancel()
		close(inbox)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		cancel()
		h.hub.Unregister(client)
	}()
}

// handleIncomingWSMessage processes messages received from a websocket client.
func (h *WebSocketHandler) handleIncomingWSMessage(sess *session.Session, client *ws.Client, message []byte, inbox chan<- string) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		h.hub.SendTo(client, ws.NewErrorMessage("Invalid message"))
		return
	}

	switch msg.Action {
	case ws.ActionChat:
		var payload ws.ChatPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			h.hub.SendTo(client, ws.NewErrorMessage("Invalid payload for chat"))
			return
		}
		select {
		case inbox <- payload.Message:
		default:
			log.Warn().Str("session_id", sess.ID()).Msg("Chat queue full, dropping websocket message")
			h.hub.SendTo(client, ws.NewErrorMessage("Too many pending messages"))
		}

	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		h.hub.SendTo(client, ws.NewErrorMessage("Unknown action: "+msg.Action))
	}
}
