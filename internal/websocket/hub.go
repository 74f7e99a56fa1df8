package websocket

import (
	"github.com/isdelr/recipe-collection-be/internal/metrics"
	"github.com/rs/zerolog/log"
)

type sessionMessage struct {
	sessionID string
	data      []byte
}

type clientMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and routes messages to them.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// A map of session IDs to the set of sockets opened by that session.
	subscriptions map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	toSession  chan sessionMessage
	toClient   chan clientMessage
	quit       chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		toSession:     make(chan sessionMessage),
		toClient:      make(chan clientMessage),
		quit:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.addSubscription(client)
			metrics.WebsocketClients.Set(float64(len(h.clients)))
			log.Info().Int("total_clients", len(h.clients)).Str("session_id", client.SessionID).Msg("Client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case msg := <-h.toSession:
			for client := range h.subscriptions[msg.sessionID] {
				h.deliver(client, msg.data)
			}
		case msg := <-h.toClient:
			if _, ok := h.clients[msg.client]; ok {
				h.deliver(msg.client, msg.data)
			}
		case <-h.quit:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
}

// Register adds a client.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// BroadcastTo sends a message to every socket of a session.
func (h *Hub) BroadcastTo(sessionID string, message []byte) {
	select {
	case h.toSession <- sessionMessage{sessionID: sessionID, data: message}:
	case <-h.quit:
	}
}

// SendTo sends a message to a single client.
func (h *Hub) SendTo(client *Client, message []byte) {
	select {
	case h.toClient <- clientMessage{client: client, data: message}:
	case <-h.quit:
	}
}

// deliver drops clients whose buffer is full.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		log.Warn().Str("session_id", client.SessionID).Msg("Client send buffer full, disconnecting")
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.removeSubscription(client)
	metrics.WebsocketClients.Set(float64(len(h.clients)))
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.SessionID] == nil {
		h.subscriptions[client.SessionID] = make(map[*Client]bool)
	}
	h.subscriptions[client.SessionID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.SessionID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.SessionID)
		}
	}
}
