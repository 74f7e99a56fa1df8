package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/recipe-collection-be/internal/auth"
	"github.com/isdelr/recipe-collection-be/internal/session"
	"github.com/rs/zerolog/log"
)

// SessionHandler creates sessions and exposes their UI state.
type SessionHandler struct {
	sessions      *session.Manager
	tokens        *auth.TokenIssuer
	secureCookies bool
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Manager, tokens *auth.TokenIssuer, secureCookies bool) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens, secureCookies: secureCookies}
}

// TabPayload selects a page.
type TabPayload struct {
	Tab session.Tab `json:"tab"`
}

// Create starts a new logged-out session and hands out its token.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()

	token, err := h.tokens.Generate(sess.ID())
	if err != nil {
		h.sessions.Delete(sess.ID())
		log.Error().Err(err).Msg("Failed to generate session token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	h.tokens.SetCookie(w, token, h.secureCookies)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"state": sess.Snapshot(),
	})
}

// State returns the session snapshot.
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// Navigate switches the current page.
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var payload TabPayload
	if !decode(w, r, &payload) {
		return
	}
	if err := sess.Navigate(payload.Tab); err != nil {
		if errors.Is(err, session.ErrTabUnavailable) {
			http.Error(w, "Page not available", http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// End discards the session and clears the cookie.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	h.sessions.Delete(sess.ID())
	http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}
