package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/recipe-collection-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles signup, login and logout within a session.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// Signup creates an account. The session stays logged out so the user logs in next.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if sess.LoggedIn() {
		http.Error(w, "Already logged in", http.StatusConflict)
		return
	}
	var payload services.SignupRequest
	if !decode(w, r, &payload) {
		return
	}

	user, err := h.service.Signup(payload)
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, services.ErrPasswordMismatch):
			http.Error(w, "Passwords do not match!", http.StatusBadRequest)
		case errors.Is(err, services.ErrUsernameTaken):
			http.Error(w, "Username already exists!", http.StatusConflict)
		default:
			log.Error().Err(err).Str("username", payload.Username).Msg("Failed to create account")
			http.Error(w, "Failed to create account", http.StatusInternalServerError)
		}
		return
	}

	// Account creation never logs the session in; it returns to the Login page.
	sess.Logout()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created successfully! Please login.",
		"user":    user,
		"state":   sess.Snapshot(),
	})
}

// Login checks credentials and marks the session as logged in.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var payload services.LoginRequest
	if !decode(w, r, &payload) {
		return
	}

	user, err := h.service.Login(payload)
	if err != nil {
		if writeValidation(w, err) {
			return
		}
		log.Warn().Str("username", payload.Username).Msg("Failed login attempt")
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	sess.Login(user.Username)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// Logout clears the login of the session.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	sess.Logout()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// Me returns the profile of the logged-in user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	username, _ := sess.Username()
	user, err := h.service.GetUser(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Logged-in user not found in store")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
