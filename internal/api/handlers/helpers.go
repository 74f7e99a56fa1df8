package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/recipe-collection-be/internal/auth"
	"github.com/isdelr/recipe-collection-be/internal/services"
	"github.com/isdelr/recipe-collection-be/internal/session"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// currentSession returns the session resolved by the auth middleware.
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve session from context")
		http.Error(w, "Could not retrieve session", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// writeValidation reports validation failures with their user-visible message.
func writeValidation(w http.ResponseWriter, err error) bool {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		http.Error(w, vErr.Message, http.StatusBadRequest)
		return true
	}
	return false
}

// nameParam returns the decoded {name} path parameter.
func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
