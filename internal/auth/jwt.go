package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/recipe-collection-be/internal/session"
	"github.com/rs/zerolog/log"
)

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// RefreshHeader carries a re-issued token for clients that send it as a Bearer header.
const RefreshHeader = "X-Session-Token"

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims defines the JWT claims structure.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type contextKey string

// SessionKey is the context key for the resolved session.
const SessionKey = contextKey("session")

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
}

// NewTokenIssuer creates an issuer signing with secret. Tokens expire after ttl
// and are re-issued by SessionMiddleware once less than half of ttl remains.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{key: []byte(secret), ttl: ttl}
}

// TTL returns the token lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Generate creates a new JWT for a session.
func (t *TokenIssuer) Generate(sessionID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.key)
}

// Validate parses and validates a JWT string.
func (t *TokenIssuer) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NeedsRefresh reports whether claims expire within half of the token lifetime.
func (t *TokenIssuer) NeedsRefresh(claims *Claims, now time.Time) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Sub(now) < t.ttl/2
}

// SetCookie writes the token cookie.
func (t *TokenIssuer) SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(t.ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func tokenFromRequest(r *http.Request) string {
	// 1. Try to get the token from the Authorization header
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if tokenStr, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(tokenStr)
		}
	}

	// 2. Browsers cannot set headers on websocket upgrades
	if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
		return tokenStr
	}

	// 3. Fall back to the cookie
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionMiddleware resolves the session named by the request token and
// passes it down via context. Tokens close to expiry are re-issued through the
// cookie and RefreshHeader, so an active session keeps a valid token.
func SessionMiddleware(issuer *TokenIssuer, sessions *session.Manager, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				http.Error(w, "Missing session token", http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Validate(tokenStr)
			if err != nil {
				http.Error(w, "Invalid session token", http.StatusUnauthorized)
				return
			}

			sess, err := sessions.Get(claims.SessionID)
			if err != nil {
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			if issuer.NeedsRefresh(claims, time.Now()) {
				if fresh, err := issuer.Generate(sess.ID()); err != nil {
					log.Error().Err(err).Str("session_id", sess.ID()).Msg("Failed to refresh session token")
				} else {
					issuer.SetCookie(w, fresh, secureCookies)
					w.Header().Set(RefreshHeader, fresh)
				}
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			log.Debug().Str("session_id", sess.ID()).Msg("Resolved session")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin rejects requests whose session is not logged in.
// It must run after SessionMiddleware.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := FromContext(r.Context())
		if !ok || !sess.LoggedIn() {
			http.Error(w, "Login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FromContext returns the session resolved by SessionMiddleware.
func FromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*session.Session)
	return sess, ok
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}
