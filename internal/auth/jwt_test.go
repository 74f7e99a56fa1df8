package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/isdelr/recipe-collection-be/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValidate(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Generate("abc")
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.SessionID)

	_, err = NewTokenIssuer("other", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenIssuer("secret", -time.Minute).Generate("abc")
	require.NoError(t, err)
	_, err = issuer.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsOtherSigningMethods(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{SessionID: "abc"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = issuer.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	sessions := session.NewManager()
	sess := sessions.Create()
	token, err := issuer.Generate(sess.ID())
	require.NoError(t, err)
	stale, err := issuer.Generate("gone")
	require.NoError(t, err)

	var resolved *session.Session
	h := SessionMiddleware(issuer, sessions, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusNoContent},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }, http.StatusNoContent},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=" + token }, http.StatusNoContent},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"unknown session", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+stale) }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Same(t, sess, resolved)
			}
		})
	}
}

func TestSessionMiddleware_RefreshesTokenNearExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	sessions := session.NewManager()
	sess := sessions.Create()
	h := SessionMiddleware(issuer, sessions, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	signed := func(expiresIn time.Duration) string {
		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			SessionID: sess.ID(),
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now.Add(expiresIn - time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			},
		})
		s, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)
		return s
	}

	t.Run("fresh token is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed(50*time.Minute))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get(RefreshHeader))
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("token near expiry is re-issued", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: signed(10 * time.Minute)})
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		fresh := rec.Header().Get(RefreshHeader)
		require.NotEmpty(t, fresh)

		claims, err := issuer.Validate(fresh)
		require.NoError(t, err)
		assert.Equal(t, sess.ID(), claims.SessionID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
		assert.False(t, issuer.NeedsRefresh(claims, time.Now()))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieName, cookies[0].Name)
		assert.Equal(t, fresh, cookies[0].Value)
	})
}

func TestRequireLogin(t *testing.T) {
	sess := session.New("s", time.Now())
	h := RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sess.Login("alice")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
