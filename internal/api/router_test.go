package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/isdelr/recipe-collection-be/internal/assistant"
	"github.com/isdelr/recipe-collection-be/internal/auth"
	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/isdelr/recipe-collection-be/internal/services"
	"github.com/isdelr/recipe-collection-be/internal/session"
	"github.com/isdelr/recipe-collection-be/internal/store"
	"github.com/isdelr/recipe-collection-be/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type scriptedModel struct {
	mu    sync.Mutex
	reply string
	err   error
}

func (m *scriptedModel) Configured() bool { return true }

func (m *scriptedModel) Complete(_ context.Context, _ []models.ChatMessage, _ assistant.Params) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reply, m.err
}

type RouterSuite struct {
	suite.Suite
	server   *httptest.Server
	hub      *websocket.Hub
	sessions *session.Manager
	model    *scriptedModel
	token    string
}

func (s *RouterSuite) SetupTest() {
	userStore := store.NewCSVStore(filepath.Join(s.T().TempDir(), "user_data.csv"))
	s.Require().NoError(userStore.Init())

	s.model = &scriptedModel{reply: "Use ripe tomatoes."}
	s.hub = websocket.NewHub()
	go s.hub.Run()
	s.sessions = session.NewManager()

	router := NewRouter(Dependencies{
		Hub:             s.hub,
		Sessions:        s.sessions,
		Tokens:          auth.NewTokenIssuer("test-secret", time.Hour),
		Users:           services.NewUserService(userStore),
		Chat:            services.NewChatService(s.model, time.Second),
		Recommendations: services.NewRecommendationService(s.model, time.Second),
		Planner:         services.NewPlannerService(),
		AllowedOrigins:  []string{"*"},
	})
	s.server = httptest.NewServer(router)

	resp, body := s.do(http.MethodPost, "/api/v1/session", nil, "")
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created struct {
		Token string           `json:"token"`
		State session.Snapshot `json:"state"`
	}
	s.Require().NoError(json.Unmarshal(body, &created))
	s.Require().NotEmpty(created.Token)
	s.Equal(session.TabLogin, created.State.CurrentTab)
	s.token = created.Token
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
	s.hub.Stop()
}

func (s *RouterSuite) do(method, path string, payload interface{}, token string) (*http.Response, []byte) {
	var body bytes.Buffer
	if payload != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &body)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	s.Require().NoError(err)
	return resp, out.Bytes()
}

func (s *RouterSuite) call(method, path string, payload interface{}) (int, []byte) {
	resp, body := s.do(method, path, payload, s.token)
	return resp.StatusCode, body
}

func signupPayload(username string) map[string]interface{} {
	return map[string]interface{}{
		"username":              username,
		"password":              "secret",
		"confirmPassword":       "secret",
		"favoriteCuisine":       "Italian",
		"dietaryRestrictions":   []string{"Vegetarian"},
		"preferredIngredients":  "basil",
		"ingredientsToAvoid":    "nuts",
		"cookingSkill":          "Beginner",
		"favoriteMeal":          "Dinner",
		"spiceLevel":            "Mild",
		"cookingTimePreference": "Quick (<20 mins)",
	}
}

func (s *RouterSuite) login() {
	status, _ := s.call(http.MethodPost, "/api/v1/auth/signup", signupPayload("alice"))
	s.Require().Equal(http.StatusCreated, status)
	status, _ = s.call(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice", "password": "secret"})
	s.Require().Equal(http.StatusOK, status)
}

func decodeAs[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func (s *RouterSuite) TestHealthAndMetrics() {
	resp, body := s.do(http.MethodGet, "/healthz", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("ok", string(body))

	s.do(http.MethodGet, "/api/v1/state", nil, s.token)
	resp, body = s.do(http.MethodGet, "/metrics", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "recipe_collection_session_active")
}

func (s *RouterSuite) TestSessionTokenRequired() {
	resp, _ := s.do(http.MethodGet, "/api/v1/state", nil, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/state", nil, "not-a-token")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterSuite) TestLoggedOutRoutesAreGated() {
	for _, path := range []string{"/api/v1/recipes", "/api/v1/favorites", "/api/v1/chat", "/api/v1/recommendations", "/api/v1/auth/me"} {
		status, _ := s.call(http.MethodGet, path, nil)
		s.Equal(http.StatusUnauthorized, status, path)
	}

	status, _ := s.call(http.MethodPut, "/api/v1/state/tab", map[string]string{"tab": "Chatbot"})
	s.Equal(http.StatusForbidden, status)
	status, body := s.call(http.MethodPut, "/api/v1/state/tab", map[string]string{"tab": "Sign Up"})
	s.Equal(http.StatusOK, status)
	s.Equal(session.TabSignUp, decodeAs[session.Snapshot](s.T(), body).CurrentTab)
}

func (s *RouterSuite) TestSignupAndLogin() {
	bad := signupPayload("alice")
	bad["confirmPassword"] = "other"
	status, body := s.call(http.MethodPost, "/api/v1/auth/signup", bad)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("Passwords do not match!", strings.TrimSpace(string(body)))

	missing := signupPayload("alice")
	delete(missing, "spiceLevel")
	status, body = s.call(http.MethodPost, "/api/v1/auth/signup", missing)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("Missing required field: spiceLevel", strings.TrimSpace(string(body)))

	status, body = s.call(http.MethodPost, "/api/v1/auth/signup", signupPayload("alice"))
	s.Equal(http.StatusCreated, status)
	s.NotContains(string(body), "secret", "password is never returned")
	s.False(decodeAs[struct {
		State session.Snapshot `json:"state"`
	}](s.T(), body).State.LoggedIn)

	status, body = s.call(http.MethodPost, "/api/v1/auth/signup", signupPayload("alice"))
	s.Equal(http.StatusConflict, status)
	s.Equal("Username already exists!", strings.TrimSpace(string(body)))

	status, body = s.call(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("Invalid username or password", strings.TrimSpace(string(body)))

	status, body = s.call(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice", "password": "secret"})
	s.Require().Equal(http.StatusOK, status)
	snap := decodeAs[session.Snapshot](s.T(), body)
	s.True(snap.LoggedIn)
	s.Require().NotNil(snap.Username)
	s.Equal("alice", *snap.Username)
	s.Equal(session.TabHome, snap.CurrentTab)

	status, body = s.call(http.MethodGet, "/api/v1/auth/me", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("Vegetarian", decodeAs[models.User](s.T(), body).DietaryRestrictions)

	status, body = s.call(http.MethodPost, "/api/v1/auth/signup", signupPayload("bob"))
	s.Equal(http.StatusConflict, status)
	s.Equal("Already logged in", strings.TrimSpace(string(body)))
	_, body = s.call(http.MethodGet, "/api/v1/state", nil)
	s.True(decodeAs[session.Snapshot](s.T(), body).LoggedIn, "signup attempt keeps the session logged in")

	status, body = s.call(http.MethodPost, "/api/v1/auth/logout", nil)
	s.Equal(http.StatusOK, status)
	s.False(decodeAs[session.Snapshot](s.T(), body).LoggedIn)
	status, _ = s.call(http.MethodGet, "/api/v1/recipes", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *RouterSuite) TestRecipeFilters() {
	s.login()

	names := func(path string) []string {
		status, body := s.call(http.MethodGet, path, nil)
		s.Require().Equal(http.StatusOK, status, string(body))
		var out []string
		for _, r := range decodeAs[[]models.Recipe](s.T(), body) {
			out = append(out, r.Name)
		}
		return out
	}

	s.Len(names("/api/v1/recipes"), 4)
	s.Equal([]string{"Classic Margherita Pizza"}, names("/api/v1/recipes?q=PIZZA"))
	s.Equal([]string{"Classic Margherita Pizza"}, names("/api/v1/recipes?cuisine=Italian"))
	s.Equal([]string{"Butter Chicken", "Sushi Roll"}, names("/api/v1/recipes?time=Medium+(30-60+mins)"))
	s.Equal([]string{"Chocolate Lava Cake"}, names("/api/v1/recipes?category=desserts"))

	status, _ := s.call(http.MethodGet, "/api/v1/recipes?time=Forever", nil)
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.call(http.MethodPut, "/api/v1/recipes/category", map[string]string{"category": "vegetarian"})
	s.Equal(http.StatusOK, status)
	s.Equal([]string{"Classic Margherita Pizza"}, names("/api/v1/recipes"))
	s.Len(names("/api/v1/recipes?category="), 4, "explicit empty category overrides the selection")

	status, _ = s.call(http.MethodPut, "/api/v1/recipes/category", map[string]string{"category": "brunch"})
	s.Equal(http.StatusBadRequest, status)

	status, body := s.call(http.MethodGet, "/api/v1/recipes/filters", nil)
	s.Equal(http.StatusOK, status)
	s.Contains(string(body), "Quick (\\u003c 30 mins)")

	status, _ = s.call(http.MethodGet, "/api/v1/recipes/Sushi%20Roll", nil)
	s.Equal(http.StatusOK, status)
	status, _ = s.call(http.MethodGet, "/api/v1/recipes/Nope", nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *RouterSuite) TestFavoritesShoppingAndMealPlan() {
	s.login()

	status, body := s.call(http.MethodPost, "/api/v1/favorites/Sushi%20Roll", nil)
	s.Equal(http.StatusOK, status)
	s.Contains(string(body), `"favorite":true`)
	status, _ = s.call(http.MethodPost, "/api/v1/favorites/Nope", nil)
	s.Equal(http.StatusNotFound, status)
	_, body = s.call(http.MethodGet, "/api/v1/favorites", nil)
	s.Len(decodeAs[[]models.Recipe](s.T(), body), 1)

	status, body = s.call(http.MethodPost, "/api/v1/shopping-list/recipes/Butter%20Chicken", nil)
	s.Equal(http.StatusOK, status)
	list := decodeAs[[]string](s.T(), body)
	s.Equal("- 2 lbs chicken thighs", list[0])
	status, body = s.call(http.MethodPost, "/api/v1/shopping-list", map[string][]string{"items": {"- salt", "- salt"}})
	s.Equal(http.StatusOK, status)
	s.Len(decodeAs[[]string](s.T(), body), len(list)+2)
	status, _ = s.call(http.MethodDelete, "/api/v1/shopping-list", map[string]string{"item": "- salt"})
	s.Equal(http.StatusOK, status)
	status, _ = s.call(http.MethodDelete, "/api/v1/shopping-list", map[string]string{"item": "- pepper"})
	s.Equal(http.StatusNotFound, status)

	status, _ = s.call(http.MethodPost, "/api/v1/meal-plan", map[string]string{"date": "2024-05-03", "meal": "Soup"})
	s.Equal(http.StatusCreated, status)
	status, _ = s.call(http.MethodPost, "/api/v1/meal-plan", map[string]string{"date": "2024-05-01", "meal": "Salad"})
	s.Equal(http.StatusCreated, status)
	status, body = s.call(http.MethodPost, "/api/v1/meal-plan", map[string]string{"date": "tomorrow", "meal": "Salad"})
	s.Equal(http.StatusBadRequest, status)
	s.Equal("Invalid date: expected YYYY-MM-DD", strings.TrimSpace(string(body)))

	_, body = s.call(http.MethodGet, "/api/v1/meal-plan", nil)
	plan := decodeAs[[]models.MealPlanEntry](s.T(), body)
	s.Require().Len(plan, 2)
	s.Equal("Salad", plan[0].Meal)
}

func (s *RouterSuite) TestChatAndRecommendations() {
	s.login()

	status, body := s.call(http.MethodPost, "/api/v1/chat", map[string]string{"message": "Pasta sauce tips?"})
	s.Equal(http.StatusOK, status)
	s.Equal("Use ripe tomatoes.", decodeAs[map[string]string](s.T(), body)["reply"])

	status, _ = s.call(http.MethodPost, "/api/v1/chat", map[string]string{"message": " "})
	s.Equal(http.StatusBadRequest, status)

	s.model.mu.Lock()
	s.model.err = assistant.ErrModelUnavailable
	s.model.mu.Unlock()
	status, body = s.call(http.MethodPost, "/api/v1/chat", map[string]string{"message": "Again?"})
	s.Equal(http.StatusBadGateway, status)
	resp := decodeAs[map[string]string](s.T(), body)
	s.Equal(services.ApologyFailed, resp["reply"])
	s.Contains(resp["error"], "The selected model is unavailable")

	_, body = s.call(http.MethodGet, "/api/v1/chat", nil)
	history := decodeAs[[]models.ChatMessage](s.T(), body)
	s.Require().Len(history, 4)
	s.Equal(models.ChatMessage{Role: models.RoleAssistant, Content: services.ApologyFailed}, history[3])

	s.model.mu.Lock()
	s.model.err = nil
	s.model.reply = "Recipe 1: Pesto Pasta\nIngredients:\n- basil\nInstructions:\n1. Blend.\nCooking time: 15 minutes"
	s.model.mu.Unlock()
	status, body = s.call(http.MethodGet, "/api/v1/recommendations", nil)
	s.Equal(http.StatusOK, status)
	recs := decodeAs[struct {
		Recipes []models.RecommendedRecipe `json:"recipes"`
	}](s.T(), body)
	s.Require().Len(recs.Recipes, 1)
	s.Equal("Pesto Pasta", recs.Recipes[0].Name)
}

func (s *RouterSuite) TestChatWebsocket() {
	s.login()

	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/v1/chat/ws?token=" + s.token
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.WriteJSON(map[string]interface{}{
		"action":  websocket.ActionChat,
		"payload": map[string]string{"message": "Hello"},
	}))

	var turns []models.ChatMessage
	for len(turns) < 2 {
		s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
		var msg websocket.Message
		s.Require().NoError(conn.ReadJSON(&msg))
		s.Require().Equal(websocket.ActionChatReply, msg.Action)
		turns = append(turns, decodeAs[models.ChatMessage](s.T(), msg.Payload))
	}
	s.Equal(models.RoleUser, turns[0].Role)
	s.Equal("Hello", turns[0].Content)
	s.Equal(models.ChatMessage{Role: models.RoleAssistant, Content: "Use ripe tomatoes."}, turns[1])

	s.Require().NoError(conn.WriteJSON(map[string]string{"action": "dance"}))
	var msg websocket.Message
	s.Require().NoError(conn.ReadJSON(&msg))
	s.Equal(websocket.ActionError, msg.Action)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func TestRouter_UnconfiguredAssistant(t *testing.T) {
	userStore := store.NewCSVStore(filepath.Join(t.TempDir(), "user_data.csv"))
	require.NoError(t, userStore.Init())
	sessions := session.NewManager()
	tokens := auth.NewTokenIssuer("k", time.Hour)
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	var llm *assistant.Client
	router := NewRouter(Dependencies{
		Hub:             hub,
		Sessions:        sessions,
		Tokens:          tokens,
		Users:           services.NewUserService(userStore),
		Chat:            services.NewChatService(llm, time.Second),
		Recommendations: services.NewRecommendationService(llm, time.Second),
		Planner:         services.NewPlannerService(),
	})

	sess := sessions.Create()
	sess.Login("bob")
	token, err := tokens.Generate(sess.ID())
	require.NoError(t, err)
	before := sess.Snapshot()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeAs[map[string]string](t, rec.Body.Bytes())
	assert.Equal(t, services.ApologyNotConfigured, resp["reply"])
	assert.Equal(t, before, sess.Snapshot())
}
