// Package session holds the mutable state of one interactive user session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/isdelr/recipe-collection-be/internal/models"
)

// Tab is a page of the UI.
type Tab string

const (
	TabLogin         Tab = "Login"
	TabSignUp        Tab = "Sign Up"
	TabHome          Tab = "Home"
	TabFavorites     Tab = "My Favorites"
	TabShoppingList  Tab = "Shopping List"
	TabMealPlanner   Tab = "Meal Planner"
	TabChatbot       Tab = "Chatbot"
	TabDocumentation Tab = "Documentation"
)

var (
	loggedOutTabs = []Tab{TabLogin, TabSignUp}
	loggedInTabs  = []Tab{TabHome, TabFavorites, TabShoppingList, TabMealPlanner, TabChatbot, TabDocumentation}
)

// ErrTabUnavailable is returned when navigating to a page not shown in the current login state.
var ErrTabUnavailable = errors.New("tab not available")

// SystemPrompt seeds every chat transcript.
const SystemPrompt = `You are a helpful cooking assistant that can:
1. Suggest recipes based on ingredients
2. Explain cooking techniques
3. Provide ingredient substitutions
4. Answer general cooking questions
5. Give cooking tips and advice

Always provide detailed, accurate, and helpful responses.`

// Session is the state of one user session. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	// chatTurn holds a token while a chatbot turn is in flight.
	chatTurn chan struct{}

	id        string
	createdAt time.Time
	lastSeen  time.Time

	loggedIn     bool
	username     *string
	transcript   []models.ChatMessage // context resent to the assistant
	chatHistory  []models.ChatMessage // turns shown to the user
	favorites    map[string]struct{}
	shoppingList []string
	mealPlan     []models.MealPlanEntry
	currentTab   Tab
	category     string
}

// New creates a logged-out session on the Login tab.
func New(id string, now time.Time) *Session {
	return &Session{
		id:          id,
		chatTurn:    make(chan struct{}, 1),
		createdAt:   now,
		lastSeen:    now,
		transcript:  []models.ChatMessage{{Role: models.RoleSystem, Content: SystemPrompt}},
		chatHistory: []models.ChatMessage{},
		favorites:   make(map[string]struct{}),
		currentTab:  TabLogin,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Login marks the session as belonging to username and opens the Home tab.
func (s *Session) Login(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = true
	s.username = &username
	s.currentTab = TabHome
}

// Logout clears the login and returns to the Login tab.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedIn = false
	s.username = nil
	s.currentTab = TabLogin
}

// LoggedIn reports whether a user is logged in.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Username returns the logged-in username, if any.
func (s *Session) Username() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.username == nil {
		return "", false
	}
	return *s.username, true
}

// CurrentTab returns the selected page.
func (s *Session) CurrentTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTab
}

// Navigate selects tab if it is offered in the current login state.
func (s *Session) Navigate(tab Tab) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tabsLocked() {
		if t == tab {
			s.currentTab = tab
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrTabUnavailable, tab)
}

// Tabs lists the pages offered in the current login state.
func (s *Session) Tabs() []Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Tab(nil), s.tabsLocked()...)
}

func (s *Session) tabsLocked() []Tab {
	if s.loggedIn {
		return loggedInTabs
	}
	return loggedOutTabs
}

// ToggleFavorite adds name to the favorites if absent, removes it otherwise,
// and reports whether it is a favorite afterwards.
func (s *Session) ToggleFavorite(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.favorites[name]; ok {
		delete(s.favorites, name)
		return false
	}
	s.favorites[name] = struct{}{}
	return true
}

// IsFavorite reports whether name is a favorite.
func (s *Session) IsFavorite(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[name]
	return ok
}

// Favorites returns the favorite recipe names, sorted.
func (s *Session) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoritesLocked()
}

func (s *Session) favoritesLocked() []string {
	out := make([]string, 0, len(s.favorites))
	for name := range s.favorites {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// AddShoppingItems appends items in order. Duplicates are kept.
func (s *Session) AddShoppingItems(items ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shoppingList = append(s.shoppingList, items...)
}

// RemoveShoppingItem removes the first exact occurrence of item.
func (s *Session) RemoveShoppingItem(item string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.shoppingList {
		if v == item {
			s.shoppingList = append(s.shoppingList[:i], s.shoppingList[i+1:]...)
			return true
		}
	}
	return false
}

// ShoppingList returns a copy of the shopping list.
func (s *Session) ShoppingList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.shoppingList...)
}

// AddMealPlanEntry appends a planned meal.
func (s *Session) AddMealPlanEntry(date, meal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mealPlan = append(s.mealPlan, models.MealPlanEntry{Date: date, Meal: meal})
}

// MealPlan returns the planned meals sorted by date; entries on the same
// date keep insertion order. The stored order is not changed.
func (s *Session) MealPlan() []models.MealPlanEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mealPlanLocked()
}

func (s *Session) mealPlanLocked() []models.MealPlanEntry {
	out := append([]models.MealPlanEntry{}, s.mealPlan...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// MealPlanEntries returns the planned meals in insertion order.
func (s *Session) MealPlanEntries() []models.MealPlanEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MealPlanEntry{}, s.mealPlan...)
}

// SelectCategory sets the quick-filter category; "" clears it.
func (s *Session) SelectCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
}

// Category returns the selected quick-filter category.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// AcquireChat waits until no other chatbot turn runs on the session, so each
// user turn is followed by its own reply in the transcript. The returned
// release func must be called once the turn is recorded.
func (s *Session) AcquireChat(ctx context.Context) (release func(), err error) {
	select {
	case s.chatTurn <- struct{}{}:
		return func() { <-s.chatTurn }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BeginChat records a user message and returns the transcript to send.
func (s *Session) BeginChat(message string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	turn := models.ChatMessage{Role: models.RoleUser, Content: message}
	s.transcript = append(s.transcript, turn)
	s.chatHistory = append(s.chatHistory, turn)
	return append([]models.ChatMessage{}, s.transcript...)
}

// CompleteChat records the assistant's reply.
func (s *Session) CompleteChat(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turn := models.ChatMessage{Role: models.RoleAssistant, Content: reply}
	s.transcript = append(s.transcript, turn)
	s.chatHistory = append(s.chatHistory, turn)
}

// FailChat shows reply to the user without adding it to the transcript.
func (s *Session) FailChat(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatHistory = append(s.chatHistory, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
}

// Transcript returns the conversation context, system prompt included.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage{}, s.transcript...)
}

// ChatHistory returns the turns shown to the user.
func (s *Session) ChatHistory() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage{}, s.chatHistory...)
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	LoggedIn     bool                   `json:"loggedIn"`
	Username     *string                `json:"username"`
	CurrentTab   Tab                    `json:"currentTab"`
	Tabs         []Tab                  `json:"tabs"`
	Favorites    []string               `json:"favorites"`
	ShoppingList []string               `json:"shoppingList"`
	MealPlan     []models.MealPlanEntry `json:"mealPlan"`
	ChatHistory  []models.ChatMessage   `json:"chatHistory"`
	Category     string                 `json:"category,omitempty"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var username *string
	if s.username != nil {
		u := *s.username
		username = &u
	}
	return Snapshot{
		LoggedIn:     s.loggedIn,
		Username:     username,
		CurrentTab:   s.currentTab,
		Tabs:         append([]Tab(nil), s.tabsLocked()...),
		Favorites:    s.favoritesLocked(),
		ShoppingList: append([]string{}, s.shoppingList...),
		MealPlan:     s.mealPlanLocked(),
		ChatHistory:  append([]models.ChatMessage{}, s.chatHistory...),
		Category:     s.category,
	}
}
