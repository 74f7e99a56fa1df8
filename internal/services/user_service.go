package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/recipe-collection-be/internal/metrics"
	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/isdelr/recipe-collection-be/internal/store"
	"github.com/rs/zerolog/log"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// SignupRequest is the account creation form.
type SignupRequest struct {
	Username              string   `json:"username" validate:"required"`
	Password              string   `json:"password" validate:"required"`
	ConfirmPassword       string   `json:"confirmPassword" validate:"required"`
	FavoriteCuisine       string   `json:"favoriteCuisine" validate:"required,oneof=Italian Indian Mexican Chinese Japanese Mediterranean Other"`
	DietaryRestrictions   []string `json:"dietaryRestrictions" validate:"dive,oneof=None Vegetarian Vegan Gluten-free Dairy-free Nut-free"`
	PreferredIngredients  string   `json:"preferredIngredients"`
	IngredientsToAvoid    string   `json:"ingredientsToAvoid"`
	CookingSkill          string   `json:"cookingSkill" validate:"required,oneof=Beginner Intermediate Expert"`
	FavoriteMeal          string   `json:"favoriteMeal" validate:"required,oneof=Breakfast Lunch Dinner Snacks"`
	SpiceLevel            string   `json:"spiceLevel" validate:"required,oneof=Mild Medium Spicy"`
	CookingTimePreference string   `json:"cookingTimePreference" validate:"required,cooking_time"`
}

// LoginRequest holds submitted credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(req SignupRequest) (models.User, error)
	Login(req LoginRequest) (models.User, error)
	GetUser(username string) (models.User, error)
}

// UserService provides account creation and credential checks on top of a UserStore.
type UserService struct {
	store store.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(s store.UserStore) *UserService {
	return &UserService{store: s}
}

// Signup validates the form and appends a new account. The password is stored as entered.
func (s *UserService) Signup(req SignupRequest) (models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return models.User{}, err
	}
	if req.Password != req.ConfirmPassword {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return models.User{}, ErrPasswordMismatch
	}
	if store.Contains(s.store.Load(), req.Username) {
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return models.User{}, ErrUsernameTaken
	}

	user := models.User{
		Username:              req.Username,
		Password:              req.Password,
		FavoriteCuisine:       req.FavoriteCuisine,
		DietaryRestrictions:   strings.Join(req.DietaryRestrictions, ","),
		PreferredIngredients:  strings.TrimSpace(req.PreferredIngredients),
		IngredientsToAvoid:    strings.TrimSpace(req.IngredientsToAvoid),
		CookingSkill:          req.CookingSkill,
		FavoriteMeal:          req.FavoriteMeal,
		SpiceLevel:            req.SpiceLevel,
		CookingTimePreference: req.CookingTimePreference,
	}

	if err := s.store.Append(user); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
			return models.User{}, ErrUsernameTaken
		}
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return models.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	log.Info().Str("username", user.Username).Msg("Account created")
	return user, nil
}

// Login returns the account matching both username and password exactly.
func (s *UserService) Login(req LoginRequest) (models.User, error) {
	if err := validateStruct(req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return models.User{}, err
	}
	user, ok := s.store.Find(req.Username, req.Password)
	if !ok {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return models.User{}, ErrInvalidCredentials
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}

// GetUser returns the stored account for username.
func (s *UserService) GetUser(username string) (models.User, error) {
	for _, u := range s.store.Load() {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
}
