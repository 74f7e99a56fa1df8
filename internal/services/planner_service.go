package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/recipe-collection-be/internal/catalog"
	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/isdelr/recipe-collection-be/internal/session"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrItemNotFound   = errors.New("item not in shopping list")
)

// MealPlanRequest adds one planned meal.
type MealPlanRequest struct {
	Date string `json:"date" validate:"required,plan_date"`
	Meal string `json:"meal" validate:"required"`
}

// PlannerServiceProvider defines the interface for the per-session recipe lists.
type PlannerServiceProvider interface {
	ToggleFavorite(sess *session.Session, name string) (bool, error)
	FavoriteRecipes(sess *session.Session) []models.Recipe
	AddShoppingItems(sess *session.Session, items []string) error
	AddRecipeToShoppingList(sess *session.Session, name string) ([]string, error)
	RemoveShoppingItem(sess *session.Session, item string) error
	AddMealPlanEntry(sess *session.Session, req MealPlanRequest) (models.MealPlanEntry, error)
	AddRecipeToMealPlan(sess *session.Session, name string) (models.MealPlanEntry, error)
}

// PlannerService manages favorites, the shopping list and the meal plan of a session.
type PlannerService struct {
	now func() time.Time
}

// NewPlannerService creates a new PlannerService.
func NewPlannerService() *PlannerService {
	return &PlannerService{now: time.Now}
}

func findRecipe(name string) (models.Recipe, error) {
	r, ok := catalog.Find(name)
	if !ok {
		return models.Recipe{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	return r, nil
}

// ToggleFavorite flips the favorite state of a catalog recipe.
func (s *PlannerService) ToggleFavorite(sess *session.Session, name string) (bool, error) {
	if _, err := findRecipe(name); err != nil {
		return false, err
	}
	return sess.ToggleFavorite(name), nil
}

// FavoriteRecipes returns the favorite recipes in catalog order.
func (s *PlannerService) FavoriteRecipes(sess *session.Session) []models.Recipe {
	out := []models.Recipe{}
	for _, r := range catalog.Recipes() {
		if sess.IsFavorite(r.Name) {
			out = append(out, r)
		}
	}
	return out
}

// AddShoppingItems appends free-text items. Blank items are rejected.
func (s *PlannerService) AddShoppingItems(sess *session.Session, items []string) error {
	if len(items) == 0 {
		return &ValidationError{Message: "Missing required field: items"}
	}
	clean := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return &ValidationError{Message: "Shopping list items must not be empty"}
		}
		clean = append(clean, item)
	}
	sess.AddShoppingItems(clean...)
	return nil
}

// AddRecipeToShoppingList appends the ingredient lines of a recipe and returns them.
func (s *PlannerService) AddRecipeToShoppingList(sess *session.Session, name string) ([]string, error) {
	r, err := findRecipe(name)
	if err != nil {
		return nil, err
	}
	items := catalog.ShoppingItems(r)
	sess.AddShoppingItems(items...)
	return items, nil
}

// RemoveShoppingItem removes the first occurrence of item.
func (s *PlannerService) RemoveShoppingItem(sess *session.Session, item string) error {
	if !sess.RemoveShoppingItem(item) {
		return fmt.Errorf("%w: %s", ErrItemNotFound, item)
	}
	return nil
}

// AddMealPlanEntry validates and appends a planned meal.
func (s *PlannerService) AddMealPlanEntry(sess *session.Session, req MealPlanRequest) (models.MealPlanEntry, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.Meal = strings.TrimSpace(req.Meal)
	if err := validateStruct(req); err != nil {
		return models.MealPlanEntry{}, err
	}
	sess.AddMealPlanEntry(req.Date, req.Meal)
	return models.MealPlanEntry{Date: req.Date, Meal: req.Meal}, nil
}

// AddRecipeToMealPlan plans a catalog recipe for today.
func (s *PlannerService) AddRecipeToMealPlan(sess *session.Session, name string) (models.MealPlanEntry, error) {
	if _, err := findRecipe(name); err != nil {
		return models.MealPlanEntry{}, err
	}
	entry := models.MealPlanEntry{Date: s.now().Format(time.DateOnly), Meal: name}
	sess.AddMealPlanEntry(entry.Date, entry.Meal)
	return entry, nil
}
