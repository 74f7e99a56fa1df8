package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/recipe-collection-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PlannerHandler handles favorites, the shopping list and the meal plan.
type PlannerHandler struct {
	service services.PlannerServiceProvider
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(service services.PlannerServiceProvider) *PlannerHandler {
	return &PlannerHandler{service: service}
}

// ShoppingItemsPayload adds free-text items.
type ShoppingItemsPayload struct {
	Items []string `json:"items"`
}

// ShoppingItemPayload names one item.
type ShoppingItemPayload struct {
	Item string `json:"item"`
}

func (h *PlannerHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case writeValidation(w, err):
	case errors.Is(err, services.ErrRecipeNotFound):
		http.Error(w, "Recipe not found", http.StatusNotFound)
	case errors.Is(err, services.ErrItemNotFound):
		http.Error(w, "Item not in shopping list", http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("Planner request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Favorites returns the favorite recipes.
func (h *PlannerHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.FavoriteRecipes(sess))
}

// ToggleFavorite adds or removes a recipe from the favorites.
func (h *PlannerHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	name := nameParam(r)
	favorite, err := h.service.ToggleFavorite(sess, name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":      name,
		"favorite":  favorite,
		"favorites": sess.Favorites(),
	})
}

// ShoppingList returns the shopping list in insertion order.
func (h *PlannerHandler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.ShoppingList())
}

// AddShoppingItems appends free-text items.
func (h *PlannerHandler) AddShoppingItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var payload ShoppingItemsPayload
	if !decode(w, r, &payload) {
		return
	}
	if err := h.service.AddShoppingItems(sess, payload.Items); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.ShoppingList())
}

// AddRecipeIngredients appends the ingredients of a recipe.
func (h *PlannerHandler) AddRecipeIngredients(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if _, err := h.service.AddRecipeToShoppingList(sess, nameParam(r)); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.ShoppingList())
}

// RemoveShoppingItem removes the first occurrence of an item.
func (h *PlannerHandler) RemoveShoppingItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var payload ShoppingItemPayload
	if !decode(w, r, &payload) {
		return
	}
	if err := h.service.RemoveShoppingItem(sess, payload.Item); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.ShoppingList())
}

// MealPlan returns the planned meals sorted by date.
func (h *PlannerHandler) MealPlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.MealPlan())
}

// AddMealPlanEntry plans a meal on a date.
func (h *PlannerHandler) AddMealPlanEntry(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var payload services.MealPlanRequest
	if !decode(w, r, &payload) {
		return
	}
	if _, err := h.service.AddMealPlanEntry(sess, payload); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.MealPlan())
}

// AddRecipeToMealPlan plans a recipe for today.
func (h *PlannerHandler) AddRecipeToMealPlan(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if _, err := h.service.AddRecipeToMealPlan(sess, nameParam(r)); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.MealPlan())
}
