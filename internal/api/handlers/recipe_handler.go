package handlers

import (
	"net/http"
	"strings"

	"github.com/isdelr/recipe-collection-be/internal/catalog"
)

// RecipeHandler serves the catalog and its filters.
type RecipeHandler struct{}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler() *RecipeHandler {
	return &RecipeHandler{}
}

// CategoryPayload selects a quick-filter category; empty clears it.
type CategoryPayload struct {
	Category string `json:"category"`
}

type timeOption struct {
	Value catalog.TimeBucket `json:"value"`
	Label string             `json:"label"`
}

// List returns the catalog narrowed by the q, cuisine, time and category
// query parameters. Without a category parameter the session's selection applies.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()

	bucket, err := catalog.ParseTimeBucket(query.Get("time"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cuisine := query.Get("cuisine")
	if cuisine == "" {
		cuisine = catalog.CuisineAll
	}
	category := sess.Category()
	if query.Has("category") {
		category = strings.TrimSpace(query.Get("category"))
		if category != "" && !catalog.IsCategory(category) {
			http.Error(w, "Unknown category: "+category, http.StatusBadRequest)
			return
		}
	}

	recipes := catalog.Filter(catalog.Recipes(), query.Get("q"), cuisine, bucket)
	recipes = catalog.FilterCategory(recipes, category)
	writeJSON(w, http.StatusOK, recipes)
}

// Get returns a single recipe by name.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe, ok := catalog.Find(nameParam(r))
	if !ok {
		http.Error(w, "Recipe not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Filters lists the options of the search controls.
func (h *RecipeHandler) Filters(w http.ResponseWriter, r *http.Request) {
	times := make([]timeOption, 0, len(catalog.TimeBuckets()))
	for _, b := range catalog.TimeBuckets() {
		times = append(times, timeOption{Value: b, Label: b.Label()})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cuisines":   catalog.Cuisines(),
		"times":      times,
		"categories": catalog.Categories(),
	})
}

// SelectCategory stores the quick-filter category on the session.
func (h *RecipeHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	var payload CategoryPayload
	if !decode(w, r, &payload) {
		return
	}
	category := strings.TrimSpace(payload.Category)
	if category != "" && !catalog.IsCategory(category) {
		http.Error(w, "Unknown category: "+category, http.StatusBadRequest)
		return
	}
	sess.SelectCategory(category)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}
