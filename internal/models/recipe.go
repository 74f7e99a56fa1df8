package models

// Nutrition is the per-serving nutrition summary of a recipe.
type Nutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"` // grams
	Carbs    int `json:"carbs"`   // grams
	Fat      int `json:"fat"`     // grams
}

// Recipe is a catalog entry. Recipes are static and never written back.
type Recipe struct {
	Name         string    `json:"name"`
	Cuisine      string    `json:"cuisine"`
	Category     string    `json:"category"` // e.g. "vegetarian", "desserts"
	Rating       float64   `json:"rating"`
	Difficulty   string    `json:"difficulty"`
	Ingredients  string    `json:"ingredients"`  // multiline, one "- item" per line
	Instructions string    `json:"instructions"` // multiline, numbered steps
	CookingTime  string    `json:"cookingTime"`  // free text, e.g. "1 hour"
	Nutrition    Nutrition `json:"nutrition"`
}

// RecommendedRecipe is a recipe suggested by the assistant, parsed from free text.
type RecommendedRecipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookingTime  string   `json:"cookingTime,omitempty"`
}
