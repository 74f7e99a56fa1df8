// Package catalog holds the fixed set of recipes shipped with the app and the
// filters the home page applies to it.
package catalog

import (
	"strings"

	"github.com/isdelr/recipe-collection-be/internal/models"
)

// CuisineAll disables the cuisine filter.
const CuisineAll = "All"

// Recipe categories used by the quick-filter buttons.
const (
	CategoryVegetarian    = "vegetarian"
	CategoryNonVegetarian = "non-vegetarian"
	CategoryDesserts      = "desserts"
	CategoryQuickMeals    = "quick-meals"
)

var recipes = []models.Recipe{
	{
		Name:       "Classic Margherita Pizza",
		Cuisine:    "Italian",
		Category:   CategoryVegetarian,
		Rating:     4.8,
		Difficulty: "Medium",
		Ingredients: `
- 2 1/4 cups all-purpose flour
- 1 tsp active dry yeast
- 1 cup warm water
- 1 tsp salt
- 1 tbsp olive oil
- 1 cup tomato sauce
- 8 oz fresh mozzarella
- Fresh basil leaves
- Extra virgin olive oil
`,
		Instructions: `
1. Mix flour, yeast, and salt in a bowl
2. Add warm water and olive oil, knead for 10 minutes
3. Let dough rise for 2 hours
4. Roll out dough and add toppings
5. Bake at 450°F for 15-20 minutes
`,
		CookingTime: "2 hours 30 minutes",
		Nutrition:   models.Nutrition{Calories: 250, Protein: 10, Carbs: 30, Fat: 8},
	},
	{
		Name:       "Butter Chicken",
		Cuisine:    "Indian",
		Category:   CategoryNonVegetarian,
		Rating:     4.9,
		Difficulty: "Medium",
		Ingredients: `
- 2 lbs chicken thighs
- 1 cup yogurt
- 2 tbsp ginger-garlic paste
- 2 tsp garam masala
- 1 tsp turmeric
- 2 cups tomato sauce
- 1 cup heavy cream
- 4 tbsp butter
- Fresh cilantro
`,
		Instructions: `
1. Marinate chicken in yogurt and spices
2. Cook chicken until golden
3. Prepare sauce with tomatoes and cream
4. Combine chicken and sauce
5. Garnish with cilantro
`,
		CookingTime: "1 hour",
		Nutrition:   models.Nutrition{Calories: 450, Protein: 35, Carbs: 12, Fat: 28},
	},
	{
		Name:       "Sushi Roll",
		Cuisine:    "Japanese",
		Category:   CategoryNonVegetarian,
		Rating:     4.7,
		Difficulty: "Hard",
		Ingredients: `
- 2 cups sushi rice
- 4 sheets nori
- 1 avocado
- 1 cucumber
- 8 oz fresh tuna
- Soy sauce
- Wasabi
- Pickled ginger
`,
		Instructions: `
1. Cook sushi rice with vinegar
2. Lay nori sheet on bamboo mat
3. Spread rice and add fillings
4. Roll tightly using the mat
5. Slice into pieces
`,
		CookingTime: "1 hour",
		Nutrition:   models.Nutrition{Calories: 320, Protein: 18, Carbs: 45, Fat: 9},
	},
	{
		Name:       "Chocolate Lava Cake",
		Cuisine:    "French",
		Category:   CategoryDesserts,
		Rating:     4.9,
		Difficulty: "Medium",
		Ingredients: `
- 6 oz dark chocolate
- 6 oz butter
- 3 eggs
- 3 egg yolks
- 1/2 cup sugar
- 1/4 cup flour
- Vanilla extract
- Powdered sugar
`,
		Instructions: `
1. Melt chocolate and butter
2. Mix eggs, sugar, and flour
3. Combine all ingredients
4. Pour into ramekins
5. Bake at 400°F for 12 minutes
`,
		CookingTime: "30 minutes",
		Nutrition:   models.Nutrition{Calories: 380, Protein: 6, Carbs: 35, Fat: 24},
	},
}

// Recipes returns a copy of the catalog in its fixed order.
func Recipes() []models.Recipe {
	out := make([]models.Recipe, len(recipes))
	copy(out, recipes)
	return out
}

// Find looks up a recipe by its exact name.
func Find(name string) (models.Recipe, bool) {
	for _, r := range recipes {
		if r.Name == name {
			return r, true
		}
	}
	return models.Recipe{}, false
}

// Cuisines lists the options of the cuisine dropdown, CuisineAll first.
func Cuisines() []string {
	return []string{CuisineAll, "Italian", "Indian", "Japanese", "French", "Mexican", "Chinese"}
}

// Categories lists the quick-filter categories.
func Categories() []string {
	return []string{CategoryVegetarian, CategoryNonVegetarian, CategoryDesserts, CategoryQuickMeals}
}

// IsCategory reports whether c is a known quick-filter category.
func IsCategory(c string) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ShoppingItems returns the ingredient lines of r that start with "-", trimmed.
func ShoppingItems(r models.Recipe) []string {
	var items []string
	for _, line := range strings.Split(r.Ingredients, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && strings.HasPrefix(line, "-") {
			items = append(items, line)
		}
	}
	return items
}
