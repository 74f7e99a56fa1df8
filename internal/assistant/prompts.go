package assistant

import (
	"fmt"
	"strings"

	"github.com/isdelr/recipe-collection-be/internal/models"
)

// RecommendSystemPrompt is the system message of recommendation requests.
const RecommendSystemPrompt = "You are a helpful cooking assistant."

// RecommendationPrompt asks for three recipes tailored to profile.
func RecommendationPrompt(p models.Profile) string {
	var sb strings.Builder
	sb.WriteString("Based on the following user details, provide 3 personalized recipe recommendations:\n")
	fmt.Fprintf(&sb, "- Favorite cuisine: %s\n", p.FavoriteCuisine)
	fmt.Fprintf(&sb, "- Dietary restrictions: %s\n", p.DietaryRestrictions)
	fmt.Fprintf(&sb, "- Preferred ingredients: %s\n", p.PreferredIngredients)
	fmt.Fprintf(&sb, "- Ingredients to avoid: %s\n", p.IngredientsToAvoid)
	fmt.Fprintf(&sb, "- Cooking skill: %s\n", p.CookingSkill)
	fmt.Fprintf(&sb, "- Favorite meal: %s\n", p.FavoriteMeal)
	fmt.Fprintf(&sb, "- Spice level: %s\n", p.SpiceLevel)
	fmt.Fprintf(&sb, "- Cooking time preference: %s\n", p.CookingTimePreference)
	sb.WriteString(`
For each recipe, include:
1. Recipe name
2. List of ingredients
3. Step-by-step instructions
4. Estimated cooking time

Start each recipe with a line of the form "Recipe N: <name>".`)
	return sb.String()
}

// RecommendationMessages builds the transcript of a recommendation request.
func RecommendationMessages(p models.Profile) []models.ChatMessage {
	return []models.ChatMessage{
		{Role: models.RoleSystem, Content: RecommendSystemPrompt},
		{Role: models.RoleUser, Content: RecommendationPrompt(p)},
	}
}
