package models

import "strings"

// UserColumns is the header of the credential table, in file order.
var UserColumns = []string{
	"username",
	"password",
	"favorite_cuisine",
	"dietary_restrictions",
	"preferred_ingredients",
	"ingredients_to_avoid",
	"cooking_skill",
	"favorite_meal",
	"spice_level",
	"cooking_time_preference",
}

// User represents a registered account and its cooking preferences.
//
// The password is kept in plaintext. This is a known security limitation of the
// credential table format and is intentionally not changed here.
type User struct {
	Username              string `json:"username"`
	Password              string `json:"-"` // Never expose this to the client
	FavoriteCuisine       string `json:"favoriteCuisine"`
	DietaryRestrictions   string `json:"dietaryRestrictions"` // comma-joined
	PreferredIngredients  string `json:"preferredIngredients"`
	IngredientsToAvoid    string `json:"ingredientsToAvoid"`
	CookingSkill          string `json:"cookingSkill"`
	FavoriteMeal          string `json:"favoriteMeal"`
	SpiceLevel            string `json:"spiceLevel"`
	CookingTimePreference string `json:"cookingTimePreference"`
}

// Profile holds the preference fields used to personalise recommendations.
type Profile struct {
	FavoriteCuisine       string
	DietaryRestrictions   string
	PreferredIngredients  string
	IngredientsToAvoid    string
	CookingSkill          string
	FavoriteMeal          string
	SpiceLevel            string
	CookingTimePreference string
}

// Profile returns the user's preferences without credentials.
func (u User) Profile() Profile {
	return Profile{
		FavoriteCuisine:       u.FavoriteCuisine,
		DietaryRestrictions:   u.DietaryRestrictions,
		PreferredIngredients:  u.PreferredIngredients,
		IngredientsToAvoid:    u.IngredientsToAvoid,
		CookingSkill:          u.CookingSkill,
		FavoriteMeal:          u.FavoriteMeal,
		SpiceLevel:            u.SpiceLevel,
		CookingTimePreference: u.CookingTimePreference,
	}
}

// Restrictions splits the comma-joined dietary restrictions.
func (u User) Restrictions() []string {
	if strings.TrimSpace(u.DietaryRestrictions) == "" {
		return nil
	}
	parts := strings.Split(u.DietaryRestrictions, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Record returns the user as a row matching UserColumns.
func (u User) Record() []string {
	return []string{
		u.Username,
		u.Password,
		u.FavoriteCuisine,
		u.DietaryRestrictions,
		u.PreferredIngredients,
		u.IngredientsToAvoid,
		u.CookingSkill,
		u.FavoriteMeal,
		u.SpiceLevel,
		u.CookingTimePreference,
	}
}

// UserFromRecord builds a user from a row, using index to locate each column by name.
// Columns absent from index are left empty.
func UserFromRecord(record []string, index map[string]int) User {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return User{
		Username:              get("username"),
		Password:              get("password"),
		FavoriteCuisine:       get("favorite_cuisine"),
		DietaryRestrictions:   get("dietary_restrictions"),
		PreferredIngredients:  get("preferred_ingredients"),
		IngredientsToAvoid:    get("ingredients_to_avoid"),
		CookingSkill:          get("cooking_skill"),
		FavoriteMeal:          get("favorite_meal"),
		SpiceLevel:            get("spice_level"),
		CookingTimePreference: get("cooking_time_preference"),
	}
}
