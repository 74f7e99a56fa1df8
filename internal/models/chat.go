package models

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a conversation with the assistant.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// MealPlanEntry is a single planned meal.
type MealPlanEntry struct {
	Date string `json:"date"` // YYYY-MM-DD
	Meal string `json:"meal"`
}
