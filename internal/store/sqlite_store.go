package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/isdelr/recipe-collection-be/internal/database"
	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/rs/zerolog/log"
)

const selectUsers = `
	SELECT username, password, favorite_cuisine, dietary_restrictions, preferred_ingredients,
	       ingredients_to_avoid, cooking_skill, favorite_meal, spice_level, cooking_time_preference
	FROM users`

// SQLiteStore keeps users in the users table of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore creates a store on an open database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Init applies the schema.
func (s *SQLiteStore) Init() error {
	if err := database.Migrate(s.db); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Load returns all users in insertion order.
func (s *SQLiteStore) Load() []models.User {
	rows, err := s.db.Query(selectUsers + " ORDER BY rowid")
	if err != nil {
		log.Error().Err(err).Msg("Failed to load users, using empty table")
		return []models.User{}
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		log.Error().Err(err).Msg("Failed to scan users, using empty table")
		return []models.User{}
	}
	return users
}

// Append inserts user. Usernames are unique in the table.
func (s *SQLiteStore) Append(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ?", user.Username).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if exists > 0 {
		return ErrUsernameTaken
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO users (username, password, favorite_cuisine, dietary_restrictions, preferred_ingredients,
		                   ingredients_to_avoid, cooking_skill, favorite_meal, spice_level, cooking_time_preference)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	record := user.Record()
	args := make([]interface{}, len(record))
	for i, v := range record {
		args[i] = v
	}
	if _, err := stmt.Exec(args...); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Find returns the user matching both fields exactly.
func (s *SQLiteStore) Find(username, password string) (models.User, bool) {
	rows, err := s.db.Query(selectUsers+" WHERE username = ? AND password = ? ORDER BY rowid LIMIT 1", username, password)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to look up user")
		return models.User{}, false
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil || len(users) == 0 {
		return models.User{}, false
	}
	return users[0], true
}

// scanUsers is a helper function to scan multiple rows into a slice of Users.
func scanUsers(rows *sql.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.Username,
			&u.Password,
			&u.FavoriteCuisine,
			&u.DietaryRestrictions,
			&u.PreferredIngredients,
			&u.IngredientsToAvoid,
			&u.CookingSkill,
			&u.FavoriteMeal,
			&u.SpiceLevel,
			&u.CookingTimePreference,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
