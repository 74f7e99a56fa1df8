// Package store persists registered users and their preferences.
package store

import (
	"errors"

	"github.com/isdelr/recipe-collection-be/internal/models"
)

// ErrUsernameTaken is returned by Append when the username is already present.
var ErrUsernameTaken = errors.New("username already exists")

// UserStore is the credential table. Rows are never edited or deleted.
type UserStore interface {
	// Init prepares the backing storage, creating an empty table if needed.
	Init() error
	// Load returns every user. Read failures are logged and yield an empty table.
	Load() []models.User
	// Append adds a user, rewriting the table.
	Append(user models.User) error
	// Find returns the first user whose username and password both match exactly.
	Find(username, password string) (models.User, bool)
}

// Contains reports whether username is present in users.
func Contains(users []models.User, username string) bool {
	for _, u := range users {
		if u.Username == username {
			return true
		}
	}
	return false
}

func find(users []models.User, username, password string) (models.User, bool) {
	for _, u := range users {
		if u.Username == username && u.Password == password {
			return u, true
		}
	}
	return models.User{}, false
}
