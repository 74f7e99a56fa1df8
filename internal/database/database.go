package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New opens the SQLite database at path and checks the connection.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		username TEXT NOT NULL PRIMARY KEY,
		password TEXT NOT NULL,
		favorite_cuisine TEXT NOT NULL DEFAULT '',
		dietary_restrictions TEXT NOT NULL DEFAULT '', -- comma-joined
		preferred_ingredients TEXT NOT NULL DEFAULT '',
		ingredients_to_avoid TEXT NOT NULL DEFAULT '',
		cooking_skill TEXT NOT NULL DEFAULT '',
		favorite_meal TEXT NOT NULL DEFAULT '',
		spice_level TEXT NOT NULL DEFAULT '',
		cooking_time_preference TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
