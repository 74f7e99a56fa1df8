package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/isdelr/recipe-collection-be/internal/models"
	"github.com/rs/zerolog/log"
)

// CSVStore keeps users in a single CSV file with a header row.
// Every write rewrites the whole file.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore creates a store backed by the file at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Init writes a header-only file if none exists.
func (s *CSVStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat user data file: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create user data directory: %w", err)
		}
	}
	return s.write(nil)
}

// Load reads all users. A missing file is an empty table; unreadable or
// malformed files are logged and also treated as empty.
func (s *CSVStore) Load() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to load user data, using empty table")
		return []models.User{}
	}
	return users
}

// Append adds user and rewrites the table. The username must not exist yet.
func (s *CSVStore) Append(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		// Rewriting from an empty table here would drop every existing row.
		return fmt.Errorf("failed to load user data before append: %w", err)
	}
	if Contains(users, user.Username) {
		return ErrUsernameTaken
	}
	return s.write(append(users, user))
}

// Find scans the table for an exact username and password match.
func (s *CSVStore) Find(username, password string) (models.User, bool) {
	return find(s.Load(), username, password)
}

func (s *CSVStore) read() ([]models.User, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.User{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.User{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}
	if _, ok := index["username"]; !ok {
		return nil, fmt.Errorf("missing username column in header %v", header)
	}

	users := []models.User{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse user data: %w", err)
		}
		users = append(users, models.UserFromRecord(record, index))
	}
	return users, nil
}

// write replaces the file via a temp file in the same directory.
func (s *CSVStore) write(users []models.User) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".user_data-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp user data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(models.UserColumns); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, u := range users {
		if err := w.Write(u.Record()); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write user %s: %w", u.Username, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush user data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp user data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace user data file: %w", err)
	}
	return nil
}
