// Package storage provides file-backed persistence for user accounts.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/soltrack/soltrack/internal/common"
	"github.com/soltrack/soltrack/internal/models"
)

// Seed account returned whenever the users file is missing or unreadable,
// so a fresh install is usable without registering.
const (
	SeedUserID         = "test-user-1"
	SeedUsername       = "test"
	seedPassword       = "test"
	seedRecoveryPhrase = "test abandon ability able about above absent absorb abstract absurd abuse access accident"
)

// UserStore persists user records as a single indented-JSON array file.
// Every operation performs a full load or load-mutate-save cycle; a single
// mutex serializes all of them, so concurrent registrations cannot race.
type UserStore struct {
	mu     sync.Mutex
	path   string
	logger *common.Logger
}

// NewUserStore creates a UserStore backed by the given file path.
func NewUserStore(logger *common.Logger, path string) *UserStore {
	return &UserStore{path: path, logger: logger}
}

// SeedUser returns the built-in default account.
func SeedUser() models.User {
	return models.User{
		ID:             SeedUserID,
		Username:       SeedUsername,
		Password:       seedPassword,
		RecoveryPhrase: seedRecoveryPhrase,
		CreatedAt:      time.Now(),
	}
}

// Load returns all user records. If the backing file is absent or unreadable,
// it returns the single seed record instead of an empty set.
func (s *UserStore) Load(ctx context.Context) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// loadLocked reads the backing file. Callers must hold s.mu.
func (s *UserStore) loadLocked() []models.User {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to read users file, serving seed user")
		}
		return []models.User{SeedUser()}
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Failed to parse users file, serving seed user")
		return []models.User{SeedUser()}
	}
	return users
}

// Save overwrites the backing file with the full record set.
func (s *UserStore) Save(ctx context.Context, users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(users)
}

// saveLocked writes the full record set atomically: marshal to indented JSON,
// write a temp file in the same directory, then rename into place.
// Callers must hold s.mu.
func (s *UserStore) saveLocked(users []models.User) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	jsonData, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	jsonData = append(jsonData, '\n')

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// AddUser appends a record and persists the full set. Username uniqueness is
// the caller's responsibility; check UserExists before calling.
func (s *UserStore) AddUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadLocked()
	users = append(users, user)
	if err := s.saveLocked(users); err != nil {
		return err
	}

	s.logger.Debug().Str("username", user.Username).Int("total", len(users)).Msg("User added")
	return nil
}

// FindUser returns the first record with a matching username, or false.
func (s *UserStore) FindUser(ctx context.Context, username string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.loadLocked() {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

// FindUserByID returns the record with a matching ID, or false.
func (s *UserStore) FindUserByID(ctx context.Context, id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.loadLocked() {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// UserExists reports whether any record has the given username.
func (s *UserStore) UserExists(ctx context.Context, username string) bool {
	_, ok := s.FindUser(ctx, username)
	return ok
}

// ValidateCredentials returns the first record whose username and plaintext
// password both match, or false for any mismatch. This is the sole
// authentication check in the system.
func (s *UserStore) ValidateCredentials(ctx context.Context, username, password string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.loadLocked() {
		if u.Username == username && u.Password == password {
			return u, true
		}
	}
	return models.User{}, false
}

// GetAllUsers returns a copy of all records so callers cannot mutate
// internal state through the returned slice.
func (s *UserStore) GetAllUsers(ctx context.Context) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.loadLocked()
	out := make([]models.User, len(users))
	copy(out, users)
	return out
}

// UserCount returns the number of stored records.
func (s *UserStore) UserCount(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loadLocked())
}
