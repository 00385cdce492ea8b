package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/presenttv/client/internal/models"
)

// FileStore keeps sessions in a JSON file readable only by the current user.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store writing to path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type fileRecord struct {
	ContextID    string    `json:"contextId"`
	SessionToken string    `json:"sessionToken"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	SavedAt      time.Time `json:"savedAt"`
}

func (s *FileStore) load() (map[string]fileRecord, error) {
	records := make(map[string]fileRecord)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w", s.path, err)
	}
	return records, nil
}

func (s *FileStore) store(records map[string]fileRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Save stores the session under profile.
func (s *FileStore) Save(_ context.Context, profile string, session models.SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records[profile] = fileRecord{
		ContextID:    session.ID,
		SessionToken: session.SessionToken,
		UserID:       session.User.ID,
		Username:     session.User.Username,
		SavedAt:      time.Now().UTC(),
	}
	return s.store(records)
}

// Find loads the session stored under profile. Only the user's id and
// username survive the round trip.
func (s *FileStore) Find(_ context.Context, profile string) (models.SessionContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return models.SessionContext{}, err
	}
	rec, ok := records[profile]
	if !ok {
		return models.SessionContext{}, ErrSessionNotFound
	}
	return models.SessionContext{
		ID:           rec.ContextID,
		SessionToken: rec.SessionToken,
		User:         models.User{ID: rec.UserID, Username: rec.Username},
		UpdatedAt:    rec.SavedAt,
	}, nil
}

// Delete removes the session stored under profile.
func (s *FileStore) Delete(_ context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := records[profile]; !ok {
		return ErrSessionNotFound
	}
	delete(records, profile)
	return s.store(records)
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)
