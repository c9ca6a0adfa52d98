package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Persisted key names
const (
	KeyToken = "auth_token"
	KeyUser  = "auth_user"
)

// Snapshot is the persisted session: an opaque bearer token and the
// JSON-serialized user profile. Both are empty when nobody is signed in.
type Snapshot struct {
	Token string `json:"auth_token"`
	User  string `json:"auth_user"`
}

// Store persists a Snapshot. Save and Clear are atomic: a reader never sees
// a token without its profile.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Clear(ctx context.Context) error
	Close() error
}

// sessionEntry is one row of the session_entries table
type sessionEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (sessionEntry) TableName() string { return "session_entries" }

// SQLiteStore keeps the session in the local sqlite database
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore creates a store over a migrated session database
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads both entries; missing entries come back empty
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	var entries []sessionEntry
	if err := s.db.WithContext(ctx).Where("`key` IN ?", []string{KeyToken, KeyUser}).Find(&entries).Error; err != nil {
		return Snapshot{}, fmt.Errorf("failed to load session: %w", err)
	}
	var snap Snapshot
	for _, e := range entries {
		switch e.Key {
		case KeyToken:
			snap.Token = e.Value
		case KeyUser:
			snap.User = e.Value
		}
	}
	return snap, nil
}

// Save writes both entries in one transaction
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entries := []sessionEntry{
			{Key: KeyToken, Value: snap.Token},
			{Key: KeyUser, Value: snap.User},
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entries).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes both entries in one statement
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("`key` IN ?", []string{KeyToken, KeyUser}).Delete(&sessionEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// KeyringServiceName is the OS keyring service the session is stored under
const KeyringServiceName = "clientadmin"

const keyringUser = "session"

// KeyringStore keeps the session as a single JSON blob in the OS keyring
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a store using the OS keyring
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: KeyringServiceName}
}

// Load reads the session blob; a missing blob is an empty session
func (s *KeyringStore) Load(_ context.Context) (Snapshot, error) {
	raw, err := keyring.Get(s.service, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to retrieve session from keyring: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode keyring session: %w", err)
	}
	return snap, nil
}

// Save replaces the session blob
func (s *KeyringStore) Save(_ context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := keyring.Set(s.service, keyringUser, string(raw)); err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// Clear deletes the session blob
func (s *KeyringStore) Clear(_ context.Context) error {
	if err := keyring.Delete(s.service, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	return nil
}

// Close is a no-op
func (s *KeyringStore) Close() error { return nil }

// MemoryStore keeps the session for the lifetime of the process
type MemoryStore struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the current snapshot
func (s *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, nil
}

// Save replaces the snapshot
func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

// Clear empties the snapshot
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{}
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }
