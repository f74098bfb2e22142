package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Keys mirrored by the client. Cart and auth keys are written independently,
// there is no transaction across them.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyCart         = "cart"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("localstore: key not found")

// Store persists raw snapshots under string keys.
// Implementations: SQLite file (default), Redis, in-memory (tests).
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Mirror wraps a Store with the client's failure policy: writes and reads
// never fail, a missing or undecodable value reads as absent and corrupt
// data is logged at warn level.
type Mirror struct {
	store Store
	log   *slog.Logger
}

func NewMirror(store Store, log *slog.Logger) *Mirror {
	return &Mirror{store: store, log: log}
}

func (m *Mirror) SaveJSON(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		m.log.Warn("localstore marshal failed", "key", key, "error", err)
		return
	}
	if err := m.store.Save(context.Background(), key, data); err != nil {
		m.log.Warn("localstore save failed", "key", key, "error", err)
	}
}

// LoadJSON reports whether dest was populated. Absence and decode failures
// both read as false.
func (m *Mirror) LoadJSON(key string, dest any) bool {
	data, err := m.store.Load(context.Background(), key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Warn("localstore load failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		m.log.Warn("localstore corrupt value", "key", key, "error", err)
		return false
	}
	return true
}

func (m *Mirror) SaveString(key, value string) {
	if err := m.store.Save(context.Background(), key, []byte(value)); err != nil {
		m.log.Warn("localstore save failed", "key", key, "error", err)
	}
}

func (m *Mirror) LoadString(key string) (string, bool) {
	data, err := m.store.Load(context.Background(), key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Warn("localstore load failed", "key", key, "error", err)
		}
		return "", false
	}
	return string(data), true
}

func (m *Mirror) Delete(key string) {
	if err := m.store.Delete(context.Background(), key); err != nil {
		m.log.Warn("localstore delete failed", "key", key, "error", err)
	}
}
