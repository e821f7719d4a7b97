package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/garyjia/station-report/internal/application/port"
	"go.uber.org/zap"
)

// PreferenceStore persists operator preferences in the preferences table
type PreferenceStore struct {
	db     *DB
	logger *zap.Logger
}

// NewPreferenceStore creates a new PreferenceStore
func NewPreferenceStore(db *DB, logger *zap.Logger) *PreferenceStore {
	return &PreferenceStore{db: db, logger: logger}
}

// Get implements port.PersistenceStore
func (s *PreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.executor(ctx).
		QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}
	return value, true, nil
}

// Put implements port.PersistenceStore
func (s *PreferenceStore) Put(ctx context.Context, entries map[string]string) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		for _, k := range keys {
			_, err := s.db.executor(ctx).ExecContext(ctx, `
				INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
			`, k, entries[k])
			if err != nil {
				return fmt.Errorf("failed to put preference %s: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Preferences saved", zap.Strings("keys", keys))
	return nil
}

var _ port.PersistenceStore = (*PreferenceStore)(nil)
