package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medinasouk/storefront-backend/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type kvEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLiteBackend persists shopper state in the local state file.
type SQLiteBackend struct {
	client *db.Client
}

// NewSQLiteBackend prepares the kv table and returns the backend.
func NewSQLiteBackend(client *db.Client) (*SQLiteBackend, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if err := client.DB().AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrating kv table: %w", err)
	}
	return &SQLiteBackend{client: client}, nil
}

func (s *SQLiteBackend) Read(ctx context.Context, key string) (string, error) {
	var entry kvEntry
	err := s.client.DB().WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return entry.Value, nil
}

func (s *SQLiteBackend) Write(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *SQLiteBackend) Remove(ctx context.Context, key string) error {
	return s.client.DB().WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
}
