package kvstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted key.
type Entry struct {
	Key       string            `gorm:"column:entry_key;primaryKey;size:191"`
	Value     []byte            `gorm:"column:value;not null"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata"`
	UpdatedAt time.Time         `gorm:"column:updated_at;not null"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "kv_entries" }

type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{
		Key:   key,
		Value: value,
		Metadata: datatypes.JSONMap{
			"size":     len(value),
			"encoding": encodingOf(value),
		},
		UpdatedAt: s.now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "metadata", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

// Metadata returns the bookkeeping stored next to key.
func (s *GormStore) Metadata(ctx context.Context, key string) (map[string]any, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Select("entry_key", "metadata").Where("entry_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry.Metadata, nil
}
