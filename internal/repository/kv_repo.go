package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is one document of the key-value store.
type KVEntry struct {
	Key       string    `gorm:"column:doc_key;primaryKey;size:191"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (KVEntry) TableName() string { return "kv_entries" }

// KVRepository stores opaque string documents addressed by key.
type KVRepository struct {
	db *gorm.DB
}

func NewKVRepository(db *gorm.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the stored value. The bool is false when the key is absent.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var e KVEntry
	tx := r.db.WithContext(ctx).Where("doc_key = ?", key).First(&e)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, tx.Error
	}
	return e.Value, true, nil
}

func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	e := KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
}

func (r *KVRepository) Remove(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("doc_key = ?", key).Delete(&KVEntry{}).Error
}

func (r *KVRepository) DB() *gorm.DB {
	return r.db
}
