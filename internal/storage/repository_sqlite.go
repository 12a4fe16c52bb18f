package storage

import (
	"context"
	"errors"
	"time"

	"github.com/opark001/vertex-gemini-web/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultHistoryLimit is used when RecentBattles is called with limit <= 0.
const DefaultHistoryLimit = 20

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Load(ctx context.Context, key string) (string, bool, error) {
	var e game.StageEntry
	if err := r.db.WithContext(ctx).Where(&game.StageEntry{Key: key}).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

// Save upserts the value under key.
func (r *sqliteRepository) Save(ctx context.Context, key, value string) error {
	e := game.StageEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (r *sqliteRepository) SaveBattle(ctx context.Context, rec *game.BattleRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *sqliteRepository) RecentBattles(ctx context.Context, limit int) ([]game.BattleRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var out []game.BattleRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
