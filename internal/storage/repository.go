package storage

import (
	"context"

	"github.com/opark001/vertex-gemini-web/internal/game"
)

// Repository is the persistence surface used by the stage store and the
// battle service. Load and Save satisfy stage.Backend.
type Repository interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error

	// SaveBattle appends a history row. ID and timestamps are filled in.
	SaveBattle(ctx context.Context, rec *game.BattleRecord) error
	// RecentBattles returns up to limit rows, newest first.
	RecentBattles(ctx context.Context, limit int) ([]game.BattleRecord, error)
}
