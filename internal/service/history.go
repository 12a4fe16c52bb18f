package service

import (
	"context"

	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/engine"
	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/keys"
	"github.com/opark001/vertex-gemini-web/internal/logging"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// HistoryRepo stores played battles. It is write-only from the point of
// view of stage progression.
type HistoryRepo interface {
	SaveBattle(ctx context.Context, rec *game.BattleRecord) error
	RecentBattles(ctx context.Context, limit int) ([]game.BattleRecord, error)
}

// History returns up to limit recent battles, newest first. limit is
// clamped to [1, MaxHistoryLimit]; zero or negative means the default.
func (s *BattleService) History(ctx context.Context, limit int) ([]game.BattleRecord, error) {
	if s.history == nil {
		return []game.BattleRecord{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.history.RecentBattles(ctx, limit)
}

// record appends a history row. Failures are logged and never undo the
// transition that already happened.
func (s *BattleService) record(ctx context.Context, sim *SimulationResult, team []game.RosterEntry, tr engine.Transition) {
	if s.history == nil {
		return
	}
	rec := &game.BattleRecord{
		Stage:        tr.From,
		TeamKey:      keys.TeamKey(team),
		Prompt:       sim.Prompt,
		ResponseText: sim.Text,
		Outcome:      tr.Outcome,
		Signal:       tr.Signal,
		NextStage:    tr.To,
	}
	if err := s.history.SaveBattle(ctx, rec); err != nil {
		logging.Error("failed to save battle history", err, logging.Fields{constants.LogFieldStage: int(tr.From)})
	}
}
