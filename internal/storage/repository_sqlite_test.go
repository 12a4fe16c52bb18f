package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/stage"
)

func newRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "nested", "battle.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewSQLiteRepository(db)
}

func TestLoadMissingKey(t *testing.T) {
	r := newRepo(t)
	v, found, err := r.Load(context.Background(), "stage")
	if err != nil || found || v != "" {
		t.Fatalf("expected absent key, got %q %v %v", v, found, err)
	}
}

func TestSaveUpserts(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	if err := r.Save(ctx, "stage", "2"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := r.Save(ctx, "stage", "3"); err != nil {
		t.Fatalf("second save: %v", err)
	}
	v, found, err := r.Load(ctx, "stage")
	if err != nil || !found || v != "3" {
		t.Fatalf("expected 3, got %q %v %v", v, found, err)
	}
}

func TestRepositoryBacksStageStore(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	s := stage.NewStore(r)
	if got := s.Get(ctx); got != game.MinStage {
		t.Fatalf("fresh store should read 1, got %d", got)
	}
	if got, err := s.Set(ctx, 7); err != nil || got != game.MaxStage {
		t.Fatalf("Set(7) = %d, %v", got, err)
	}
	if got := s.Get(ctx); got != game.MaxStage {
		t.Fatalf("expected persisted 3, got %d", got)
	}
	// Corrupted value reads as the first stage.
	if err := r.Save(ctx, "stage", "banana"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := s.Get(ctx); got != game.MinStage {
		t.Fatalf("expected 1 for malformed value, got %d", got)
	}
}

func TestRecentBattlesNewestFirst(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		rec := &game.BattleRecord{Stage: game.StageLevel(i), TeamKey: "a_b_c", Outcome: game.OutcomeUserWin, Signal: game.SignalAdvanced}
		if err := r.SaveBattle(ctx, rec); err != nil {
			t.Fatalf("save battle: %v", err)
		}
		if rec.ID == 0 {
			t.Fatalf("expected id to be assigned")
		}
	}
	got, err := r.RecentBattles(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].Stage != 3 || got[1].Stage != 2 {
		t.Fatalf("unexpected order: %+v", got)
	}
	all, err := r.RecentBattles(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected default limit to return all 3, got %d %v", len(all), err)
	}
}
