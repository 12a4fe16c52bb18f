package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/stage"
)

type brokenBackend struct{ stage.MemoryBackend }

func (b *brokenBackend) Save(context.Context, string, string) error {
	return errors.New("disk full")
}

func newEngineAt(t *testing.T, s game.StageLevel, l ...Listener) *Engine {
	t.Helper()
	store := stage.NewStore(stage.NewMemoryBackend())
	if _, err := store.Set(context.Background(), int(s)); err != nil {
		t.Fatalf("seed stage: %v", err)
	}
	return New(store, l...)
}

func TestApplyScenarios(t *testing.T) {
	cases := []struct {
		name    string
		from    game.StageLevel
		outcome game.Outcome
		to      game.StageLevel
		signal  game.Signal
	}{
		{"win advances", 1, game.OutcomeUserWin, 2, game.SignalAdvanced},
		{"win on middle stage", 2, game.OutcomeUserWin, 3, game.SignalAdvanced},
		{"win on last stage clears", 3, game.OutcomeUserWin, 1, game.SignalCleared},
		{"unparseable defeats", 2, game.OutcomeUnparseable, 1, game.SignalDefeated},
		{"opponent win defeats", 3, game.OutcomeOpponentWin, 1, game.SignalDefeated},
		{"defeat on first stage", 1, game.OutcomeOpponentWin, 1, game.SignalDefeated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEngineAt(t, tc.from)
			tr, err := e.Apply(context.Background(), tc.outcome)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.From != tc.from || tr.To != tc.to || tr.Signal != tc.signal {
				t.Fatalf("got %+v, want from=%d to=%d signal=%s", tr, tc.from, tc.to, tc.signal)
			}
			if got := e.Current(context.Background()); got != tc.to {
				t.Fatalf("persisted stage = %d, want %d", got, tc.to)
			}
			if tr.Message == "" {
				t.Fatalf("expected a status message")
			}
		})
	}
}

func TestResetAlwaysReturnsToFirstStage(t *testing.T) {
	for s := game.MinStage; s <= game.MaxStage; s++ {
		e := newEngineAt(t, s)
		for i := 0; i < 2; i++ {
			tr, err := e.Reset(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.To != 1 || tr.Signal != game.SignalReset {
				t.Fatalf("reset from %d: got %+v", s, tr)
			}
		}
		if e.Current(context.Background()) != 1 {
			t.Fatalf("expected stage 1 after reset")
		}
	}
}

func TestListenersSeePersistedState(t *testing.T) {
	var e *Engine
	var seen []game.StageLevel
	e = newEngineAt(t, 1, func(tr Transition) {
		seen = append(seen, e.Current(context.Background()))
	})
	if _, err := e.Apply(context.Background(), game.OutcomeUserWin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 1 || seen[0] != 2 {
		t.Fatalf("listener should observe persisted stage 2, got %v", seen)
	}
}

func TestPersistFailureSkipsListeners(t *testing.T) {
	called := false
	e := New(stage.NewStore(&brokenBackend{}), func(Transition) { called = true })
	tr, err := e.Apply(context.Background(), game.OutcomeUserWin)
	if err == nil {
		t.Fatalf("expected persistence error")
	}
	if called {
		t.Fatalf("listener must not run when persisting fails")
	}
	if tr.To != 2 {
		t.Fatalf("expected attempted transition to stage 2, got %d", tr.To)
	}
}

func TestMessages(t *testing.T) {
	got := Message(Transition{To: 2, Signal: game.SignalAdvanced})
	if got != "승리! 다음 스테이지로 이동합니다 → 중 (2/3)" {
		t.Fatalf("unexpected advance message %q", got)
	}
}
