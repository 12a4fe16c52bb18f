// Package engine drives stage progression from battle outcomes.
package engine

import (
	"context"
	"fmt"

	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/logging"
	"github.com/opark001/vertex-gemini-web/internal/stage"
)

// Transition describes one stage change.
type Transition struct {
	From    game.StageLevel `json:"from"`
	To      game.StageLevel `json:"to"`
	Outcome game.Outcome    `json:"outcome,omitempty"`
	Signal  game.Signal     `json:"signal"`
	Message string          `json:"message"`
}

// Listener is notified after a transition has been persisted.
type Listener func(Transition)

// Engine owns the stage store; nothing else writes to it.
type Engine struct {
	store     *stage.Store
	listeners []Listener
}

func New(store *stage.Store, listeners ...Listener) *Engine {
	return &Engine{store: store, listeners: listeners}
}

// Current returns the persisted stage.
func (e *Engine) Current(ctx context.Context) game.StageLevel {
	return e.store.Get(ctx)
}

// Next is the pure transition function. A win advances one stage, a win on
// the last stage clears the game, anything else (including an unparseable
// result) sends the player back to the first stage.
func Next(from game.StageLevel, outcome game.Outcome) (game.StageLevel, game.Signal) {
	if outcome == game.OutcomeUserWin {
		if from < game.MaxStage {
			return from + 1, game.SignalAdvanced
		}
		return game.MinStage, game.SignalCleared
	}
	return game.MinStage, game.SignalDefeated
}

// Apply reads the current stage, computes the next one for outcome, persists
// it and then notifies listeners. On a persistence error listeners are not
// called and the error is returned with the attempted transition.
func (e *Engine) Apply(ctx context.Context, outcome game.Outcome) (Transition, error) {
	from := e.store.Get(ctx)
	to, sig := Next(from, outcome)
	return e.commit(ctx, Transition{From: from, To: to, Outcome: outcome, Signal: sig})
}

// Reset unconditionally returns to the first stage.
func (e *Engine) Reset(ctx context.Context) (Transition, error) {
	from := e.store.Get(ctx)
	return e.commit(ctx, Transition{From: from, To: game.MinStage, Signal: game.SignalReset})
}

func (e *Engine) commit(ctx context.Context, t Transition) (Transition, error) {
	saved, err := e.store.Set(ctx, int(t.To))
	t.To = saved
	t.Message = Message(t)
	if err != nil {
		return t, fmt.Errorf("persist stage %d: %w", t.To, err)
	}
	logging.Info("stage transition", logging.Fields{
		constants.LogFieldStage:     int(t.From),
		constants.LogFieldNextStage: int(t.To),
		constants.LogFieldSignal:    string(t.Signal),
		constants.LogFieldOutcome:   string(t.Outcome),
	})
	for _, l := range e.listeners {
		l(t)
	}
	return t, nil
}

// Message is the status line shown to the player for a transition.
func Message(t Transition) string {
	switch t.Signal {
	case game.SignalAdvanced:
		return fmt.Sprintf("승리! 다음 스테이지로 이동합니다 → %s (%d/%d)", t.To.Label(), t.To, game.MaxStage)
	case game.SignalCleared:
		return "게임 클리어! 스테이지가 처음(하)으로 초기화되었습니다."
	case game.SignalDefeated:
		return "패배. 스테이지가 하(1)로 리셋되었습니다."
	case game.SignalReset:
		return "스테이지를 하(1)로 초기화했습니다."
	default:
		return ""
	}
}
