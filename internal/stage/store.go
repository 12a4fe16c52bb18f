// Package stage persists the player's current stage as a single clamped
// integer behind an injected key/value port.
package stage

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/logging"
)

// Backend is the persistence port. Values are stored as decimal strings so a
// corrupted or hand-edited value is handled the same way as an absent one.
type Backend interface {
	Load(ctx context.Context, key string) (value string, found bool, err error)
	Save(ctx context.Context, key, value string) error
}

// Store reads and writes the stage through a Backend.
type Store struct {
	backend Backend
	key     string
}

// NewStore returns a store persisting under the default "stage" key.
func NewStore(b Backend) *Store {
	return &Store{backend: b, key: constants.StageKey}
}

// Get returns the persisted stage. Absent, malformed or out-of-range values
// read as the first stage; backend failures are logged, never returned.
func (s *Store) Get(ctx context.Context) game.StageLevel {
	raw, found, err := s.backend.Load(ctx, s.key)
	if err != nil {
		logging.Error("stage load failed; defaulting to first stage", err, logging.Fields{constants.LogFieldKey: s.key})
		return game.MinStage
	}
	if !found {
		return game.MinStage
	}
	return Normalize(raw)
}

// Set clamps n into the valid range, persists it and returns the clamped
// value. The clamped value is returned even when persisting fails.
func (s *Store) Set(ctx context.Context, n int) (game.StageLevel, error) {
	v := Clamp(n)
	if err := s.backend.Save(ctx, s.key, strconv.Itoa(int(v))); err != nil {
		return v, err
	}
	return v, nil
}

// Clamp forces n into [MinStage, MaxStage].
func Clamp(n int) game.StageLevel {
	if n < int(game.MinStage) {
		return game.MinStage
	}
	if n > int(game.MaxStage) {
		return game.MaxStage
	}
	return game.StageLevel(n)
}

// ClampFloat truncates f and clamps it. Non-finite input yields MinStage.
func ClampFloat(f float64) game.StageLevel {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return game.MinStage
	}
	t := math.Trunc(f)
	if t < float64(game.MinStage) {
		return game.MinStage
	}
	if t > float64(game.MaxStage) {
		return game.MaxStage
	}
	return game.StageLevel(t)
}

// Normalize interprets a stored value. Anything that is not a valid stage
// number reads as MinStage; unlike Set, out-of-range values are not clamped.
func Normalize(raw string) game.StageLevel {
	n, ok := parseIntPrefix(raw)
	if !ok {
		return game.MinStage
	}
	v := game.StageLevel(n)
	if !v.Valid() {
		return game.MinStage
	}
	return v
}

// Coerce maps a submitted stage to a valid one: out of range becomes MinStage.
func Coerce(n int) game.StageLevel {
	v := game.StageLevel(n)
	if !v.Valid() {
		return game.MinStage
	}
	return v
}

// parseIntPrefix reads an optionally signed run of leading digits after
// leading whitespace ("2", " 3", "2abc", "2.9" → 2).
func parseIntPrefix(raw string) (int, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
