// Package roster holds the fixed opponent line-up for each stage and the
// name → portrait mapping used by the board.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opark001/vertex-gemini-web/internal/game"
)

var (
	ErrWrongRosterSize = errors.New("each stage needs exactly 3 roster entries")
	ErrEmptyEntry      = errors.New("roster entry requires non-empty name and ability")
	ErrMissingStage    = errors.New("roster is missing a stage")
	ErrDuplicateName   = errors.New("duplicate roster name within a stage")
)

// Registry is an immutable stage → opponents lookup.
type Registry struct {
	byStage   map[game.StageLevel][]game.RosterEntry
	imageKeys map[string]string
}

var defaultRosters = map[game.StageLevel][]game.RosterEntry{
	1: {
		{Name: "조환규", Ability: "네스파 폭격(난해한 알고리즘 과제 지속 폭격)"},
		{Name: "채흥석", Ability: "학점 폭격(엄격 평가/F학점 투하)"},
		{Name: "김정구", Ability: "발표 지목(불시 발표 유도)"},
	},
	2: {
		{Name: "아카자", Ability: "무도가·재생·기척감지"},
		{Name: "조커", Ability: "칼·기만·무자비(근접 약점)"},
		{Name: "쿠파", Ability: "납치·피지컬·등껍질 방어(느림)"},
	},
	3: {
		{Name: "시진핑", Ability: "만리방화벽(검열·정보왜곡·여론조작)"},
		{Name: "트럼프", Ability: "관세 폭탄(무역·경제 압박)"},
		{Name: "김정은", Ability: "화성 미사일(ICBM·핵 위협)"},
	},
}

var defaultImageKeys = map[string]string{
	"시진핑": "ping",
	"트럼프": "trump",
	"김정은": "north",
	"아카자": "kaza",
	"조커":  "joker",
	"쿠파":  "cupa",
	"조환규": "cho",
	"채흥석": "chae",
	"김정구": "gu",
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := New(defaultRosters, defaultImageKeys)
	if err != nil {
		// built-in data is covered by tests
		panic(err)
	}
	return r
}

// DefaultRosters returns a copy of the built-in opponent rosters.
func DefaultRosters() map[game.StageLevel][]game.RosterEntry {
	out := make(map[game.StageLevel][]game.RosterEntry, len(defaultRosters))
	for s, entries := range defaultRosters {
		out[s] = append([]game.RosterEntry(nil), entries...)
	}
	return out
}

// DefaultImageKeys returns a copy of the built-in name to image key table.
func DefaultImageKeys() map[string]string {
	out := make(map[string]string, len(defaultImageKeys))
	for k, v := range defaultImageKeys {
		out[k] = v
	}
	return out
}

// New builds a registry from the given data after validating it. The maps
// are copied so later mutation by the caller has no effect.
func New(rosters map[game.StageLevel][]game.RosterEntry, imageKeys map[string]string) (*Registry, error) {
	if err := Validate(rosters); err != nil {
		return nil, err
	}
	r := &Registry{
		byStage:   make(map[game.StageLevel][]game.RosterEntry, len(rosters)),
		imageKeys: make(map[string]string, len(imageKeys)),
	}
	for s, entries := range rosters {
		cp := make([]game.RosterEntry, len(entries))
		copy(cp, entries)
		r.byStage[s] = cp
	}
	for name, key := range imageKeys {
		r.imageKeys[strings.TrimSpace(name)] = strings.TrimSpace(key)
	}
	return r, nil
}

// Validate checks that every stage has exactly three complete, uniquely
// named entries.
func Validate(rosters map[game.StageLevel][]game.RosterEntry) error {
	for s := game.MinStage; s <= game.MaxStage; s++ {
		entries, ok := rosters[s]
		if !ok {
			return fmt.Errorf("stage %d: %w", s, ErrMissingStage)
		}
		if len(entries) != game.TeamSize {
			return fmt.Errorf("stage %d has %d entries: %w", s, len(entries), ErrWrongRosterSize)
		}
		seen := make(map[string]struct{}, len(entries))
		for i, e := range entries {
			name := strings.TrimSpace(e.Name)
			if name == "" || strings.TrimSpace(e.Ability) == "" {
				return fmt.Errorf("stage %d entry %d: %w", s, i, ErrEmptyEntry)
			}
			ln := strings.ToLower(name)
			if _, dup := seen[ln]; dup {
				return fmt.Errorf("stage %d name %q: %w", s, name, ErrDuplicateName)
			}
			seen[ln] = struct{}{}
		}
	}
	return nil
}

// ForStage returns the opponents for a stage. Out-of-range stages fall back
// to the first stage, mirroring how submissions are coerced.
func (r *Registry) ForStage(stage game.StageLevel) []game.RosterEntry {
	if !stage.Valid() {
		stage = game.MinStage
	}
	src := r.byStage[stage]
	out := make([]game.RosterEntry, len(src))
	copy(out, src)
	return out
}

// ImageKeyForName returns the asset key for a roster name. A missing key is
// normal; callers render a placeholder.
func (r *Registry) ImageKeyForName(name string) (string, bool) {
	key, ok := r.imageKeys[strings.TrimSpace(name)]
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// ImagePath returns the public URL path of a roster portrait.
func (r *Registry) ImagePath(name string) (string, bool) {
	key, ok := r.ImageKeyForName(name)
	if !ok {
		return "", false
	}
	return "/images/" + key + ".png", true
}

// Stages lists the valid stages in ascending order.
func (r *Registry) Stages() []game.StageLevel {
	out := make([]game.StageLevel, 0, int(game.MaxStage))
	for s := game.MinStage; s <= game.MaxStage; s++ {
		out = append(out, s)
	}
	return out
}
