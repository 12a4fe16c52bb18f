package game

import (
	"time"

	"gorm.io/gorm"
)

// StageLevel is the player's progression tier. Valid values are MinStage..MaxStage.
type StageLevel int

const (
	MinStage StageLevel = 1
	MaxStage StageLevel = 3

	// TeamSize is the number of entries on each side of a battle.
	TeamSize = 3
)

// Valid reports whether s is inside [MinStage, MaxStage].
func (s StageLevel) Valid() bool {
	return s >= MinStage && s <= MaxStage
}

var stageLabels = map[StageLevel]string{
	1: "하",
	2: "중",
	3: "상",
}

// Label returns the difficulty name shown to players (하/중/상).
func (s StageLevel) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return stageLabels[MinStage]
}

// RosterEntry is one combatant: a name and a free-text ability.
type RosterEntry struct {
	Name    string `json:"name" yaml:"name"`
	Ability string `json:"ability" yaml:"ability"`
}

// BattleRequest is a single submission: the stage it is fought at and the
// player's three entries in submitted order.
type BattleRequest struct {
	Stage    StageLevel    `json:"stage"`
	UserTeam []RosterEntry `json:"teamA"`
}

// StageEntry is the persisted key/value row backing the stage store.
type StageEntry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:64"`
	UpdatedAt time.Time
}

// TableName keeps the key/value table name stable across renames of the struct.
func (StageEntry) TableName() string { return "stage_entries" }

// BattleRecord is an append-only history row for a played battle. It never
// feeds back into stage progression.
type BattleRecord struct {
	gorm.Model
	Stage        StageLevel `json:"stage"`
	TeamKey      string     `json:"team_key" gorm:"index;size:256"`
	Prompt       string     `json:"prompt"`
	ResponseText string     `json:"response_text"`
	Outcome      Outcome    `json:"outcome" gorm:"size:16"`
	Signal       Signal     `json:"signal" gorm:"size:16"`
	NextStage    StageLevel `json:"next_stage"`
}

// TableName overrides the default GORM table name.
func (BattleRecord) TableName() string { return "battle_history" }
