package game

// Outcome is the winner determination extracted from a model response.
type Outcome string

const (
	OutcomeUserWin     Outcome = "user_win"
	OutcomeOpponentWin Outcome = "opponent_win"
	OutcomeUnparseable Outcome = "unparseable"
)

// Signal names the kind of stage transition that just happened.
type Signal string

const (
	SignalAdvanced Signal = "advanced"
	// SignalCleared fires when the last stage is won. The resulting stage is
	// the same as after a defeat, but the event is different.
	SignalCleared  Signal = "game_cleared"
	SignalDefeated Signal = "defeated"
	SignalReset    Signal = "reset"
)
