// Package prompt turns a battle submission into the user prompt sent to the
// text model and supplies the fixed system instruction that primes it.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/roster"
)

const (
	teamAHeading = "팀 A"
	teamBHeading = "팀 B"
	lineFormat   = "- 이름: %s / 능력: %s"
)

// ErrTeamSize is returned when a submission does not have exactly three entries.
var ErrTeamSize = errors.New("teamA must be an array of 3 items")

// EntryError reports the first incomplete entry of a submission.
type EntryError struct {
	Index int
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("teamA[%d] requires non-empty name and ability", e.Index)
}

// ValidateTeam checks that team has three entries with non-empty trimmed
// name and ability. Callers must validate before building a prompt.
func ValidateTeam(team []game.RosterEntry) error {
	if len(team) != game.TeamSize {
		return ErrTeamSize
	}
	for i, e := range team {
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Ability) == "" {
			return &EntryError{Index: i}
		}
	}
	return nil
}

// Assembler builds battle prompts against a roster registry.
type Assembler struct {
	roster *roster.Registry
}

func NewAssembler(r *roster.Registry) *Assembler {
	return &Assembler{roster: r}
}

// Build lists the user's entries under the team A heading in submitted
// order, then the stage's opponents under the team B heading, one line each.
func (a *Assembler) Build(stage game.StageLevel, userTeam []game.RosterEntry) string {
	opponents := a.roster.ForStage(stage)
	lines := make([]string, 0, len(userTeam)+len(opponents)+2)
	lines = append(lines, teamAHeading)
	for _, e := range userTeam {
		lines = append(lines, fmt.Sprintf(lineFormat, strings.TrimSpace(e.Name), strings.TrimSpace(e.Ability)))
	}
	lines = append(lines, teamBHeading)
	for _, e := range opponents {
		lines = append(lines, fmt.Sprintf(lineFormat, e.Name, e.Ability))
	}
	return strings.Join(lines, "\n")
}
