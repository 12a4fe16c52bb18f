// Package outcome decides who won a simulated battle from the model's text.
//
// The default parser matches a "승자: 팀A|팀B" marker in free-form output.
// This only works as long as the model follows the system instruction and
// emits the marker verbatim; a response that phrases the result any other
// way is reported as Unparseable, which the stage engine treats as a loss.
package outcome

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/unicode/norm"

	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/game"
)

const (
	userSideToken     = "팀A"
	opponentSideToken = "팀B"
)

// Parser extracts an outcome from a response text.
type Parser interface {
	Parse(text string) game.Outcome
}

// New returns the parser registered under name ("marker" or "structured").
// An empty name selects the marker parser.
func New(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", constants.ParserMarker:
		return MarkerParser{}, nil
	case constants.ParserStructured:
		return StructuredParser{}, nil
	default:
		return nil, fmt.Errorf("unknown outcome parser %q", name)
	}
}

// FromValue parses v when it is a string; any other type is Unparseable.
func FromValue(p Parser, v any) game.Outcome {
	s, ok := v.(string)
	if !ok {
		return game.OutcomeUnparseable
	}
	return p.Parse(s)
}

// markerSpace also covers Unicode spaces; RE2 \s is ASCII only.
const markerSpace = `[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

var winnerMarker = regexp.MustCompile(`승자` + markerSpace + `*:` + markerSpace + `*(팀A|팀B)`)

// MarkerParser looks for the first winner marker. Later markers are ignored.
type MarkerParser struct{}

func (MarkerParser) Parse(text string) game.Outcome {
	// Hangul may arrive decomposed (NFD); the pattern is written composed.
	m := winnerMarker.FindStringSubmatch(norm.NFC.String(text))
	if m == nil {
		return game.OutcomeUnparseable
	}
	return sideOutcome(m[1])
}

// StructuredParser reads a "winner" field from a JSON object in the response,
// for use with a structured-output system instruction. Code fences and
// surrounding prose are tolerated.
type StructuredParser struct{}

func (StructuredParser) Parse(text string) game.Outcome {
	obj := extractObject(text)
	if obj == "" || !gjson.Valid(obj) {
		return game.OutcomeUnparseable
	}
	w := gjson.Get(obj, "winner")
	if !w.Exists() || w.Type != gjson.String {
		return game.OutcomeUnparseable
	}
	return sideOutcome(w.String())
}

func extractObject(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func sideOutcome(token string) game.Outcome {
	t := strings.ToUpper(strings.ReplaceAll(norm.NFC.String(strings.TrimSpace(token)), " ", ""))
	switch t {
	case userSideToken, "A", "TEAMA", "TEAM_A":
		return game.OutcomeUserWin
	case opponentSideToken, "B", "TEAMB", "TEAM_B":
		return game.OutcomeOpponentWin
	default:
		return game.OutcomeUnparseable
	}
}
