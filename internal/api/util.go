package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/prompt"
	"github.com/opark001/vertex-gemini-web/internal/stage"
)

// respondError writes the {"error", "details"} shape. details is omitted
// when nil.
func respondError(c *gin.Context, status int, msg string, details interface{}) {
	body := gin.H{constants.JSONKeyError: msg}
	if details != nil {
		body[constants.JSONKeyDetails] = details
	}
	c.AbortWithStatusJSON(status, body)
}

// bindLoose decodes the JSON body into out. An empty body decodes as {}.
func bindLoose(c *gin.Context, out interface{}) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// bindBody is bindLoose plus the error response: 413 when the body hit the
// size cap, 400 otherwise. It reports whether the handler may continue.
func bindBody(c *gin.Context, out interface{}) bool {
	err := bindLoose(c, out)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, constants.ErrBodyTooLarge, nil)
		return false
	}
	respondError(c, http.StatusBadRequest, constants.ErrInvalidRequest, err.Error())
	return false
}

// optString returns v when it is a non-empty string.
func optString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// optNumber returns v when it is a JSON number; other types are ignored.
func optNumber(v interface{}) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func optInt(v interface{}) *int {
	f := optNumber(v)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// stageFromJSON applies integer-prefix parsing to a number or string value;
// anything unusable reads as the first stage.
func stageFromJSON(raw json.RawMessage) game.StageLevel {
	if len(raw) == 0 {
		return game.MinStage
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return stage.Normalize(s)
	}
	return stage.Normalize(string(raw))
}

// decodeTeam turns the raw teamA value into entries. Shape errors map onto
// the same errors prompt.ValidateTeam returns; blank fields are left for it.
func decodeTeam(raw json.RawMessage) ([]game.RosterEntry, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) != game.TeamSize {
		return nil, prompt.ErrTeamSize
	}
	team := make([]game.RosterEntry, len(items))
	for i, it := range items {
		var e struct {
			Name    *string `json:"name"`
			Ability *string `json:"ability"`
		}
		if err := json.Unmarshal(it, &e); err != nil || e.Name == nil || e.Ability == nil {
			return nil, &prompt.EntryError{Index: i}
		}
		team[i] = game.RosterEntry{Name: *e.Name, Ability: *e.Ability}
	}
	if err := prompt.ValidateTeam(team); err != nil {
		return nil, err
	}
	return team, nil
}
