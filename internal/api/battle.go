package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opark001/vertex-gemini-web/internal/aiclient"
	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/service"
)

// Prompt returns the battle system instruction as plain text.
func (h *Handler) Prompt(c *gin.Context) {
	text, err := h.instruction.Instruction(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, constants.ErrFailedLoadSystemPrompt, nil)
		return
	}
	c.Data(http.StatusOK, constants.ContentTypeText, []byte(text))
}

type battleBody struct {
	Stage json.RawMessage `json:"stage"`
	TeamA json.RawMessage `json:"teamA"`
}

// BattleSimulate resolves one battle at the requested stage without
// touching the persisted stage.
func (h *Handler) BattleSimulate(c *gin.Context) {
	var body battleBody
	if !bindBody(c, &body) {
		return
	}
	team, err := decodeTeam(body.TeamA)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, err := h.battles.Simulate(c.Request.Context(), stageFromJSON(body.Stage), team)
	if err != nil {
		h.battleFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Battle plays one battle at the current stage and applies the resulting
// stage transition.
func (h *Handler) Battle(c *gin.Context) {
	var body battleBody
	if !bindBody(c, &body) {
		return
	}
	team, err := decodeTeam(body.TeamA)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	res, err := h.battles.Play(c.Request.Context(), team)
	if err != nil {
		h.battleFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"model":         res.Simulation.Model,
		"text":          res.Simulation.Text,
		"usageMetadata": res.Simulation.Usage,
		"outcome":       res.Outcome,
		"transition":    res.Transition,
		"stage":         h.stageView(res.Transition.To),
	})
}

func (h *Handler) battleFailure(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrBattleInProgress):
		respondError(c, http.StatusConflict, constants.ErrBattleInProgress, nil)
	case errors.Is(err, service.ErrStageUpdate):
		respondError(c, http.StatusInternalServerError, constants.ErrFailedUpdateStage, err.Error())
	case errors.Is(err, service.ErrInstructionUnavailable):
		respondError(c, http.StatusInternalServerError, constants.ErrBattleSimulationFailed, constants.ErrFailedLoadSystemPrompt)
	default:
		respondError(c, http.StatusInternalServerError, constants.ErrBattleSimulationFailed, aiclient.Details(err))
	}
}

type outcomeBody struct {
	Text interface{} `json:"text"`
}

// BattleOutcome parses a model response supplied by the client.
func (h *Handler) BattleOutcome(c *gin.Context) {
	var body outcomeBody
	if !bindBody(c, &body) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": h.battles.ParseOutcome(body.Text)})
}

type stageView struct {
	Stage  game.StageLevel `json:"stage"`
	Label  string          `json:"label"`
	Max    game.StageLevel `json:"maxStage"`
	Roster []rosterView    `json:"roster"`
}

type rosterView struct {
	Name    string `json:"name"`
	Ability string `json:"ability"`
	Image   string `json:"image,omitempty"`
}

func (h *Handler) stageView(s game.StageLevel) stageView {
	entries := h.roster.ForStage(s)
	out := stageView{Stage: s, Label: s.Label(), Max: game.MaxStage, Roster: make([]rosterView, 0, len(entries))}
	for _, e := range entries {
		img, _ := h.roster.ImagePath(e.Name)
		out.Roster = append(out.Roster, rosterView{Name: e.Name, Ability: e.Ability, Image: img})
	}
	return out
}

// GetStage returns the current stage with its opponents.
func (h *Handler) GetStage(c *gin.Context) {
	c.JSON(http.StatusOK, h.stageView(h.battles.Stage(c.Request.Context())))
}

// ResetStage returns to the first stage.
func (h *Handler) ResetStage(c *gin.Context) {
	tr, err := h.battles.Reset(c.Request.Context())
	if err != nil {
		h.battleFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transition": tr, "stage": h.stageView(tr.To)})
}

// ListRosters returns the opponents of every stage.
func (h *Handler) ListRosters(c *gin.Context) {
	out := make([]stageView, 0, game.MaxStage)
	for _, s := range h.roster.Stages() {
		out = append(out, h.stageView(s))
	}
	c.JSON(http.StatusOK, out)
}

// ListBattles returns recent battle history. ?limit=N is clamped by the
// service; a missing or non-numeric limit means the default.
func (h *Handler) ListBattles(c *gin.Context) {
	limit := 0
	if n, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = n
	}
	rows, err := h.battles.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, http.StatusInternalServerError, constants.ErrFailedFetchHistory, nil)
		return
	}
	out := make([]battleView, 0, len(rows))
	for _, r := range rows {
		out = append(out, battleView{
			ID:           r.ID,
			CreatedAt:    r.CreatedAt,
			Stage:        r.Stage,
			TeamKey:      r.TeamKey,
			ResponseText: r.ResponseText,
			Outcome:      r.Outcome,
			Signal:       r.Signal,
			NextStage:    r.NextStage,
		})
	}
	c.JSON(http.StatusOK, out)
}

type battleView struct {
	ID           uint            `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	Stage        game.StageLevel `json:"stage"`
	TeamKey      string          `json:"team_key"`
	ResponseText string          `json:"response_text"`
	Outcome      game.Outcome    `json:"outcome"`
	Signal       game.Signal     `json:"signal"`
	NextStage    game.StageLevel `json:"next_stage"`
}
