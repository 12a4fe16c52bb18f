package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/opark001/vertex-gemini-web/internal/aiclient"
	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/engine"
	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/logging"
	"github.com/opark001/vertex-gemini-web/internal/outcome"
	"github.com/opark001/vertex-gemini-web/internal/prompt"
	"github.com/opark001/vertex-gemini-web/internal/stage"
)

var (
	// ErrSimulationFailed wraps any failure to obtain a model response. It is
	// never a loss: the stage is left untouched.
	ErrSimulationFailed       = errors.New("battle simulation failed")
	ErrInstructionUnavailable = errors.New("failed to load system prompt")
	ErrBattleInProgress       = errors.New("a battle is already being resolved")
	ErrStageUpdate            = errors.New("failed to update stage")
)

// Tuning is optional generation config applied to every simulation.
type Tuning struct {
	Temperature     *float64
	TopP            *float64
	MaxOutputTokens *int
}

// SimulationResult is the raw model answer for one battle.
type SimulationResult struct {
	Stage  game.StageLevel `json:"stage"`
	Model  string          `json:"model"`
	Prompt string          `json:"-"`
	Text   string          `json:"text"`
	Usage  json.RawMessage `json:"usageMetadata"`
}

// PlayResult is a resolved battle: the model answer, the parsed winner and
// the stage change it caused.
type PlayResult struct {
	Simulation *SimulationResult
	Outcome    game.Outcome
	Transition engine.Transition
}

// BattleService runs submissions through prompt assembly, the model, the
// outcome parser and the stage engine.
type BattleService struct {
	gen         aiclient.Generator
	assembler   *prompt.Assembler
	instruction prompt.InstructionSource
	parser      outcome.Parser
	engine      *engine.Engine
	history     HistoryRepo
	tuning      Tuning

	// one battle (or reset) at a time
	busy *semaphore.Weighted
}

// Deps groups the collaborators of a BattleService. History may be nil.
type Deps struct {
	Generator   aiclient.Generator
	Assembler   *prompt.Assembler
	Instruction prompt.InstructionSource
	Parser      outcome.Parser
	Engine      *engine.Engine
	History     HistoryRepo
	Tuning      Tuning
}

func NewBattleService(d Deps) *BattleService {
	p := d.Parser
	if p == nil {
		p = outcome.MarkerParser{}
	}
	return &BattleService{
		gen:         d.Generator,
		assembler:   d.Assembler,
		instruction: d.Instruction,
		parser:      p,
		engine:      d.Engine,
		history:     d.History,
		tuning:      d.Tuning,
		busy:        semaphore.NewWeighted(1),
	}
}

// IsValidation reports whether err is a submission validation error.
func IsValidation(err error) bool {
	var entryErr *prompt.EntryError
	return errors.Is(err, prompt.ErrTeamSize) || errors.As(err, &entryErr)
}

// Simulate validates team, builds the prompt for stage (coerced into range)
// and asks the model to resolve the battle. It does not touch the stage.
func (s *BattleService) Simulate(ctx context.Context, st game.StageLevel, team []game.RosterEntry) (*SimulationResult, error) {
	if err := prompt.ValidateTeam(team); err != nil {
		return nil, err
	}
	st = stage.Coerce(int(st))
	userPrompt := s.assembler.Build(st, team)

	instruction, err := s.instruction.Instruction(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrSimulationFailed, ErrInstructionUnavailable, err)
	}

	res, err := s.gen.GenerateText(ctx, aiclient.TextRequest{
		Prompt:            userPrompt,
		SystemInstruction: instruction,
		Temperature:       s.tuning.Temperature,
		TopP:              s.tuning.TopP,
		MaxOutputTokens:   s.tuning.MaxOutputTokens,
	})
	if err != nil {
		logging.Error("battle simulation failed", err, logging.Fields{constants.LogFieldStage: int(st)})
		return nil, fmt.Errorf("%w: %w", ErrSimulationFailed, err)
	}
	return &SimulationResult{Stage: st, Model: res.Model, Prompt: userPrompt, Text: res.Text, Usage: res.Usage}, nil
}

// Play resolves one battle at the current stage and applies the resulting
// transition. Validation errors and simulation failures leave the stage as
// it was. A second call while one is in flight fails with
// ErrBattleInProgress.
func (s *BattleService) Play(ctx context.Context, team []game.RosterEntry) (*PlayResult, error) {
	if err := prompt.ValidateTeam(team); err != nil {
		return nil, err
	}
	if !s.busy.TryAcquire(1) {
		return nil, ErrBattleInProgress
	}
	defer s.busy.Release(1)

	current := s.engine.Current(ctx)
	sim, err := s.Simulate(ctx, current, team)
	if err != nil {
		return nil, err
	}

	oc := s.parser.Parse(sim.Text)
	tr, err := s.engine.Apply(ctx, oc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStageUpdate, err)
	}
	s.record(ctx, sim, team, tr)
	return &PlayResult{Simulation: sim, Outcome: oc, Transition: tr}, nil
}

// ParseOutcome parses a client-supplied response. Anything other than a
// string is unparseable.
func (s *BattleService) ParseOutcome(v any) game.Outcome {
	return outcome.FromValue(s.parser, v)
}

// Reset returns the stage to the first level.
func (s *BattleService) Reset(ctx context.Context) (engine.Transition, error) {
	if !s.busy.TryAcquire(1) {
		return engine.Transition{}, ErrBattleInProgress
	}
	defer s.busy.Release(1)

	tr, err := s.engine.Reset(ctx)
	if err != nil {
		return tr, fmt.Errorf("%w: %w", ErrStageUpdate, err)
	}
	return tr, nil
}

// Stage returns the persisted stage.
func (s *BattleService) Stage(ctx context.Context) game.StageLevel {
	return s.engine.Current(ctx)
}
