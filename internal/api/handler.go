package api

import (
	"context"

	"github.com/opark001/vertex-gemini-web/internal/aiclient"
	"github.com/opark001/vertex-gemini-web/internal/prompt"
	"github.com/opark001/vertex-gemini-web/internal/roster"
	"github.com/opark001/vertex-gemini-web/internal/service"
)

// ModelInfo describes the generative backend for the config endpoint.
// ProjectID may be nil when the backend has no project.
type ModelInfo struct {
	Backend    string
	Location   string
	TextModel  string
	ImageModel string
	ProjectID  func(ctx context.Context) string
}

// Handler groups the HTTP handlers.
type Handler struct {
	battles     *service.BattleService
	gen         aiclient.Generator
	roster      *roster.Registry
	instruction prompt.InstructionSource
	info        ModelInfo
}

func NewHandler(battles *service.BattleService, gen aiclient.Generator, reg *roster.Registry, instruction prompt.InstructionSource, info ModelInfo) *Handler {
	return &Handler{battles: battles, gen: gen, roster: reg, instruction: instruction, info: info}
}
