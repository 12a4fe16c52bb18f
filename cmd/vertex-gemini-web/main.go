package main

import (
	"context"
	"net/http"

	"github.com/opark001/vertex-gemini-web/internal/api"
	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/engine"
	"github.com/opark001/vertex-gemini-web/internal/logging"
	"github.com/opark001/vertex-gemini-web/internal/outcome"
	"github.com/opark001/vertex-gemini-web/internal/prompt"
	"github.com/opark001/vertex-gemini-web/internal/service"
	"github.com/opark001/vertex-gemini-web/internal/stage"
)

func main() {
	defer logging.Sync()

	cfg := loadConfigOrExit()
	var (
		backend stage.Backend
		history service.HistoryRepo
	)
	if cfg.DBPath == "" || cfg.DBPath == constants.DBInMemory {
		logging.Warn("BATTLE_DB disabled; stage is kept in memory and history is disabled", nil)
		backend = stage.NewMemoryBackend()
	} else {
		repo := createRepositoryOrExit(cfg.DBPath)
		backend, history = repo, repo
	}

	gen, info := newGeneratorOrExit(context.Background(), cfg)

	parser, err := outcome.New(cfg.OutcomeParser)
	if err != nil {
		logging.Fatal("Invalid outcome parser", err, logging.Fields{"parser": cfg.OutcomeParser})
	}

	// The system prompt is re-read whenever the file changes on disk.
	instruction := prompt.NewFileInstruction(cfg.SystemPromptPath)
	if err := instruction.Watch(); err != nil {
		logging.Warn("system prompt watcher disabled", logging.Fields{"path": cfg.SystemPromptPath, "error": err.Error()})
	}
	defer instruction.Close()

	eng := engine.New(stage.NewStore(backend))
	battles := service.NewBattleService(service.Deps{
		Generator:   gen,
		Assembler:   prompt.NewAssembler(cfg.Roster),
		Instruction: instruction,
		Parser:      parser,
		Engine:      eng,
		History:     history,
		Tuning: service.Tuning{
			Temperature:     cfg.Generation.Temperature,
			TopP:            cfg.Generation.TopP,
			MaxOutputTokens: cfg.Generation.MaxOutputTokens,
		},
	})

	handler := api.NewHandler(battles, gen, cfg.Roster, instruction, info)
	router := api.NewRouter(handler, cfg.StaticDir, cfg.ImagesDir)

	if cfg.ProjectID == "" && cfg.Backend == constants.BackendVertex {
		logging.Warn("PROJECT_ID not set; will try application default credentials", nil)
	}
	logging.Info("Configuration loaded", logging.Fields{
		constants.LogFieldBackend:  cfg.Backend,
		constants.LogFieldLocation: cfg.Location,
		constants.LogFieldModel:    cfg.TextModel,
		constants.LogFieldStage:    int(eng.Current(context.Background())),
	})

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: router}
	if err := serve(srv); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
