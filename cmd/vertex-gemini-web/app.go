package main

import (
	"context"

	"github.com/opark001/vertex-gemini-web/internal/aiclient"
	"github.com/opark001/vertex-gemini-web/internal/api"
	"github.com/opark001/vertex-gemini-web/internal/config"
	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/logging"
	"github.com/opark001/vertex-gemini-web/internal/storage"
)

func loadConfigOrExit() *config.LoadedConfig {
	if err := config.LoadDotEnv(); err != nil {
		logging.Fatal("Failed to read .env file", err, nil)
	}
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": "$" + constants.EnvBattleConfig})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"path": dbPath})
	}
	return storage.NewSQLiteRepository(db)
}

// newGeneratorOrExit builds the configured backend and the model info the
// config endpoint reports for it.
func newGeneratorOrExit(ctx context.Context, cfg *config.LoadedConfig) (aiclient.Generator, api.ModelInfo) {
	info := api.ModelInfo{
		Backend:    cfg.Backend,
		Location:   cfg.Location,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
	}
	if cfg.Backend == constants.BackendGenAI {
		gen, err := aiclient.NewGenAIClient(ctx, aiclient.GenAIConfig{
			APIKey:     cfg.GeminiAPIKey,
			ProjectID:  cfg.ProjectID,
			Location:   cfg.Location,
			TextModel:  cfg.TextModel,
			ImageModel: cfg.ImageModel,
		})
		if err != nil {
			logging.Fatal("Failed to create GenAI client", err, nil)
		}
		project := cfg.ProjectID
		info.ProjectID = func(context.Context) string { return project }
		return gen, info
	}

	vc := aiclient.NewVertexClient(aiclient.VertexConfig{
		ProjectID:  cfg.ProjectID,
		Location:   cfg.Location,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
	})
	info.ProjectID = func(ctx context.Context) string {
		p, _ := vc.ProjectID(ctx)
		return p
	}
	return vc, info
}
