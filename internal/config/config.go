package config

import (
	"fmt"
	"strings"

	"github.com/opark001/vertex-gemini-web/internal/constants"
	"github.com/opark001/vertex-gemini-web/internal/game"
	"github.com/opark001/vertex-gemini-web/internal/roster"
)

// LoadedConfig is the resolved runtime configuration.
type LoadedConfig struct {
	ProjectID  string
	Location   string
	TextModel  string
	ImageModel string

	ServerAddress string
	Backend       string
	GeminiAPIKey  string

	DBPath           string
	SystemPromptPath string
	StaticDir        string
	ImagesDir        string
	OutcomeParser    string

	Roster     *roster.Registry
	Generation Generation
}

// Load reads the environment and, when BATTLE_CONFIG is set, the YAML file
// it points to. Rosters from the file are validated like the built-in ones.
func Load() (*LoadedConfig, error) {
	var raw rawEnv
	if err := ParseEnv(&raw); err != nil {
		return nil, err
	}

	cfg := &LoadedConfig{
		ProjectID:        firstNonEmpty(raw.GoogleCloudProject, raw.GCloudProject, raw.ProjectID),
		Location:         firstNonEmpty(raw.VertexLocation, raw.Location, constants.DefaultLocation),
		TextModel:        firstNonEmpty(raw.TextModel, constants.DefaultTextModel),
		ImageModel:       firstNonEmpty(raw.ImageModel, constants.DefaultImageModel),
		ServerAddress:    ":" + firstNonEmpty(raw.Port, constants.DefaultPort),
		Backend:          strings.ToLower(firstNonEmpty(raw.Backend, constants.BackendVertex)),
		GeminiAPIKey:     strings.TrimSpace(raw.GeminiAPIKey),
		DBPath:           raw.DBPath,
		SystemPromptPath: raw.SystemPromptPath,
		StaticDir:        raw.StaticDir,
		ImagesDir:        raw.ImagesDir,
		OutcomeParser:    strings.ToLower(firstNonEmpty(raw.OutcomeParser, constants.ParserMarker)),
	}
	switch cfg.Backend {
	case constants.BackendVertex, constants.BackendGenAI:
	default:
		return nil, fmt.Errorf("unknown %s %q (want %s or %s)", constants.EnvAIBackend, cfg.Backend, constants.BackendVertex, constants.BackendGenAI)
	}

	rosters := roster.DefaultRosters()
	images := roster.DefaultImageKeys()
	if path := strings.TrimSpace(raw.ConfigPath); path != "" {
		rf, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if rf.Server != nil && rf.Server.Address != "" {
			cfg.ServerAddress = rf.Server.Address
		}
		if len(rf.Rosters) > 0 {
			rosters = make(map[game.StageLevel][]game.RosterEntry, len(rf.Rosters))
			for s, entries := range rf.Rosters {
				rosters[game.StageLevel(s)] = entries
			}
		}
		if len(rf.Images) > 0 {
			images = rf.Images
		}
		if rf.Generation != nil {
			cfg.Generation = *rf.Generation
		}
	}

	reg, err := roster.New(rosters, images)
	if err != nil {
		return nil, fmt.Errorf("invalid rosters: %w", err)
	}
	cfg.Roster = reg
	return cfg, nil
}
