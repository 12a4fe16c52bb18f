package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// rawEnv mirrors the environment. Settings with several accepted keys are
// coalesced in Load; the first non-empty key wins.
type rawEnv struct {
	GoogleCloudProject string `env:"GOOGLE_CLOUD_PROJECT"`
	GCloudProject      string `env:"GCLOUD_PROJECT"`
	ProjectID          string `env:"PROJECT_ID"`
	VertexLocation     string `env:"VERTEX_LOCATION"`
	Location           string `env:"LOCATION"`
	TextModel          string `env:"VERTEX_TEXT_MODEL"     envDefault:"gemini-2.5-flash"`
	ImageModel         string `env:"VERTEX_IMAGE_MODEL"    envDefault:"gemini-2.5-flash-image-preview"`
	Port               string `env:"PORT"                  envDefault:"3000"`
	Backend            string `env:"AI_BACKEND"            envDefault:"vertex"`
	GeminiAPIKey       string `env:"GEMINI_API_KEY"`
	DBPath             string `env:"BATTLE_DB"             envDefault:"./data/battle.db"`
	SystemPromptPath   string `env:"BATTLE_SYSTEM_PROMPT"  envDefault:"../프롬프트.txt"`
	StaticDir          string `env:"BATTLE_STATIC_DIR"     envDefault:"./public"`
	ImagesDir          string `env:"BATTLE_IMAGES_DIR"     envDefault:"../images"`
	ConfigPath         string `env:"BATTLE_CONFIG"`
	OutcomeParser      string `env:"BATTLE_OUTCOME_PARSER" envDefault:"marker"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv reads the given .env files (default ".env") into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
