package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opark001/vertex-gemini-web/internal/game"
)

type rawFile struct {
	Server *struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	// Rosters maps a stage number to its three opponents.
	Rosters    map[int][]game.RosterEntry `yaml:"rosters"`
	Images     map[string]string          `yaml:"images"`
	Generation *Generation                `yaml:"generation"`
}

// Generation holds optional tuning applied to battle simulations.
type Generation struct {
	Temperature     *float64 `yaml:"temperature" json:"temperature,omitempty"`
	TopP            *float64 `yaml:"top_p" json:"topP,omitempty"`
	MaxOutputTokens *int     `yaml:"max_output_tokens" json:"maxOutputTokens,omitempty"`
}

// loadFile reads the optional YAML file at path.
func loadFile(path string) (*rawFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rf rawFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	for s := range rf.Rosters {
		if !game.StageLevel(s).Valid() {
			return nil, fmt.Errorf("config file %s: unknown stage %d in rosters", path, s)
		}
	}
	for name, key := range rf.Images {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("config file %s: image entries need a name and a key", path)
		}
	}
	if g := rf.Generation; g != nil {
		if g.Temperature != nil && (*g.Temperature < 0 || *g.Temperature > 2) {
			return nil, fmt.Errorf("config file %s: generation.temperature must be within [0,2]", path)
		}
		if g.TopP != nil && (*g.TopP < 0 || *g.TopP > 1) {
			return nil, fmt.Errorf("config file %s: generation.top_p must be within [0,1]", path)
		}
		if g.MaxOutputTokens != nil && *g.MaxOutputTokens <= 0 {
			return nil, fmt.Errorf("config file %s: generation.max_output_tokens must be positive", path)
		}
	}
	return &rf, nil
}
