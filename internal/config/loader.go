package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// LoadCollapse loads the collapse configuration. Values missing from a file
// keep their defaults.
// Search order: customPath -> ~/.collapse/configs/collapse.yaml -> ./configs/collapse.yaml -> embedded default
func LoadCollapse(customPath string) (CollapseConfig, error) {
	cfg := DefaultCollapseConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("collapse.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultCollapseConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "collapse.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultCollapseConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultCollapseYAML, &cfg); err != nil {
		return DefaultCollapseConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".collapse", "configs", filename)
}

// Validate checks the values the game cannot run without.
func (c CollapseConfig) Validate() error {
	if c.Board.Size < 2 || c.Board.Size > 10 {
		return fmt.Errorf("%w: board.size %d outside [2, 10]", ErrInvalid, c.Board.Size)
	}
	if c.Board.MaxWindows < 0 {
		return fmt.Errorf("%w: board.max_windows must not be negative", ErrInvalid)
	}
	switch c.Board.Refill {
	case "", "on_gap", "on_stuck":
	default:
		return fmt.Errorf("%w: board.refill %q (want on_gap or on_stuck)", ErrInvalid, c.Board.Refill)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("%w: palette is empty", ErrInvalid)
	}
	if c.Layout.CellWidth < 1 || c.Layout.CellHeight < 1 {
		return fmt.Errorf("%w: layout cells must be at least 1x1", ErrInvalid)
	}
	if c.Layout.GapX < 0 || c.Layout.GapY < 0 {
		return fmt.Errorf("%w: layout gaps must not be negative", ErrInvalid)
	}
	return nil
}

// ApplyCollapsePreset modifies the config based on a difficulty preset.
// Only easy and hard turn on color progression; normal keeps the config
// as loaded and fixed always uses the whole palette.
func ApplyCollapsePreset(cfg *CollapseConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy, DifficultyHard:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	}

	// Adjust the board based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Board.Size = 5
		cfg.Board.MaxWindows = 20
		cfg.Board.ValidateSolvable = true
	case DifficultyHard:
		cfg.Board.Size = 8
		cfg.Board.MaxWindows = 8
		cfg.Board.ValidateSolvable = false
	}
}
