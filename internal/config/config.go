// Package config provides YAML-based game configuration loading and
// difficulty management for the collapse game.
package config

// CollapseConfig contains all configuration for the collapse game.
type CollapseConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Layout     LayoutConfig     `yaml:"layout"`
	Palette    []PaletteEntry   `yaml:"palette"`
	Animation  AnimationConfig  `yaml:"animation"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the grid and refill rules.
type BoardConfig struct {
	Size             int    `yaml:"size"`              // rows and columns per window, 2..10
	InitialWindows   int    `yaml:"initial_windows"`   // windows stacked at start
	MaxWindows       int    `yaml:"max_windows"`       // 0 = unlimited
	Refill           string `yaml:"refill"`            // "on_gap" or "on_stuck"
	ValidateSolvable bool   `yaml:"validate_solvable"` // re-roll windows without a move
	SolvableAttempts int    `yaml:"solvable_attempts"`
}

// LayoutConfig defines the tile size in terminal cells.
type LayoutConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	GapX       int `yaml:"gap_x"`
	GapY       int `yaml:"gap_y"`
}

// PaletteEntry is one tile color.
type PaletteEntry struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"` // "#rrggbb"; empty uses the builtin color for Name
	Glyph string `yaml:"glyph"` // single rune drawn inside the tile
}

// AnimationConfig defines effect lengths in ticks.
type AnimationConfig struct {
	ScaleInTicks int `yaml:"scale_in_ticks"`
	DestroyTicks int `yaml:"destroy_ticks"`
	MoveTicks    int `yaml:"move_ticks"`
}

// ScoringConfig defines how removed groups are scored.
type ScoringConfig struct {
	ClearBonus int `yaml:"clear_bonus"` // awarded when the visible window is emptied
}

// DifficultyConfig defines how the number of colors grows during a run.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "windows", or "none"
	MaxAt int    `yaml:"max_at"` // Score/windows at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	MinColors int `yaml:"min_colors"` // palette colors in use at level 0
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string is normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	case "":
		return DifficultyNormal, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
