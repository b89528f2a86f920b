package config

import (
	_ "embed"
)

//go:embed defaults/collapse.yaml
var defaultCollapseYAML []byte

// DefaultCollapseConfig returns the default collapse configuration.
func DefaultCollapseConfig() CollapseConfig {
	return CollapseConfig{
		Board: BoardConfig{
			Size:             6,
			InitialWindows:   2,
			MaxWindows:       12,
			Refill:           "on_gap",
			ValidateSolvable: false,
			SolvableAttempts: 50,
		},
		Layout: LayoutConfig{
			CellWidth:  4,
			CellHeight: 2,
			GapX:       1,
			GapY:       0,
		},
		Palette: []PaletteEntry{
			{Name: "blue", Color: "#3b82f6", Glyph: "●"},
			{Name: "red", Color: "#ef4444", Glyph: "◆"},
			{Name: "green", Color: "#22c55e", Glyph: "▲"},
			{Name: "yellow", Color: "#eab308", Glyph: "■"},
			{Name: "purpure", Color: "#a855f7", Glyph: "★"},
		},
		Animation: AnimationConfig{
			ScaleInTicks: 6,
			DestroyTicks: 8,
			MoveTicks:    8,
		},
		Scoring: ScoringConfig{
			ClearBonus: 100,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "windows",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				MinColors: 3,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "collapse", "collapse_endless":
		return defaultCollapseYAML
	default:
		return nil
	}
}
