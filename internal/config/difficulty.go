package config

import "math"

// DifficultyManager calculates how many palette colors are in play based
// on score or board growth.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score/windows.
func (d *DifficultyManager) Level(score int, windows int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "windows":
		progress = float64(windows) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Colors returns how many of the paletteSize colors new windows draw from.
// It grows from Scaling.MinColors at level 0 to the full palette at level 1.
// A disabled manager always uses the full palette.
func (d *DifficultyManager) Colors(paletteSize int, score int, windows int) int {
	if !d.cfg.Enabled {
		return paletteSize
	}
	lo := d.cfg.Scaling.MinColors
	if lo < 2 {
		lo = 2
	}
	if lo >= paletteSize {
		return paletteSize
	}
	level := d.Level(score, windows)
	n := lo + int(math.Round(level*float64(paletteSize-lo)))
	if n > paletteSize {
		n = paletteSize
	}
	return n
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
