package core

// RuntimeConfig is what the platform tells a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // columns available to the game
	ScreenH  int   // rows available to the game, footer excluded
	TickRate int   // Step calls per second
	Seed     int64 // board RNG seed; equal seeds replay equal boards
}

// DefaultConfig returns an 80x24 terminal at 60 ticks per second with a
// zero seed, which the platform replaces with the current time.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the part of a game's state the platform acts on.
type GameState struct {
	Score    int
	GameOver bool // the run ended; the platform records it
	Paused   bool // paused by the player or by a too-small terminal
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState

	// Message is a one-line status for the platform footer, empty if none.
	Message string
}
