package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/collapse/internal/config"
	"github.com/vovakirdan/collapse/internal/core"
	"github.com/vovakirdan/collapse/internal/games/collapse"
	"github.com/vovakirdan/collapse/internal/platform/tui"
	"github.com/vovakirdan/collapse/internal/registry"
	"github.com/vovakirdan/collapse/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSize       int
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode, or pick one from the menu",
	Long: `Start playing the given mode. Without a mode, a menu lets you pick
the mode and difficulty and returns after each game.

Controls:
  Arrows/WASD    - Move the cursor
  Space/Enter    - Collapse the group under the cursor
  Mouse click    - Collapse the clicked group
  H              - Show the largest group
  P/Esc          - Pause
  R              - Restart
  Ctrl+S         - Save a screenshot (text and PNG)
  Ctrl+Y         - Copy the screen to the clipboard
  Q/Ctrl+C       - Quit

Difficulty options:
  easy   - Small board, few colors at first, checked for an opening move
  normal - Config defaults: all five colors, no progression
  hard   - Large board, most colors from the start
  fixed  - No progression even if the config enables it

Examples:
  collapse play
  collapse play collapse --difficulty easy
  collapse play collapse_endless --size 8
  collapse play collapse --config ./my-collapse.yaml --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().IntVar(&flagSize, "size", 0, "Board size override (0 = from config)")
}

func runPlay(_ *cobra.Command, args []string) {
	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q (easy, normal, hard, fixed)\n", flagDifficulty)
		os.Exit(1)
	}
	collapse.SetConfigPath(flagConfig)
	collapse.SetDifficultyPreset(flagDifficulty)
	collapse.SetSize(flagSize)

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}

	var game registry.Game
	if len(args) == 1 {
		g, err := registry.Create(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'collapse list' to see available modes.")
			os.Exit(1)
		}
		game = g
	}

	store := openStore()
	opts := tui.Options{Player: playerName(), Logger: logger}

	var runErr error
	if game == nil {
		runMenuLoop(store, cfg, preset, opts)
	} else {
		runErr = tui.Run(game, store, cfg, opts)
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// runMenuLoop alternates between the menu, games and the scoreboard until
// the player quits.
func runMenuLoop(store *storage.Store, cfg core.RuntimeConfig, preset config.DifficultyPreset, opts tui.Options) {
	for {
		res, err := tui.RunMenu(store, cfg, preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = res.Config
		preset = res.Preset

		switch {
		case res.Quit:
			return

		case res.WantsScoreboard:
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if !goBack {
				return
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if p, ok := game.(tui.Presetter); ok {
			p.SetPreset(string(preset))
		}

		// A fixed --seed replays the same board every time.
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if err := tui.Run(game, store, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}

// playerName is the name scores are stored under locally.
func playerName() string {
	for _, key := range []string{"COLLAPSE_PLAYER", "USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "local"
}
