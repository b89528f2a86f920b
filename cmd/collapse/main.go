// collapse is a terminal tile-collapse puzzle: clear same-colored groups
// before the stack of windows runs out of moves.
//
// Usage:
//
//	collapse list              - List available modes
//	collapse play [mode]       - Play a mode, or pick one from the menu
//	collapse scores [mode]     - Show high scores and recent runs
//	collapse serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.collapse/scores.db)
//	--log-file <path>     - Write logs to a file (default: none)
//	--log-level <level>   - debug, info, warn or error
//
// A .env file in the working directory may set COLLAPSE_DB,
// COLLAPSE_LOG_FILE and COLLAPSE_LOG_LEVEL.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/collapse/internal/games/collapse"
	"github.com/vovakirdan/collapse/internal/logging"
	"github.com/vovakirdan/collapse/internal/storage"
)

const defaultDBPath = "~/.collapse/scores.db"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogFile  string
	flagLogLevel string

	// logger is set up in the root PersistentPreRunE.
	logger    = log.New(io.Discard)
	logCloser io.Closer
)

func main() {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "collapse",
	Short: "Collapse - a tile puzzle for your terminal",
	Long: `Collapse is a tile-collapse puzzle played in the terminal.

Pick a tile to remove its group of same-colored neighbors. Columns fall
into the gaps and fresh windows of tiles stack up from above. The run
ends when the visible board has no group left and may not grow.

Available commands:
  list     - Show all modes
  play     - Play a mode directly, or pick one from the menu
  scores   - View high scores and recent runs
  serve    - Start SSH server for remote play

Examples:
  collapse play
  collapse play collapse --difficulty hard
  collapse play collapse_endless --size 8
  collapse serve --ssh :2222
  collapse scores collapse`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores database (env COLLAPSE_DB)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (env COLLAPSE_LOG_FILE)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", logging.DefaultLevel, "Log level: debug, info, warn, error (env COLLAPSE_LOG_LEVEL)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup loads .env, applies environment defaults to unset flags and
// builds the file logger.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}

	flags := cmd.Flags()
	envDefault(flags.Changed("db"), &flagDBPath, "COLLAPSE_DB")
	envDefault(flags.Changed("log-file"), &flagLogFile, "COLLAPSE_LOG_FILE")
	envDefault(flags.Changed("log-level"), &flagLogLevel, "COLLAPSE_LOG_LEVEL")

	logPath, err := storage.ExpandPath(flagLogFile)
	if err != nil {
		return err
	}
	l, closer, err := logging.New(logPath, flagLogLevel)
	if err != nil {
		return err
	}
	logger, logCloser = l, closer
	collapse.SetLogger(logger)
	return nil
}

// envDefault replaces *dst with the environment value unless the flag
// was given explicitly.
func envDefault(changed bool, dst *string, key string) {
	if changed {
		return
	}
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// openStore opens the scores database, warning and continuing without
// persistence on failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "error", err)
		return nil
	}
	return store
}
