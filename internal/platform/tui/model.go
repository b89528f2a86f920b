package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/collapse/internal/core"
	"github.com/vovakirdan/collapse/internal/export"
	"github.com/vovakirdan/collapse/internal/registry"
	"github.com/vovakirdan/collapse/internal/storage"
)

// footerHeight is the number of rows reserved below the game screen.
const footerHeight = 1

// statusTicks is how long a platform status (e.g. "saved ...") stays visible.
const statusTicks = 120

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// RunRecorder is implemented by games that summarize a run for storage.
type RunRecorder interface {
	RunRecord() storage.RunRecord
}

// Options configures a game model beyond the runtime config.
type Options struct {
	// Player is stored with scores and runs. Defaults to "local".
	Player string

	// ExportDir receives screenshots. Defaults to export.DefaultDir().
	ExportDir string

	Logger *log.Logger
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	opts       Options
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	message    string
	status     string
	statusLeft int
	quitting   bool
	runSaved   bool // whether the current run has been recorded
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Player == "" {
		opts.Player = "local"
	}
	if opts.ExportDir == "" {
		opts.ExportDir = export.DefaultDir()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		opts:       opts,
		keys:       DefaultKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
	}
}

func gameHeight(h int) int {
	return max(h-footerHeight, 0)
}

// gameConfig is the runtime config handed to the game, minus the footer.
func (m Model) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	m.opts.Logger.Info("game started", "game", m.game.ID(), "seed", m.config.Seed, "player", m.opts.Player)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		MapMouse(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Export):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copyScreen()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.finishRun(storage.EndQuit)
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width

	// Games lay themselves out in Reset. A run in progress is kept: the
	// game pauses itself while the terminal is too small.
	if !m.gameState.GameOver && !m.inProgress() {
		m.game.Reset(m.gameConfig())
	} else if r, ok := m.game.(interface{ Resize(w, h int) }); ok {
		r.Resize(msg.Width, gameHeight(msg.Height))
	}

	return m, nil
}

// inProgress reports whether the current run has any recorded moves.
func (m Model) inProgress() bool {
	r, ok := m.game.(RunRecorder)
	return ok && r.RunRecord().Moves > 0
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Restart is allowed at any time; a run cut short is recorded as such.
	if m.inputFrame.Has(core.ActionRestart) {
		m.finishRun(storage.EndRestart)
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.gameConfig())
		m.gameState = m.game.State()
		m.runSaved = false
		m.message = ""
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.message = result.Message

	if m.gameState.GameOver {
		m.finishRun("")
	}

	if m.statusLeft > 0 {
		m.statusLeft--
		if m.statusLeft == 0 {
			m.status = ""
		}
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// finishRun saves the score and run summary once per run. An empty reason
// keeps the one the game reports.
func (m *Model) finishRun(reason string) {
	if m.runSaved {
		return
	}
	m.runSaved = true

	state := m.game.State()
	r, ok := m.game.(RunRecorder)
	if !ok {
		if m.store != nil && state.Score > 0 {
			if _, err := m.store.SaveScore(m.game.ID(), m.opts.Player, state.Score); err != nil {
				m.opts.Logger.Warn("save score", "error", err)
			}
		}
		return
	}

	rec := r.RunRecord()
	if rec.Moves == 0 {
		return
	}
	if reason != "" {
		rec.EndReason = reason
	}
	rec.Player = m.opts.Player
	m.opts.Logger.Info("run finished",
		"game", rec.GameID, "score", rec.Score, "moves", rec.Moves, "reason", rec.EndReason)

	if m.store == nil {
		return
	}
	if rec.Score > 0 {
		if _, err := m.store.SaveScore(rec.GameID, rec.Player, rec.Score); err != nil {
			m.opts.Logger.Warn("save score", "error", err)
		}
	}
	if _, err := m.store.SaveRun(rec); err != nil {
		m.opts.Logger.Warn("save run", "error", err)
	}
}

// saveScreenshot writes the text screen and, when the game supports it,
// a PNG of the board.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	path := export.Filename(m.opts.ExportDir, m.game.ID(), time.Now(), "txt")
	if err := export.Text(path, m.screen); err != nil {
		m.opts.Logger.Warn("screenshot failed", "error", err)
		m.setStatus("Screenshot failed")
		return
	}
	saved := 1

	if e, ok := m.game.(registry.Exporter); ok {
		paths, err := e.Export(m.opts.ExportDir)
		if err != nil {
			m.opts.Logger.Warn("board export failed", "error", err)
		}
		saved += len(paths)
	}

	m.opts.Logger.Info("screenshot saved", "path", path)
	m.setStatus(fmt.Sprintf("Saved %d file(s) to %s", saved, m.opts.ExportDir))
}

// copyScreen puts the text screen on the system clipboard.
func (m *Model) copyScreen() {
	m.screen.Clear()
	m.game.Render(m.screen)
	if err := export.CopyText(m.screen); err != nil {
		m.opts.Logger.Warn("clipboard copy failed", "error", err)
		m.setStatus("Clipboard unavailable")
		return
	}
	m.setStatus("Copied to clipboard")
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusLeft = statusTicks
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.footer()
}

// footer shows the latest status or game message, then the key help.
func (m Model) footer() string {
	msg := m.status
	if msg == "" {
		msg = m.message
	}
	helpLine := m.help.ShortHelpView(m.keys.ShortHelp())
	if msg == "" {
		return footerStyle.Render(helpLine)
	}
	return statusStyle.Render(msg) + footerStyle.Render("  "+helpLine)
}

// IsQuitting returns true if the user requested to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
