package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
)

// defaultInitials pre-fills the initials prompt.
const defaultInitials = "AAA"

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the Bubble Tea model that runs one snake game.
type Model struct {
	game       *snake.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	initials   textinput.Model
	help       help.Model
	prompting  bool   // The initials prompt owns the keyboard
	skipped    bool   // The player closed the prompt without saving this run
	status     string // One-line feedback below the board
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game *snake.Game, cfg core.RuntimeConfig) Model {
	ti := textinput.New()
	ti.Prompt = "Initials: "
	ti.CharLimit = engine.InitialsLen
	ti.Width = engine.InitialsLen + 1
	ti.Placeholder = defaultInitials

	cfg.TickInterval = game.TickInterval()
	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, footerless(cfg.ScreenH)),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		initials:   ti,
		help:       help.New(),
	}
	m.game.Resize(core.RuntimeConfig{ScreenW: cfg.ScreenW, ScreenH: footerless(cfg.ScreenH)})
	return m
}

// footerless reserves the last terminal line for the prompt or help bar.
func footerless(h int) int {
	return max(h-1, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, footerless(msg.Height))
		m.game.Resize(core.RuntimeConfig{ScreenW: msg.Width, ScreenH: footerless(msg.Height)})
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	if m.prompting {
		var cmd tea.Cmd
		m.initials, cmd = m.initials.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey queues game actions until the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Enter reopens a skipped prompt while the run can still be saved
	if m.skipped && msg.Type == tea.KeyEnter && m.game.Qualifies() {
		m.skipped = false
		m.status = ""
		return m, nil
	}
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handlePromptKey feeds the initials input, submits it on Enter and closes
// it unsaved on Esc.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		m.prompting = false
		m.skipped = true
		m.initials.Blur()
		m.status = "Score not saved: [R] Play Again, [Enter] Save"
		return m, nil

	case tea.KeyEnter:
		value := m.initials.Value()
		if value == "" {
			value = defaultInitials
		}
		res, err := m.game.Finish(value)
		switch {
		case errors.Is(err, engine.ErrInvalidInitials):
			m.status = fmt.Sprintf("Initials must be %d letters", engine.InitialsLen)
			return m, nil
		case err != nil:
			m.status = err.Error()
		case res.SaveErr != nil && !errors.Is(res.SaveErr, engine.ErrNoStore):
			m.status = "High score not saved: " + res.SaveErr.Error()
		default:
			m.status = ""
		}
		m.prompting = false
		m.initials.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.initials, cmd = m.initials.Update(msg)
	return m, cmd
}

// handleTick runs one simulation step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Len() > 0 {
		m.status = ""
	}
	m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	if m.game.Phase() != engine.StateEnd {
		m.skipped = false
	}

	var cmds []tea.Cmd
	if m.game.Qualifies() && !m.prompting && !m.skipped {
		m.prompting = true
		m.initials.SetValue(defaultInitials)
		m.initials.CursorEnd()
		cmds = append(cmds, m.initials.Focus())
	}
	cmds = append(cmds, tickCmd(m.config.TickInterval))
	return m, tea.Batch(cmds...)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var footer string
	switch {
	case m.prompting:
		footer = promptStyle.Render(m.initials.View()) + helpStyle.Render("  enter to save, esc to skip")
	case m.status != "":
		footer = errorStyle.Render(m.status)
	default:
		footer = helpStyle.Render(m.help.View(m.keyMapper.Keys()))
	}
	if m.prompting && m.status != "" {
		footer += "  " + errorStyle.Render(m.status)
	}

	return RenderScreen(m.screen) + "\n" + strings.TrimRight(footer, "\n")
}

// Run starts the Bubble Tea program for game on the local terminal.
func Run(game *snake.Game, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
