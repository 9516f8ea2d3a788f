package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const version = "v0.1.0"

// KeyMap defines the keybindings
type KeyMap struct {
	Down       key.Binding
	Up         key.Binding
	HalfDown   key.Binding
	HalfUp     key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Refresh    key.Binding
	Copy       key.Binding
	ToggleHelp key.Binding
	Quit       key.Binding
}

var keys = KeyMap{
	Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Up:         key.NewBinding(key.WithKeys("k", "up", "enter"), key.WithHelp("k/↑", "up")),
	HalfDown:   key.NewBinding(key.WithKeys("d", "pgdown"), key.WithHelp("d", "half page down")),
	HalfUp:     key.NewBinding(key.WithKeys("u", "pgup"), key.WithHelp("u", "half page up")),
	Top:        key.NewBinding(key.WithKeys("g"), key.WithHelp("gg", "top")),
	Bottom:     key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "re-render")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy buffer")),
	ToggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Top, k.Bottom, k.Refresh, k.ToggleHelp, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.HalfDown, k.HalfUp},
		{k.Top, k.Bottom, k.Refresh, k.Copy, k.ToggleHelp, k.Quit},
	}
}

// Model is the main application model
type Model struct {
	path      string
	renderCmd []string

	vp   viewport.Model
	help help.Model

	// Current rendered content, one entry per line with the original
	// terminator kept. Replaced wholesale on each successful reload.
	lines []string

	// Pending state of the two-key "gg" sequence.
	pendingG bool

	// Copy confirmation, cleared on the next keypress.
	copied bool

	watcher *Watcher

	// Last recoverable render failure, shown in the status bar until the
	// next successful reload.
	renderErr string

	width  int
	height int

	// Fatal condition, reported by main after the terminal is restored.
	err error
}

func NewModel(path string, renderCmd []string, watcher *Watcher) Model {
	m := Model{
		path:      path,
		renderCmd: renderCmd,
		vp:        viewport.New(0, 0),
		help:      help.New(),
		watcher:   watcher,
	}

	width, height := detectTerminalSize()
	m.applyWindowSize(width, height)

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), initialWindowSizeCmd())
}

func (m Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.WaitCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Some terminals briefly report zero dimensions during font or
		// window changes; fall back to the last known or probed size.
		width := msg.Width
		height := msg.Height
		if width <= 0 {
			if m.width > 0 {
				width = m.width
			} else {
				width, _ = detectTerminalSize()
			}
		}
		if height <= 0 {
			if m.height > 0 {
				height = m.height
			} else {
				_, height = detectTerminalSize()
			}
		}
		m.applyWindowSize(width, height)
		return m, nil

	case fileChangedMsg:
		m = m.withReload()
		if m.err != nil {
			return m, tea.Quit
		}
		return m, m.waitForChange()

	case fileRemovedMsg:
		// Normal termination path, exit code 0.
		return m, tea.Quit

	case watchErrMsg:
		m.err = fmt.Errorf("watching %s: %w", m.path, msg.err)
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// withReload runs a reload, keeping the old buffer and recording the
// message on a recoverable render failure. Anything else is fatal.
func (m Model) withReload() Model {
	err := m.reload()
	if err == nil {
		m.renderErr = ""
		return m
	}

	var rerr *RenderError
	if errors.As(err, &rerr) {
		m.renderErr = rerr.Error()
		return m
	}
	m.err = err
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The "gg" sequence keeps exactly one key of history: any key other
	// than "g" disarms it.
	if msg.String() != "g" {
		m.pendingG = false
	}
	m.copied = false

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.applyWindowSize(m.width, m.height)

	case key.Matches(msg, keys.Down):
		m.setOffset(m.vp.YOffset + 1)

	case key.Matches(msg, keys.Up):
		m.setOffset(m.vp.YOffset - 1)

	case key.Matches(msg, keys.HalfDown):
		m.setOffset(m.vp.YOffset + m.vp.Height/2)

	case key.Matches(msg, keys.HalfUp):
		m.setOffset(m.vp.YOffset - m.vp.Height/2)

	case key.Matches(msg, keys.Top):
		if m.pendingG {
			m.pendingG = false
			m.setOffset(0)
		} else {
			m.pendingG = true
		}

	case key.Matches(msg, keys.Bottom):
		m.setOffset(len(m.lines))

	case key.Matches(msg, keys.Refresh):
		m = m.withReload()
		if m.err != nil {
			return m, tea.Quit
		}

	case key.Matches(msg, keys.Copy):
		if len(m.lines) > 0 {
			m.copied = true
			return m, osc52CopyCmd(displayContent(m.lines))
		}
	}

	return m, nil
}

func (m *Model) applyWindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height
	m.help.Width = width

	chrome := 1 + lipgloss.Height(m.help.View(keys))
	vpHeight := height - chrome
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.vp.Width = width
	m.vp.Height = vpHeight

	// Offsets are recomputed, not carried over, whenever the geometry or
	// the buffer length changes.
	m.setOffset(m.vp.YOffset)
}

func (m Model) View() string {
	return m.vp.View() + "\n" + m.statusView() + "\n" + helpStyle.Render(m.help.View(keys))
}

func (m Model) statusView() string {
	scroll := fmt.Sprintf("%.0f%%", m.vp.ScrollPercent()*100)
	if m.vp.AtTop() {
		scroll = "Top"
	} else if m.vp.AtBottom() {
		scroll = "Bot"
	}
	right := statusPosStyle.Render(fmt.Sprintf("%s · %d lines", scroll, len(m.lines)))
	if m.copied {
		right = copyNoteStyle.Render("copied") + right
	}

	avail := m.width - lipgloss.Width(right)
	pathMax := avail - 2
	if m.renderErr != "" {
		pathMax = avail / 3
	}
	left := statusPathStyle.Render(trimPathLeft(m.path, pathMax))

	if m.renderErr != "" {
		errMax := avail - lipgloss.Width(left) - 2
		if errMax > 3 {
			left += statusErrStyle.Render(truncate.StringWithTail(m.renderErr, uint(errMax), "…"))
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + statusBarStyle.Render(strings.Repeat(" ", gap)) + right
}

// trimPathLeft shortens a path from the left, keeping the file name end
// visible. Widths are display cells, not runes, so wide characters
// cannot overflow the layout budget.
func trimPathLeft(path string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if ansi.PrintableRuneWidth(path) <= maxWidth {
		return path
	}
	r := []rune(path)
	for i := 1; i < len(r); i++ {
		if tail := string(r[i:]); ansi.PrintableRuneWidth(tail) <= maxWidth-1 {
			return "…" + tail
		}
	}
	return "…"
}

// --- Commands ---

func initialWindowSizeCmd() tea.Cmd {
	return func() tea.Msg {
		width, height := detectTerminalSize()
		return tea.WindowSizeMsg{Width: width, Height: height}
	}
}

func detectTerminalSize() (int, int) {
	width, height, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

func osc52CopyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		seq := osc52.New(text).Limit(100 * 1024)

		termEnv := strings.ToLower(os.Getenv("TERM"))
		if tmux := os.Getenv("TMUX"); tmux != "" || strings.HasPrefix(termEnv, "tmux") {
			seq = seq.Tmux()
		} else if strings.HasPrefix(termEnv, "screen") {
			seq = seq.Screen()
		}

		_, _ = seq.WriteTo(os.Stdout)
		return nil
	}
}

func usage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "%s %s\nUSAGE:\n\t%s <FILE> <RENDER_PROG> [RENDER_ARGS...]\n", prog, version, prog)
}

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	path := os.Args[1]
	renderCmd := os.Args[2:]

	watcher, err := NewWatcher(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer watcher.Close()

	m := NewModel(path, renderCmd, watcher)

	// First forced reload, before any UI exists. A failure here is fatal
	// and there is no terminal state to restore yet.
	if err := m.reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	res, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}

	// Fatal conditions inside the event loop are deferred until
	// bubbletea has restored the terminal.
	if final, ok := res.(Model); ok && final.err != nil {
		fmt.Fprintln(os.Stderr, final.err)
		os.Exit(1)
	}
}
