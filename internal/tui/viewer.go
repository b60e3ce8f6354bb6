package tui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/pokerarena/internal/game"
)

const sidebarMinWidth = 30

// Viewer is the Bubble Tea model that watches a tournament. It never drives
// the engine; it renders whatever the Sink delivers and toggles the pause
// gate.
type Viewer struct {
	logger    *log.Logger
	sink      *Sink
	gate      *game.PauseGate
	formatter *game.LogFormatter
	onQuit    func()

	logViewport viewport.Model
	lines       []string
	rendered    int

	state    game.GameState
	hasState bool
	done     *DoneMsg
	quitting bool

	width  int
	height int
}

// ViewerOption configures a Viewer
type ViewerOption func(*Viewer)

// WithViewerLogger sets the logger used for debug output
func WithViewerLogger(logger *log.Logger) ViewerOption {
	return func(v *Viewer) { v.logger = logger.WithPrefix("tui") }
}

// WithPauseGate lets the space key pause and resume the engine
func WithPauseGate(gate *game.PauseGate) ViewerOption {
	return func(v *Viewer) { v.gate = gate }
}

// WithFormatting sets what the play-by-play shows for each entry
func WithFormatting(opts game.FormattingOptions) ViewerOption {
	return func(v *Viewer) { v.formatter = game.NewLogFormatter(opts) }
}

// WithQuit registers a callback run when the user quits, typically the
// cancel func of the engine's context
func WithQuit(fn func()) ViewerOption {
	return func(v *Viewer) { v.onQuit = fn }
}

// NewViewer creates a viewer fed by sink
func NewViewer(sink *Sink, opts ...ViewerOption) *Viewer {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	v := &Viewer{
		logger:      log.New(io.Discard),
		sink:        sink,
		formatter:   game.NewLogFormatter(game.FormattingOptions{ShowEquity: true, ShowEmotion: true}),
		logViewport: vp,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Init starts listening for snapshots
func (v *Viewer) Init() tea.Cmd {
	return v.sink.wait()
}

// Update handles messages in the viewer
func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		v.apply(msg.State)
		return v, v.sink.wait()

	case DoneMsg:
		v.done = &msg
		if msg.Err == nil {
			v.apply(msg.Result.FinalState)
		}
		return v, nil

	case tea.WindowSizeMsg:
		v.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		v.width = msg.Width
		v.height = msg.Height
		v.resize()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			v.quitting = true
			if v.onQuit != nil {
				v.onQuit()
			}
			return v, tea.Quit
		case " ", "p":
			if v.gate != nil && v.done == nil {
				paused := v.gate.Toggle()
				v.logger.Debug("Toggled pause", "paused", paused)
			}
			return v, nil
		case "up", "k":
			v.logViewport.ScrollUp(1)
		case "down", "j":
			v.logViewport.ScrollDown(1)
		case "pgup", "b":
			v.logViewport.HalfPageUp()
		case "pgdown", "f":
			v.logViewport.HalfPageDown()
		case "home", "g":
			v.logViewport.GotoTop()
		case "end", "G":
			v.logViewport.GotoBottom()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.logViewport, cmd = v.logViewport.Update(msg)
	return v, cmd
}

// apply appends newly logged entries and follows the tail when the user was
// already at the bottom
func (v *Viewer) apply(s game.GameState) {
	follow := v.logViewport.AtBottom() || !v.hasState
	v.state = s
	v.hasState = true

	total := s.ActivityLog.Len()
	if total < v.rendered {
		v.lines = v.lines[:0]
		v.rendered = 0
	}
	for _, entry := range s.ActivityLog.Since(v.rendered) {
		v.lines = append(v.lines, EntryStyle(entry.Action).Render(v.formatter.Format(entry)))
	}
	v.rendered = total

	v.logViewport.SetContent(strings.Join(v.lines, "\n"))
	if follow {
		v.logViewport.GotoBottom()
	}
}

// Paused reports whether the engine is held by the gate
func (v *Viewer) Paused() bool {
	return v.gate != nil && v.gate.Paused()
}

// Done returns the tournament outcome once the engine has stopped
func (v *Viewer) Done() (DoneMsg, bool) {
	if v.done == nil {
		return DoneMsg{}, false
	}
	return *v.done, true
}

func (v *Viewer) resize() {
	logWidth := v.width - sidebarMinWidth - 4
	logHeight := v.height - 4 - 1 // borders, header and help line
	v.logViewport.Width = max(logWidth, 1)
	v.logViewport.Height = max(logHeight, 1)
}

// View renders the viewer
func (v *Viewer) View() string {
	if v.quitting {
		return ""
	}
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	header := v.renderHeader()

	sidebarContent := v.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebarContent), sidebarMinWidth)
	paneHeight := max(v.height-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	v.logViewport.Width = max(v.width-sidebarWidth-4, 1)
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(v.logViewport.Width).
		Height(paneHeight).
		Render(v.logViewport.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, v.renderHelp())
}

func (v *Viewer) renderHeader() string {
	if !v.hasState {
		return HeaderStyle.Render("Waiting for the first hand...")
	}

	s := v.state
	title := HeaderStyle.Render(fmt.Sprintf("Hand %d | %s | Pot $%d", s.Round, strings.ToUpper(string(s.Phase)), s.Pot))

	switch {
	case v.done != nil && v.done.Err != nil:
		return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", ErrorStyle.Render("Stopped: "+v.done.Err.Error()))
	case v.done != nil && v.done.Result.Winner != nil:
		return lipgloss.JoinHorizontal(lipgloss.Top, title, " ",
			SuccessStyle.Render(fmt.Sprintf("%s wins after %d hands", v.done.Result.Winner.Name, v.done.Result.Hands)))
	case v.done != nil:
		return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", WarningStyle.Render("Tournament stopped"))
	case v.Paused():
		return lipgloss.JoinHorizontal(lipgloss.Top, title, " ", PausedStyle.Render("PAUSED"))
	}
	return title
}

func (v *Viewer) renderSidebar() string {
	var b strings.Builder

	b.WriteString(InfoStyle.Render("Board: "))
	b.WriteString(FormatCards(v.state.CommunityCards))
	b.WriteString("\n\n")

	for i, p := range v.state.Players {
		b.WriteString(v.renderPlayer(i, p))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *Viewer) renderPlayer(seat int, p game.Player) string {
	name := p.Name
	if p.IsDealer {
		name += " (D)"
	}

	nameStyle := PlayerInfoStyle
	switch {
	case v.state.Phase.IsStreet() && v.state.ActivePlayerIndex == seat && p.CanAct():
		nameStyle = TurnStyle
	case slices.Contains(v.state.WinningPlayers, seat):
		nameStyle = SuccessStyle
	}

	status := ""
	switch {
	case p.Chips == 0 && !p.IsActive && p.TotalBet == 0:
		status = InfoStyle.Render(" out")
	case !p.IsActive:
		status = InfoStyle.Render(" folded")
	case p.IsAllIn:
		status = WarningStyle.Render(" all-in")
	}

	line := fmt.Sprintf("%s $%d%s", nameStyle.Render(name), p.Chips, status)
	if p.CurrentBet > 0 {
		line += WarningStyle.Render(fmt.Sprintf(" bet $%d", p.CurrentBet))
	}

	detail := "  " + FormatCards(p.Hand)
	if p.Equity != nil {
		detail += InfoStyle.Render(fmt.Sprintf(" %.1f%%", *p.Equity))
	}
	if p.Emotion != "" && p.Emotion != game.Neutral {
		detail += InfoStyle.Render(" " + string(p.Emotion))
	}
	if result, ok := v.state.HandResults[seat]; ok {
		detail += "\n  " + InfoStyle.Render(result)
	}
	return line + "\n" + detail
}

func (v *Viewer) renderHelp() string {
	return InfoStyle.Render("space pause/resume • ↑/↓ scroll • g/G top/bottom • q quit")
}
