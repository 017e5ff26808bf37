// Package tui provides the Bubble Tea screen for recording a new hotkey.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/helix-anywhere/helix-anywhere/internal/hotkey"
)

// ErrCancelled is returned when the user leaves the recorder without a chord.
var ErrCancelled = errors.New("hotkey recording cancelled")

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	chordStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("237")).
			Padding(0, 1)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// ── Messages ─────────────────

type recordedMsg struct {
	chord hotkey.Chord
	err   error
}

type tickMsg time.Time

// RecordFunc blocks until a chord is pressed, the timeout passes or ctx is
// done. hotkey.Recorder.Record satisfies it.
type RecordFunc func(ctx context.Context) (hotkey.Chord, error)

// ── Model ────────────────────

// Model is the recorder screen: a spinner and countdown while waiting, then
// the recorded chord.
type Model struct {
	record  RecordFunc
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	started time.Time
	now     func() time.Time

	spinner spinner.Model
	chord   hotkey.Chord
	err     error
	done    bool
}

// New creates a recorder screen. The recording runs in the background as
// soon as the program starts.
func New(ctx context.Context, record RecordFunc, timeout time.Duration) Model {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = promptStyle
	return Model{
		record:  record,
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		now:     time.Now,
		spinner: s,
	}
}

// Result returns the recorded chord or why there is none.
func (m Model) Result() (hotkey.Chord, error) {
	if !m.done {
		return hotkey.Chord{}, ErrCancelled
	}
	return m.chord, m.err
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.recordCmd(), tick())
}

func (m Model) recordCmd() tea.Cmd {
	record, ctx := m.record, m.ctx
	return func() tea.Msg {
		c, err := record(ctx)
		return recordedMsg{chord: c, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.started.IsZero() {
		m.started = m.now()
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil

	case recordedMsg:
		m.cancel()
		if errors.Is(msg.err, context.Canceled) {
			return m, tea.Quit
		}
		m.chord, m.err, m.done = msg.chord, msg.err, true
		return m, tea.Quit

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) remaining() time.Duration {
	if m.started.IsZero() {
		return m.timeout
	}
	left := m.timeout - m.now().Sub(m.started)
	if left < 0 {
		return 0
	}
	return left.Round(time.Second)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("helix-anywhere · record hotkey"))
	b.WriteString("\n\n")

	switch {
	case !m.done:
		fmt.Fprintf(&b, "%s %s %s\n\n",
			m.spinner.View(),
			promptStyle.Render("Press the new hotkey (with at least one modifier)"),
			timeStyle.Render(fmt.Sprintf("%ds", int(m.remaining().Seconds()))))
		b.WriteString(hintStyle.Render("esc to cancel"))
	case m.err != nil:
		b.WriteString(errStyle.Render(m.err.Error()))
	default:
		b.WriteString("Recorded ")
		b.WriteString(chordStyle.Render(m.chord.String()))
		if reason := hotkey.Reserved(m.chord); reason != "" {
			b.WriteString("\n")
			b.WriteString(warnStyle.Render("warning: " + reason))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// Run shows the recorder screen until a chord is recorded or the user
// cancels.
func Run(ctx context.Context, record RecordFunc, timeout time.Duration) (hotkey.Chord, error) {
	m := New(ctx, record, timeout)
	final, err := tea.NewProgram(m).Run()
	m.cancel()
	if err != nil {
		return hotkey.Chord{}, fmt.Errorf("running recorder: %w", err)
	}
	return final.(Model).Result()
}
