package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/typeflow/internal/stats"
	"github.com/verte-zerg/typeflow/internal/typing"
)

const (
	resetTimeout  = 2 * time.Second
	sparkWidth    = 20
	contentRatio  = 0.70
	minBarWidth   = 10
	idleHint      = "start typing to begin"
	completedHint = "press tab to go again"
)

// Engine accepts key presses and resets for the session behind the UI.
// BeginReset must order the reset ahead of any later Submit.
type Engine interface {
	Submit(ev typing.KeyEvent) error
	BeginReset() (func(context.Context) error, error)
}

// Feed carries state published by the engine.
type Feed struct {
	Initial     typing.Snapshot
	Updates     <-chan typing.Snapshot
	Completions <-chan stats.Result
}

type snapshotMsg typing.Snapshot

type completedMsg stats.Result

type resetDoneMsg struct {
	err error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	engine Engine
	feed   Feed
	logger *zap.Logger

	keys keyMap
	help help.Model
	bar  progress.Model

	width  int
	height int

	snap     typing.Snapshot
	duration time.Duration
	result   *stats.Result
	history  []float64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	doneStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	moodStyles = map[typing.Mood]lipgloss.Style{
		typing.MoodIdle:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
		typing.MoodFocus:  lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		typing.MoodStreak: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
	}
)

// NewModel constructs a typing TUI model.
func NewModel(engine Engine, feed Feed, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	return &Model{
		engine:   engine,
		feed:     feed,
		logger:   logger.Named("tui"),
		keys:     defaultKeyMap(),
		help:     help.New(),
		bar:      bar,
		snap:     feed.Initial,
		duration: feed.Initial.TimeRemaining,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.feed.Updates), waitForResult(m.feed.Completions))
}

func waitForSnapshot(ch <-chan typing.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func waitForResult(ch <-chan stats.Result) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-ch
		if !ok {
			return nil
		}
		return completedMsg(res)
	}
}

func waitForReset(wait func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
		defer cancel()
		return resetDoneMsg{err: wait(ctx)}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = m.contentWidth()
		return m, nil
	case snapshotMsg:
		m.applySnapshot(typing.Snapshot(msg))
		return m, waitForSnapshot(m.feed.Updates)
	case completedMsg:
		res := stats.Result(msg)
		if res.SessionID == m.snap.ID {
			m.result = &res
		}
		return m, waitForResult(m.feed.Completions)
	case resetDoneMsg:
		if msg.err != nil {
			m.logger.Error("reset failed", zap.Error(msg.err))
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			// Queued here so keys typed right after tab land in the new session.
			wait, err := m.engine.BeginReset()
			if err != nil {
				m.logger.Error("reset failed", zap.Error(err))
				return m, tea.Quit
			}
			return m, waitForReset(wait)
		}
		for _, ev := range keyEvents(msg) {
			if err := m.engine.Submit(ev); err != nil {
				m.logger.Error("failed to submit key", zap.String("key", ev.Key), zap.Error(err))
				return m, tea.Quit
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) applySnapshot(snap typing.Snapshot) {
	if snap.ID != m.snap.ID {
		m.history = nil
	}
	if m.result != nil && m.result.SessionID != snap.ID {
		m.result = nil
	}
	m.snap = snap
	if snap.Phase == typing.PhaseIdle {
		m.duration = snap.TimeRemaining
		return
	}
	// One sparkline point per elapsed second.
	second := int(stats.Elapsed(snap.TimeRemaining, m.duration) / time.Second)
	for len(m.history) < second {
		m.history = append(m.history, float64(snap.Stats.WPM))
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.result != nil {
		return m.renderResult()
	}
	width := m.contentWidth()
	body := wrapStyledRunes(buildWindow(m.snap), width)
	sections := []string{
		m.renderHeader(),
		"",
		lipgloss.NewStyle().Width(width).Render(body),
		"",
		m.bar.ViewAs(m.snap.Stats.Progress),
		m.renderFooter(),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * contentRatio)
	if w < minBarWidth {
		w = minBarWidth
	}
	return w
}

func (m *Model) renderHeader() string {
	s := m.snap
	mood := moodStyles[s.Mood].Render(moodLabel(s))
	segments := []string{
		formatClock(s.TimeRemaining),
		fmt.Sprintf("%d WPM", s.Stats.WPM),
		fmt.Sprintf("%d%% acc", s.Stats.Accuracy),
		mood,
	}
	if spark := m.sparkline(); spark != "" {
		segments = append(segments, footerStyle.Render(spark))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderFooter() string {
	hint := idleHint
	if m.snap.Phase != typing.PhaseIdle {
		hint = ""
	}
	line := m.help.View(m.keys)
	if hint != "" {
		line = hint + "  " + line
	}
	return footerStyle.Render(line)
}

func (m *Model) renderResult() string {
	var b strings.Builder
	if err := stats.RenderResult(&b, *m.result, m.contentWidth(), false); err != nil {
		m.logger.Error("failed to render result", zap.Error(err))
	}
	b.WriteString(footerStyle.Render(completedHint + "  " + m.help.View(m.keys)))
	content := b.String()
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) sparkline() string {
	values := m.history
	if len(values) > sparkWidth {
		values = values[len(values)-sparkWidth:]
	}
	return stats.Sparkline(stats.MovingAverage(values, 3))
}

func moodLabel(s typing.Snapshot) string {
	if s.Mood == typing.MoodStreak {
		return fmt.Sprintf("streak x%d", s.Stats.Streak)
	}
	return string(s.Mood)
}

func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
