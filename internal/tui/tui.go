// Package tui provides a Bubble Tea terminal user interface for
// audiobook-tidy.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/audiobook-tidy/internal/audit"
	"github.com/handiism/audiobook-tidy/internal/config"
	"github.com/handiism/audiobook-tidy/internal/executor"
	"github.com/handiism/audiobook-tidy/internal/logger"
	"github.com/handiism/audiobook-tidy/internal/report"
	"github.com/handiism/audiobook-tidy/internal/scanner"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateReview
	StateConfirm
	StateApplying
	StateResults
	StateError
)

// maxLogs bounds the on-screen event list.
const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   executor.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	styles    report.Styles
	settings  *config.Settings
	logger    *logger.Logger
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	root      string
	scan      *scanner.Result
	engine    *executor.Engine
	auditLog  *audit.Log
	events    *eventBuffer
	review    bool
	index     int
	summary   executor.SessionSummary
	logs      []LogEntry
	verbose   bool
	showPlans bool

	width int
}

// NewModel creates a new TUI model. A nil logger discards diagnostics.
func NewModel(settings *config.Settings, log *logger.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if log == nil {
		log = logger.Discard()
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/audiobooks"
	ti.SetValue(settings.LibraryPath)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		styles:    report.DefaultStyles(),
		settings:  settings,
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
		events:    &eventBuffer{},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ScanDoneMsg is sent when the library scan completes.
	ScanDoneMsg struct {
		Root   string
		Result *scanner.Result
		Err    error
	}

	// ApplyDoneMsg is sent when one plan has been applied.
	ApplyDoneMsg struct {
		Index  int
		Result executor.Result
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ScanDoneMsg:
		return m.handleScanDone(msg)

	case ApplyDoneMsg:
		return m.handleApplyDone(msg)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancel()
		if m.state == StateApplying {
			// The running plan finishes first; ApplyDoneMsg ends the session.
			return m, nil
		}
		return m, tea.Quit
	}

	switch m.state {
	case StateInput:
		switch key {
		case "esc":
			return m, tea.Quit
		case "tab":
			m.verbose = !m.verbose
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.textInput.Value())
			if path == "" {
				return m, nil
			}
			m.state = StateScanning
			return m, tea.Batch(m.scanLibrary(path), m.spinner.Tick)
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case StateReview:
		switch key {
		case "a", "1":
			m.review = false
			m.startSession()
			return m.applyCurrent()
		case "r", "2":
			m.review = true
			m.startSession()
			m.state = StateConfirm
		case "p":
			m.showPlans = !m.showPlans
		case "q", "3", "esc":
			return m, tea.Quit
		}

	case StateConfirm:
		switch key {
		case "y":
			return m.applyCurrent()
		case "n":
			m.summary.Skipped++
			return m.advance()
		case "q", "esc":
			m.summary.Aborted = true
			m.state = StateResults
		}

	case StateResults, StateError:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			m.reset()
		}
	}

	return m, nil
}

func (m Model) handleScanDone(msg ScanDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	m.root = msg.Root
	m.scan = msg.Result
	m.auditLog = audit.Open(m.settings.LogPath(m.root))
	if len(m.scan.Plans) == 0 {
		m.state = StateResults
		return m, nil
	}

	m.engine = executor.NewEngine(m.auditLog, nil, m.events.Add)
	m.state = StateReview
	return m, nil
}

func (m Model) handleApplyDone(msg ApplyDoneMsg) (tea.Model, tea.Cmd) {
	m.summary.Record(msg.Result)
	for _, e := range m.events.Drain() {
		if e.Level == executor.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
	if !msg.Result.OK() {
		m.logger.Warn("plan failed", "title", m.scan.Plans[msg.Index].Title, "error", msg.Result.Err)
	}

	next, cmd := m.advance()
	nm := next.(Model)
	progressCmd := nm.progress.SetPercent(float64(nm.index) / float64(len(nm.scan.Plans)))
	return nm, tea.Batch(cmd, progressCmd)
}

// advance moves to the next plan, or to the results once every plan was
// considered or the session was cancelled.
func (m Model) advance() (tea.Model, tea.Cmd) {
	m.index++
	if m.ctx.Err() != nil && m.index < len(m.scan.Plans) {
		m.summary.Aborted = true
		m.state = StateResults
		return m, nil
	}
	if m.index >= len(m.scan.Plans) {
		m.state = StateResults
		return m, nil
	}
	if m.review {
		m.state = StateConfirm
		return m, nil
	}
	return m.applyCurrent()
}

func (m Model) applyCurrent() (tea.Model, tea.Cmd) {
	m.state = StateApplying
	return m, m.applyPlan(m.index)
}

func (m *Model) startSession() {
	if err := m.engine.StartSession(len(m.scan.Plans)); err != nil {
		m.logs = append(m.logs, LogEntry{Message: fmt.Sprintf("Cannot write audit log: %v", err), Level: executor.LevelWarning})
	}
}

func (m *Model) reset() {
	m.state = StateInput
	m.err = nil
	m.scan = nil
	m.engine = nil
	m.auditLog = nil
	m.index = 0
	m.review = false
	m.summary = executor.SessionSummary{}
	m.logs = nil
	m.events = &eventBuffer{}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.progress.SetPercent(0)
	m.textInput.Focus()
}

// scanLibrary scans root in the background.
func (m Model) scanLibrary(root string) tea.Cmd {
	opts := m.settings.ToScannerOptions()
	ctx := m.ctx
	log := m.logger.Logger
	return func() tea.Msg {
		s := scanner.New(opts, log)
		res, err := s.Scan(ctx, root)
		return ScanDoneMsg{Root: root, Result: res, Err: err}
	}
}

// applyPlan applies plan i in the background. Plans never overlap: the
// next one is started from ApplyDoneMsg.
func (m Model) applyPlan(i int) tea.Cmd {
	engine := m.engine
	plan := m.scan.Plans[i]
	ctx := m.ctx
	return func() tea.Msg {
		return ApplyDoneMsg{Index: i, Result: engine.Apply(ctx, plan)}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📚 Audiobook Library Tidy"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Organize books into Author / Series / Title"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Scanning and analyzing library..."))
		b.WriteString("\n")
	case StateReview:
		b.WriteString(m.viewReview())
	case StateConfirm:
		b.WriteString(m.viewConfirm())
	case StateApplying:
		b.WriteString(m.viewApplying())
	case StateResults:
		b.WriteString(m.viewResults())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter path to library:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}
	b.WriteString(fmt.Sprintf("  %s Show every moved file (tab)\n", verboseCheck))

	return b.String()
}

func (m Model) viewReview() string {
	var b strings.Builder
	r := report.NewRendererWithStyles(&b, m.styles)

	r.Stats(report.NewStatsView(m.scan.Stats))
	if m.showPlans {
		views := make([]report.PlanView, len(m.scan.Plans))
		for i, p := range m.scan.Plans {
			views[i] = report.NewPlanView(p, m.root)
		}
		r.Proposed(views)
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("Found %d books to tidy.", len(m.scan.Plans))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewConfirm() string {
	var b strings.Builder
	r := report.NewRendererWithStyles(&b, m.styles)

	counter := fmt.Sprintf("[%d/%d]", m.index+1, len(m.scan.Plans))
	r.Plan(report.NewPlanView(m.scan.Plans[m.index], m.root), counter)
	b.WriteString(r.ConfirmPrompt())
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewApplying() string {
	var b strings.Builder

	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Applying %d/%d: %s",
		m.index+1, len(m.scan.Plans), m.scan.Plans[m.index].Title)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewResults() string {
	if m.scan == nil {
		return ""
	}
	if len(m.scan.Plans) == 0 {
		var b strings.Builder
		r := report.NewRendererWithStyles(&b, m.styles)
		r.Stats(report.NewStatsView(m.scan.Stats))
		b.WriteString("\n")
		b.WriteString(boxStyle.Render("✨ YOUR LIBRARY IS ALREADY TIDY!"))
		return b.String()
	}

	var collisions []string
	if m.engine != nil {
		collisions = m.engine.Collisions().Sorted()
	}

	lines := []string{
		"Results",
		"",
		fmt.Sprintf("Applied:    %d", m.summary.Applied),
		fmt.Sprintf("Skipped:    %d", m.summary.Skipped),
	}
	if len(collisions) > 0 {
		lines = append(lines, fmt.Sprintf("Collisions: %d (Files already at target)", len(collisions)))
		for _, name := range collisions {
			lines = append(lines, "  - "+name)
		}
	}
	if m.summary.Errors > 0 {
		lines = append(lines, fmt.Sprintf("Errors:     %d", m.summary.Errors))
	}
	if m.summary.Aborted {
		lines = append(lines, "Stopped before every book was considered.")
	}
	if m.auditLog != nil {
		lines = append(lines, "", "Log: "+m.auditLog.Path())
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(m.styles.Error.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, scanner.ErrNotDirectory) {
			msg = "Path invalid: " + msg
		}
		b.WriteString(fmt.Sprintf("  %s\n", msg))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case executor.LevelError:
			style = m.styles.Error
			prefix = "✗"
		case executor.LevelWarning:
			style = m.styles.Warning
			prefix = "!"
		case executor.LevelSuccess:
			style = m.styles.Success
			prefix = "✓"
		default:
			style = m.styles.Dim
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: scan • tab: verbose • esc: quit"
	case StateScanning:
		return "ctrl+c: cancel"
	case StateReview:
		return "a: apply all • r: review one-by-one • p: show changes • q: exit"
	case StateConfirm:
		return "y: apply • n: skip • q: stop"
	case StateApplying:
		return "ctrl+c: stop after this book"
	case StateResults, StateError:
		return "r: scan again • q: quit"
	}
	return ""
}

// State returns the current UI state.
func (m Model) State() State { return m.state }

// Summary returns the session counters so far.
func (m Model) Summary() executor.SessionSummary { return m.summary }

// eventBuffer collects engine progress events between plans.
type eventBuffer struct {
	mu     sync.Mutex
	events []executor.ProgressEvent
}

func (b *eventBuffer) Add(e executor.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *eventBuffer) Drain() []executor.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// Run starts the TUI application.
func Run(settings *config.Settings, log *logger.Logger) error {
	p := tea.NewProgram(NewModel(settings, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
