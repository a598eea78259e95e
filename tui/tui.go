// Package tui provides the interactive terminal frontend for a batch run.
//
// The flow is a short screen sequence: a confirmation screen showing the
// planned jobs, a running screen with a progress bar fed by the batch
// runner, and a summary screen. The runner executes in its own goroutine
// and reports through a message channel that the update loop drains one
// message at a time.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ctapress/batch"
	"ctapress/config"
	"ctapress/internal/timeutil"
	"ctapress/models"
)

type screen int

const (
	screenConfirm screen = iota
	screenRunning
	screenDone
)

const (
	padding  = 2
	maxWidth = 80
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type (
	// jobDoneMsg reports one finished job from the runner callback.
	jobDoneMsg struct {
		completed int
		total     int
		result    *models.JobResult
	}
	// jobProgressMsg carries streamed encoder progress for the job
	// currently running.
	jobProgressMsg struct {
		video   string
		percent float64
		speed   float64
	}
	// batchDoneMsg carries the full result set once the runner returns.
	batchDoneMsg struct {
		results []*models.JobResult
	}
	tickMsg time.Time
)

type startedMsg struct {
	cancel context.CancelFunc
	ch     chan tea.Msg
}

// Model is the bubbletea model for a batch run.
type Model struct {
	screen screen

	cfg    *config.Config
	items  []batch.Item
	runner *batch.Runner

	progress   progress.Model
	completed  int
	total      int
	lastResult *models.JobResult

	encodingVideo   string
	encodingPercent float64
	encodingSpeed   float64

	startTime time.Time
	elapsed   float64

	cancelFn context.CancelFunc
	msgCh    chan tea.Msg

	results  []*models.JobResult
	canceled bool
}

// New creates a model for the given plan. The runner is started only after
// the user confirms.
func New(cfg *config.Config, items []batch.Item, runner *batch.Runner) Model {
	pb := progress.New(progress.WithDefaultGradient())
	pb.Width = maxWidth

	return Model{
		screen:   screenConfirm,
		cfg:      cfg,
		items:    items,
		runner:   runner,
		progress: pb,
		total:    len(items),
	}
}

// Results returns the batch results collected before exit. Nil when the run
// never started or was abandoned mid-flight.
func (m Model) Results() []*models.JobResult { return m.results }

// Canceled reports whether the user aborted the run.
func (m Model) Canceled() bool { return m.canceled }

func (m Model) Init() tea.Cmd {
	return nil
}

// startBatchCmd wires the runner callback into the message channel and
// launches the batch in a goroutine. The channel is buffered so the runner
// never blocks on a slow redraw.
func (m Model) startBatchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		ch := make(chan tea.Msg, len(m.items)+1)

		m.runner.SetProgressCallback(func(completed, total int, result *models.JobResult) {
			ch <- jobDoneMsg{completed: completed, total: total, result: result}
		})

		// encoder updates arrive far faster than redraws; drop instead of
		// blocking the runner
		m.runner.SetJobProgressCallback(func(item batch.Item, p *models.EncodingProgress) {
			select {
			case ch <- jobProgressMsg{video: item.MainVideo, percent: p.Progress, speed: p.Speed}:
			default:
			}
		})

		go func() {
			results := m.runner.Run(ctx, m.items)
			ch <- batchDoneMsg{results: results}
		}()

		return startedMsg{cancel: cancel, ch: ch}
	}
}

func listen(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenConfirm:
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.Type {
			case tea.KeyEnter:
				m.screen = screenRunning
				m.startTime = time.Now()
				return m, tea.Batch(m.startBatchCmd(), tick())
			case tea.KeyEsc, tea.KeyCtrlC:
				m.canceled = true
				return m, tea.Quit
			}
			if msg.String() == "q" {
				m.canceled = true
				return m, tea.Quit
			}
		}
		return m, nil

	case screenRunning:
		switch msg := msg.(type) {
		case tea.WindowSizeMsg:
			m.progress.Width = msg.Width - padding*2 - 4
			if m.progress.Width > maxWidth {
				m.progress.Width = maxWidth
			}
			return m, nil

		case progress.FrameMsg:
			pm, cmd := m.progress.Update(msg)
			if p, ok := pm.(progress.Model); ok {
				m.progress = p
			}
			return m, cmd

		case startedMsg:
			m.cancelFn = msg.cancel
			m.msgCh = msg.ch
			return m, listen(m.msgCh)

		case jobDoneMsg:
			m.completed = msg.completed
			m.total = msg.total
			m.lastResult = msg.result
			m.encodingVideo = ""
			m.encodingPercent = 0
			cmd := m.progress.SetPercent(float64(msg.completed) / float64(msg.total))
			return m, tea.Batch(cmd, listen(m.msgCh))

		case jobProgressMsg:
			m.encodingVideo = msg.video
			m.encodingPercent = msg.percent
			m.encodingSpeed = msg.speed
			return m, listen(m.msgCh)

		case batchDoneMsg:
			m.results = msg.results
			m.screen = screenDone
			return m, nil

		case tickMsg:
			m.elapsed = time.Since(m.startTime).Seconds()
			return m, tick()

		case tea.KeyMsg:
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				if m.cancelFn != nil {
					m.cancelFn()
				}
				m.canceled = true
				// keep draining so the runner can record aborted jobs
				return m, nil
			}
		}
		return m, nil

	case screenDone:
		switch msg.(type) {
		case tea.KeyMsg:
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case screenConfirm:
		return m.viewConfirm()
	case screenRunning:
		return m.viewRunning()
	case screenDone:
		return m.viewDone()
	default:
		return ""
	}
}

func (m Model) viewConfirm() string {
	var s strings.Builder

	s.WriteString("\n" + titleStyle.Render("Planned jobs") + "\n\n")

	planned := 0
	for _, item := range m.items {
		if item.Err != nil {
			s.WriteString(fmt.Sprintf("  %s %s\n", failStyle.Render("✗"), item.Err))
			continue
		}
		planned++
		s.WriteString(fmt.Sprintf("  %s -> %s\n", item.MainVideo, dimStyle.Render(item.Output)))
	}

	s.WriteString(fmt.Sprintf(
		"\n%d job(s), overlay %.1fs, %d worker(s)",
		planned, m.cfg.Overlay, m.cfg.Workers,
	))
	if m.cfg.UseGPU {
		s.WriteString(", NVENC")
	}
	s.WriteString("\n\n" + dimStyle.Render("Enter to start, Esc to quit") + "\n")
	return s.String()
}

func (m Model) viewRunning() string {
	pad := strings.Repeat(" ", padding)

	var s strings.Builder
	s.WriteString("\n" + pad + m.progress.View() + "\n\n")
	s.WriteString(fmt.Sprintf("%s%d/%d jobs, elapsed %s\n",
		pad, m.completed, m.total, timeutil.FormatSeconds(m.elapsed)))

	if m.encodingVideo != "" {
		line := fmt.Sprintf("encoding %s  %.1f%%", m.encodingVideo, m.encodingPercent)
		if m.encodingSpeed > 0 {
			line += fmt.Sprintf("  %.2fx", m.encodingSpeed)
		}
		s.WriteString(pad + dimStyle.Render(line) + "\n")
	}

	if m.lastResult != nil {
		if m.lastResult.Success {
			s.WriteString(pad + okStyle.Render("✓ "+m.lastResult.OutputPath) + "\n")
		} else {
			s.WriteString(pad + failStyle.Render("✗ "+m.lastResult.MainVideo) + "\n")
		}
	}
	if m.canceled {
		s.WriteString("\n" + pad + failStyle.Render("Canceling...") + "\n")
	} else {
		s.WriteString("\n" + pad + dimStyle.Render("Ctrl+C to cancel") + "\n")
	}
	return s.String()
}

func (m Model) viewDone() string {
	succeeded, failed := batch.Summarize(m.results)

	var s strings.Builder
	s.WriteString("\n" + titleStyle.Render("Batch finished") + "\n\n")
	s.WriteString(fmt.Sprintf("  %s  %s\n",
		okStyle.Render(fmt.Sprintf("%d succeeded", succeeded)),
		failStyle.Render(fmt.Sprintf("%d failed", failed))))

	for _, r := range m.results {
		if r == nil || r.Success {
			continue
		}
		s.WriteString(fmt.Sprintf("  %s %s: %v\n", failStyle.Render("✗"), r.MainVideo, r.Error))
	}

	s.WriteString("\n" + dimStyle.Render("press any key to exit") + "\n")
	return s.String()
}

// Run drives the TUI to completion and returns the final model.
func Run(cfg *config.Config, items []batch.Item, runner *batch.Runner) (Model, error) {
	p := tea.NewProgram(New(cfg, items, runner))
	final, err := p.Run()
	if err != nil {
		return Model{}, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return Model{}, fmt.Errorf("unexpected final model type")
}
