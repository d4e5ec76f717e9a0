// Package tui provides an optional live progress view for a single
// job, driven by the same progress-listener callback the supervisor
// already calls.
//
// Grounded on internal/tui/model.go's Bubble Tea application shape
// (Model/Init/Update/View, a TickMsg for periodic re-render, a
// StatsMsg the caller feeds in via tea.Program.Send) collapsed from a
// multi-client swarm dashboard down to one job's frame/fps/speed/
// elapsed readout, since a single-shot driver has exactly one thing
// to watch instead of a fleet.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomwye/ffmpegjob/internal/ffmpegparser"
)

// ProgressMsg carries one progress event into the running program.
type ProgressMsg ffmpegparser.ProgressEvent

// DoneMsg signals the job finished, successfully or not.
type DoneMsg struct {
	Err error
}

type tickMsg time.Time

// Model is the TUI's Bubble Tea state.
type Model struct {
	contextName string
	startTime   time.Time
	latest      ffmpegparser.ProgressEvent
	haveEvent   bool
	done        bool
	err         error
	width       int
}

// New builds a Model for a job labelled contextName.
func New(contextName string) Model {
	return Model{contextName: contextName, startTime: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case ProgressMsg:
		m.latest = ffmpegparser.ProgressEvent(msg)
		m.haveEvent = true
		return m, nil
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) View() string {
	return render(m)
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Elapsed reports how long the job has been running.
func (m Model) Elapsed() time.Duration { return time.Since(m.startTime) }
