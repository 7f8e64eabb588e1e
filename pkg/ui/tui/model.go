package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
)

// Phase is the stage of the run shown in the header
type Phase int

const (
	PhaseIndex Phase = iota
	PhaseDetail
	PhaseDownload
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIndex:
		return "Fetching index"
	case PhaseDetail:
		return "Fetching detail pages"
	case PhaseDownload:
		return "Downloading"
	default:
		return "Done"
	}
}

const maxRecent = 8

// Model represents the TUI model
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	url              string
	phase            Phase
	total            int
	detailsStarted   int
	downloadsStarted int
	recent           []string

	downloaded int
	failed     int
	err        error

	width  int
	cancel context.CancelFunc
}

// NewModel creates a model. cancel is called when the user quits early and may be nil.
func NewModel(cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:  s,
		progress: p,
		cancel:   cancel,
	}
}

// Percent returns overall completion across the detail and download phases
func (m Model) Percent() float64 {
	if m.phase == PhaseDone {
		return 1
	}
	if m.total == 0 {
		return 0
	}
	return float64(m.detailsStarted+m.downloadsStarted) / float64(2*m.total)
}

func (m *Model) addRecent(line string) {
	m.recent = append(m.recent, line)
	if len(m.recent) > maxRecent {
		m.recent = m.recent[len(m.recent)-maxRecent:]
	}
}
