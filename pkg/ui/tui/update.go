package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// IndexMsg is sent when the index page fetch starts
type IndexMsg struct {
	URL string
}

// LinksMsg is sent once the index page has been parsed
type LinksMsg struct {
	Count int
}

// DetailMsg is sent when a detail page fetch starts
type DetailMsg struct {
	Link string
}

// DownloadMsg is sent when an image download starts
type DownloadMsg struct {
	Name string
}

// DoneMsg is sent when the run has finished
type DoneMsg struct {
	Downloaded int
	Failed     int
	Err        error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 8; w > 10 && w < 60 {
			m.progress.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case IndexMsg:
		m.url = msg.URL
		m.phase = PhaseIndex
		return m, nil

	case LinksMsg:
		m.total = msg.Count
		m.phase = PhaseDetail
		return m, nil

	case DetailMsg:
		m.phase = PhaseDetail
		m.detailsStarted++
		m.addRecent("Fetching " + msg.Link)
		return m, nil

	case DownloadMsg:
		m.phase = PhaseDownload
		m.downloadsStarted++
		m.addRecent("Downloading " + msg.Name)
		return m, nil

	case DoneMsg:
		m.phase = PhaseDone
		m.downloaded = msg.Downloaded
		m.failed = msg.Failed
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}
	return m, nil
}
