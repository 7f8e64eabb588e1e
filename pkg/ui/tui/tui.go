// Package tui is a full-screen live view of a scrape run built on bubbletea.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI represents the terminal user interface. Its marker methods can be
// called from any goroutine while Run is active.
type TUI struct {
	program *tea.Program
}

// New creates a TUI. cancel is invoked if the user quits before the run ends.
func New(cancel context.CancelFunc, opts ...tea.ProgramOption) *TUI {
	model := NewModel(cancel)
	return &TUI{program: tea.NewProgram(model, opts...)}
}

// Run blocks until the run finishes or the user quits
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// FetchingIndex notifies the TUI that the index fetch started
func (t *TUI) FetchingIndex(url string) { t.program.Send(IndexMsg{URL: url}) }

// FoundLinks notifies the TUI of the number of detail links
func (t *TUI) FoundLinks(count int) { t.program.Send(LinksMsg{Count: count}) }

// FetchingDetail notifies the TUI that a detail fetch started
func (t *TUI) FetchingDetail(link string) { t.program.Send(DetailMsg{Link: link}) }

// Downloading notifies the TUI that a download started
func (t *TUI) Downloading(name string) { t.program.Send(DownloadMsg{Name: name}) }

// Finish tells the TUI the run is over, which ends Run
func (t *TUI) Finish(downloaded, failed int, err error) {
	t.program.Send(DoneMsg{Downloaded: downloaded, Failed: failed, Err: err})
}
