package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the live status panel
func (m Model) View() string {
	var sections []string

	header := titleStyle.Render("emotescraper")
	if m.url != "" {
		header += " " + recentStyle.Render(m.url)
	}
	sections = append(sections, header)

	status := phaseStyle.Render(m.phase.String())
	if m.phase != PhaseDone {
		status = m.spinner.View() + " " + status
	}
	sections = append(sections, status)

	sections = append(sections, m.progress.ViewAs(m.Percent()))
	sections = append(sections, fmt.Sprintf("%d emotes  %d detail pages  %d downloads",
		m.total, m.detailsStarted, m.downloadsStarted))

	if len(m.recent) > 0 {
		lines := make([]string, len(m.recent))
		for i, r := range m.recent {
			lines[i] = recentStyle.Render(r)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if m.phase == PhaseDone {
		sections = append(sections, m.renderSummary())
	} else {
		sections = append(sections, helpStyle.Render("q: stop"))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...)) + "\n"
}

func (m Model) renderSummary() string {
	if m.err != nil {
		return errorStyle.Render("Stopped: " + m.err.Error())
	}
	if m.failed > 0 {
		return errorStyle.Render(fmt.Sprintf("%d downloaded, %d failed", m.downloaded, m.failed))
	}
	return successStyle.Render(fmt.Sprintf("%d downloaded", m.downloaded))
}
