package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"emotescraper/pkg/models"
)

// Console writes progress markers and the final report to a writer.
// It is safe for concurrent use.
type Console struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	quiet    bool
	mu       sync.Mutex

	marker  lipgloss.Style
	detail  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	name    lipgloss.Style
}

// NewConsole creates a console bound to out. The renderer inspects out,
// so colour is dropped when out is not a terminal.
func NewConsole(out io.Writer, quiet bool) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out:      out,
		renderer: r,
		quiet:    quiet,
		marker:   r.NewStyle().Foreground(lipgloss.Color("6")),
		detail:   r.NewStyle().Faint(true),
		success:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failure:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		name:     r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Quiet reports whether progress markers are suppressed
func (c *Console) Quiet() bool {
	return c.quiet
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}

func (c *Console) progress(s string) {
	if c.quiet {
		return
	}
	c.println(s)
}

// FetchingIndex prints the index marker
func (c *Console) FetchingIndex(url string) {
	c.progress(c.marker.Render("Fetching index") + " " + c.detail.Render(url))
}

// FoundLinks prints how many detail links the index held
func (c *Console) FoundLinks(count int) {
	c.progress(c.detail.Render(fmt.Sprintf("Found %d emotes", count)))
}

// FetchingDetail prints the detail page marker
func (c *Console) FetchingDetail(link string) {
	c.progress(c.marker.Render("Fetching") + " " + link)
}

// Downloading prints the download marker
func (c *Console) Downloading(name string) {
	c.progress(c.marker.Render("Downloading") + " " + name)
}

// PrintReport prints the end-of-run report. With no failures it prints a
// single success line naming dir.
func (c *Console) PrintReport(failures []models.Failure, downloaded int, dir string) {
	if len(failures) == 0 {
		msg := fmt.Sprintf("Downloaded %d emotes", downloaded)
		if dir != "" {
			msg += " to " + dir
		}
		c.println(c.success.Render(msg))
		return
	}

	c.println(c.failure.Render("There were failures:") + "\n")
	for _, f := range failures {
		c.println(c.name.Render(f.Name) + ": " + f.Message)
	}
}

// PrintError prints a fatal error
func (c *Console) PrintError(err error) {
	c.println(c.failure.Render("Error:") + " " + err.Error())
}

// PrintInfo prints a label and value pair
func (c *Console) PrintInfo(label, value string) {
	c.println(c.marker.Render(label+":") + " " + value)
}

// PrintSuccess prints a success line
func (c *Console) PrintSuccess(msg string) {
	c.println(c.success.Render(msg))
}
