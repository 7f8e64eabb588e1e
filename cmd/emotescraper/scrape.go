package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"emotescraper/pkg/config"
	"emotescraper/pkg/logger"
	"emotescraper/pkg/scraper"
	"emotescraper/pkg/ui"
	"emotescraper/pkg/ui/tui"
)

// collectFlags returns the overrides the user actually set
func collectFlags(cmd *cobra.Command) config.Flags {
	var f config.Flags
	changed := cmd.Flags().Changed

	if changed("output") {
		f.OutputDir = &outputDir
	}
	if changed("log-level") {
		f.LogLevel = &logLevel
	}
	if changed("concurrent") {
		f.Concurrent = &concurrent
	}
	if changed("rate-limit") {
		f.RequestsPerMinute = &rateLimit
	}
	if changed("timeout") {
		f.Timeout = &timeout
	}
	if changed("strict") {
		f.Strict = &strict
	}
	return f
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The live view owns the terminal, so console logging is reduced unless asked for.
	if useTUI && !cmd.Flags().Changed("log-level") && cfg.Logging.File == "" {
		cfg.Logging.Level = "disabled"
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("emotescraper starting")

	var indexURL string
	if len(args) == 1 {
		indexURL = args[0]
	} else {
		in := cmd.InOrStdin()
		indexURL, err = readURL(in, cmd.OutOrStdout(), isTerminal(in))
		if err != nil {
			return err
		}
	}

	console := ui.NewConsole(cmd.OutOrStdout(), quiet)
	s := scraper.New(cfg, log)

	var outcome *scraper.Outcome
	if useTUI {
		outcome, err = runWithTUI(cmd.Context(), s, indexURL)
	} else {
		s.SetProgress(console)
		outcome, err = s.Run(cmd.Context(), indexURL)
	}
	if err != nil {
		log.WithError(err).WithField("url", indexURL).Error("Scrape failed")
		if outcome != nil {
			console.PrintReport(outcome.Failures(), outcome.Downloaded, s.OutputDir())
		}
		return err
	}

	console.PrintReport(outcome.Failures(), outcome.Downloaded, s.OutputDir())

	if cfg.Download.Strict && outcome.HasFailures() {
		return errItemFailures
	}
	return nil
}

// runWithTUI runs the scrape in the background while the live view owns the terminal
func runWithTUI(ctx context.Context, s *scraper.Scraper, indexURL string) (*scraper.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := tui.New(cancel, tea.WithAltScreen())
	s.SetProgress(view)

	var (
		outcome *scraper.Outcome
		runErr  error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		outcome, runErr = s.Run(ctx, indexURL)

		downloaded, failed := 0, 0
		if outcome != nil {
			downloaded, failed = outcome.Downloaded, len(outcome.Failures())
		}
		view.Finish(downloaded, failed, runErr)
	}()

	if err := view.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("terminal UI failed: %w", err)
	}
	<-done
	return outcome, runErr
}
