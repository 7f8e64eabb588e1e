package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "0.3.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool

	// Scrape flags
	outputDir  string
	concurrent int
	rateLimit  int
	timeout    time.Duration
	strict     bool
	useTUI     bool
)

// errItemFailures signals a strict run that recorded failures. The report
// has already been printed, so Execute prints nothing more.
var errItemFailures = errors.New("one or more emotes failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "emotescraper [url]",
	Short: "Download every emote of a channel from its emote index page",
	Long: `emotescraper downloads all emotes listed on a channel's emote index page.

Every emote detail page linked from the index is fetched, its name and image
URL are extracted, and the image is saved as <output>/emotes/<name>.<ext>.
Failed emotes are reported at the end; they do not stop the run.

If no URL is given, one is read from standard input.`,
	Example: `  # Download to the desktop
  emotescraper https://twitchemotes.com/channels/12345

  # Download to a specific directory with four workers
  emotescraper https://twitchemotes.com/channels/12345 -o ./out --concurrent 4

  # Fail the process if any emote fails
  emotescraper https://twitchemotes.com/channels/12345 --strict`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errItemFailures) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.emotescraper.yaml or $HOME/.emotescraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress markers")

	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output root; emotes go to <output>/emotes (default: desktop)")
	rootCmd.Flags().IntVar(&concurrent, "concurrent", 1, "number of concurrent workers")
	rootCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "requests per minute (0 disables pacing)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "timeout for each request")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero if any emote fails")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "show a full-screen live view")

	rootCmd.SetVersionTemplate(`emotescraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
