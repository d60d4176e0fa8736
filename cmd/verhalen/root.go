package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"verhalen-machine/internal/config"
	"verhalen-machine/internal/gatewayclient"
	"verhalen-machine/internal/logger"
)

// errReported means the command already told the user what went wrong.
var errReported = errors.New("reported")

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F780FF")).
			Bold(true)

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true)

	storyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E9E9F4")).
			Width(80)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

type rootOptions struct {
	gateway string
	verbose bool
}

func (o *rootOptions) client() *gatewayclient.Client {
	return gatewayclient.New(o.gateway, nil)
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger.NewWriter(w, "debug")
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "verhalen",
		Short: "Verhalen Machine - origin stories for children",
		Long: `Verhalen Machine writes short Dutch origin stories for children aged 6-10.

Give it a word and it plans a story in three parts, then writes each part in
turn through the gateway. The story can be narrated to an mp3 file.

Environment variables:
  GATEWAY_URL   - base URL of the gateway (default: http://localhost:8080)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.gateway, "gateway", cfg.GatewayURL, "Base URL of the gateway")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every gateway call to stderr")

	root.AddCommand(newTellCmd(opts), newSpeakCmd(opts), newExamplesCmd())
	return root
}
