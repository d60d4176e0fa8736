package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"verhalen-machine/internal/story"
)

func newTellCmd(opts *rootOptions) *cobra.Command {
	var speakTo string

	cmd := &cobra.Command{
		Use:   "tell [topic]",
		Short: "Write an origin story about a topic",
		Long: `Write a three-part origin story about a topic.

Examples:
  verhalen tell pizza
  verhalen tell regenboog --speak regenboog.mp3
  verhalen tell fiets --gateway http://localhost:9090`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTell(cmd, opts, strings.Join(args, " "), speakTo)
		},
	}
	cmd.Flags().StringVar(&speakTo, "speak", "", "Also narrate the story into this mp3 file")
	return cmd
}

func runTell(cmd *cobra.Command, opts *rootOptions, topic, speakTo string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	gw := opts.client()

	gen := story.New(gw,
		story.WithProgress(func(step string) {
			fmt.Fprintln(errOut, progressStyle.Render("→ "+step))
		}),
		story.WithLogger(opts.logger(errOut)),
	)

	text, err := gen.Tell(ctx, topic)
	if errors.Is(err, story.ErrEmptyTopic) {
		return fmt.Errorf("%s geef een onderwerp op, bijvoorbeeld: verhalen tell pizza", errorStyle.Render("Fout:"))
	}
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render(text))
		return errReported
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render("Het verhaal van "+strings.TrimSpace(topic)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, storyStyle.Render(text))
	fmt.Fprintln(out)

	if speakTo == "" {
		return nil
	}
	fmt.Fprintln(errOut, progressStyle.Render("→ Verhaal voorlezen..."))
	audio, err := gw.Speak(ctx, text)
	if err != nil {
		return fmt.Errorf("%s narration failed: %w", errorStyle.Render("Fout:"), err)
	}
	if err := os.WriteFile(speakTo, audio.Data, 0o644); err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Fout:"), err)
	}
	fmt.Fprintln(errOut, successStyle.Render(fmt.Sprintf("✓ %s opgeslagen (%d bytes)", speakTo, len(audio.Data))))
	return nil
}
