package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newSpeakCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "speak [text]",
		Short: "Narrate text into an mp3 file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("%s text is required", errorStyle.Render("Fout:"))
			}
			audio, err := opts.client().Speak(context.Background(), text)
			if err != nil {
				return fmt.Errorf("%s %w", errorStyle.Render("Fout:"), err)
			}
			if err := os.WriteFile(output, audio.Data, 0o644); err != nil {
				return fmt.Errorf("%s %w", errorStyle.Render("Fout:"), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("✓ %s opgeslagen (%d bytes)", output, len(audio.Data))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "verhaal.mp3", "Where to write the audio")
	return cmd
}
