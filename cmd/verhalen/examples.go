package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"verhalen-machine/internal/story"
)

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List example topics",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Probeer eens:"))
			for _, topic := range story.ExampleTopics {
				fmt.Fprintln(out, "  "+topic)
			}
		},
	}
}
