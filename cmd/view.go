package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "View a previously saved session",
		Long:  "Re-render the summary of a saved session from the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.View(context.Background(), sessionArgs())
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
