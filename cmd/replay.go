package cmd

import (
	"context"

	"github.com/spf13/cobra"

	m "describely.dev/pkg/describely/internal/model"
)

// replayCmd represents the replay command.
var replayCmd = newReplayCmd()

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <journal>",
		Short: "Replay a recorded event journal",
		Long: `Re-feed a journal recorded with 'run --record' through the live
pipeline, as if the session were running again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Replay(context.Background(), m.Path(args[0]), sessionArgs())
		},
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
