package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "describely.dev/pkg/describely/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge [shards-dir]",
		Short: "Merge sharded session reports",
		Long: `Merge reports from shard_* subdirectories into a single reports
directory. Defaults to merging shards found under the output directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			shardsRoot := m.Path(viper.GetString(outputFlagName))
			if len(args) == 1 {
				shardsRoot = m.Path(args[0])
			}

			return workflow.Merge(context.Background(), shardsRoot, sessionArgs())
		},
	}
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
