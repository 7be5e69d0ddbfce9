package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"describely.dev/pkg/describely/internal/adapter"
	m "describely.dev/pkg/describely/internal/model"
)

var runRecordFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [events-file]",
		Short: "Render a test session from an event stream",
		Long: `Consume runner events from the given file (or stdin when omitted),
render results live, and save the finished session to the reports
directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := cmd.InOrStdin()

			if len(args) == 1 {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open events file: %w", err)
				}

				defer func() { _ = file.Close() }()

				reader = file
			}

			sargs := sessionArgs()
			sargs.RecordPath = m.Path(runRecordFlag)

			source := adapter.NewJSONLEventSource(reader)

			return workflow.Run(context.Background(), source, sargs)
		},
	}

	cmd.Flags().StringVar(&runRecordFlag, "record", "", "record raw events to a journal for later replay")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
