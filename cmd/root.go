// Package cmd provides the root command and CLI setup for describely.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"describely.dev/pkg/describely/internal/adapter"
	"describely.dev/pkg/describely/internal/controller"
	"describely.dev/pkg/describely/internal/domain"
	m "describely.dev/pkg/describely/internal/model"
)

var reportStore adapter.ReportStore
var ui controller.UI
var workflow domain.Workflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// slowThresholdFlag flags tests slower than this duration in the output.
var slowThresholdFlag time.Duration

// expandAllFlag shows docstrings and fixture names inline.
var expandAllFlag bool

// noFixturesFlag suppresses fixture display even in expanded mode.
var noFixturesFlag bool

// htmlFlag generates an HTML report next to report.yaml.
var htmlFlag bool

// plainFlag forces the sequential UI even on interactive terminals.
var plainFlag bool

var logFileFlag string
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	reportStore = adapter.NewReportStore()
}

const rootLongDescription = `Describely renders test runner event streams as live describe trees.

A host runner emits discovery and result events as JSON lines; describely
builds the nested describe/test tree, shows results as they arrive, and
prints a tree-ordered summary with per-group rollups at the end. Finished
sessions are saved so they can be viewed again, merged across CI shards,
or exported as an HTML report.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describely",
		Short: "Describe-tree test reporter",
		Long:  rootLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)

			interactive := controller.IsTTY(os.Stdout) && !viper.GetBool(plainConfigKey)
			ui = controller.NewUI(cmd.Root(), interactive)
			workflow = domain.NewWorkflow(reportStore, ui)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for session reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().DurationVar(&slowThresholdFlag, slowFlagName, slowThreshold(), "flag tests slower than this duration")

	cmd.PersistentFlags().BoolVar(&expandAllFlag, expandAllFlagName, viper.GetBool(expandAllConfigKey), "show docstrings and fixture names inline")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(expandAllFlagName), expandAllConfigKey)

	cmd.PersistentFlags().BoolVar(&noFixturesFlag, noFixturesFlagName, viper.GetBool(noFixturesConfigKey), "hide fixture names in expanded output")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noFixturesFlagName), noFixturesConfigKey)

	cmd.PersistentFlags().BoolVar(&htmlFlag, htmlFlagName, viper.GetBool(htmlConfigKey), "also generate an HTML report")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(htmlFlagName), htmlConfigKey)

	cmd.PersistentFlags().BoolVar(&plainFlag, plainFlagName, viper.GetBool(plainConfigKey), "plain sequential output, no interactive view")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(plainFlagName), plainConfigKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "log file path (default "+defaultLogFilename+")")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// sessionArgs assembles the workflow arguments shared by all commands
// from the resolved flag/config values.
func sessionArgs() domain.SessionArgs {
	return domain.SessionArgs{
		Reports:       m.Path(viper.GetString(outputFlagName)),
		SlowThreshold: slowThresholdFlag,
		ExpandAll:     viper.GetBool(expandAllConfigKey),
		NoFixtures:    viper.GetBool(noFixturesConfigKey),
		HTMLReport:    viper.GetBool(htmlConfigKey),
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
