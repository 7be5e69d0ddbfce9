package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "describely.dev/pkg/describely/internal/model"
)

func TestRootCmd_SubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "view", "merge", "replay", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{
		outputFlagName, slowFlagName, expandAllFlagName,
		noFixturesFlagName, htmlFlagName, plainFlagName,
	} {
		require.NotNil(t, flags.Lookup(name), "missing flag %q", name)
	}

	output, err := flags.GetString(outputFlagName)
	require.NoError(t, err)
	assert.Equal(t, defaultReportsDir, output)
}

func TestSessionArgs_Defaults(t *testing.T) {
	args := sessionArgs()

	assert.Equal(t, m.Path(defaultReportsDir), args.Reports)
	assert.Equal(t, defaultSlowThreshold, args.SlowThreshold)
	assert.False(t, args.ExpandAll)
	assert.False(t, args.HTMLReport)
	assert.Empty(t, args.RecordPath)
}
