package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		hidden  slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug, hidden: slog.LevelDebug - 1},
		{level: "info", enabled: slog.LevelInfo, hidden: slog.LevelDebug},
		{level: "warn", enabled: slog.LevelWarn, hidden: slog.LevelInfo},
		{level: "error", enabled: slog.LevelError, hidden: slog.LevelWarn},
		{level: "bogus", enabled: slog.LevelInfo, hidden: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := setupLogger(tt.level)
			assert.True(t, logger.Enabled(context.Background(), tt.enabled))
			assert.False(t, logger.Enabled(context.Background(), tt.hidden))
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"serve", "scrape", "list"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "config.yaml", flag.DefValue)
}

func TestListCmd_RequiresContentType(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"list"})
	root.SilenceErrors = true

	assert.Error(t, root.Execute())
}

func TestListCmd_RejectsUnknownContentType(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"list", "blog", "--config", "missing.yaml"})
	root.SilenceErrors = true

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown content type")
}
