package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestInsights_RejectsUnknownFormat(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	err := execute(t, "--config", missing, "insights", "--format", "xml", "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestChart_RejectsUnknownKind(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	err := execute(t, "--config", missing, "chart", "candles", "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chart kind")
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o644))

	err := execute(t, "--config", path, "insights", "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation")
}

func TestInsights_RequiresCompany(t *testing.T) {
	err := execute(t, "insights")
	require.Error(t, err)
}
