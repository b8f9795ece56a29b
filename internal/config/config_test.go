package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/lib/xlog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xtree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultTreeCount, cfg.Tree.Count)
	require.Equal(t, uint64(DefaultTreeSeed), cfg.Tree.Seed)
	require.InDelta(t, DefaultTreeRemoveRatio, cfg.Tree.RemoveRatio, 1e-9)
	require.False(t, cfg.Tree.Desc)
	require.False(t, cfg.Tree.BorrowPred)
	require.Equal(t, uint32(DefaultTreeArenaChunk), cfg.Tree.ArenaChunk)
	require.Equal(t, xlog.LogLevelInfo, cfg.LogLevel())
	require.Equal(t, DefaultLogEncoder, cfg.Log.Encoder)
	require.Equal(t, DefaultMetricsExporter, cfg.Metrics.Exporter)
	require.Equal(t, DefaultMetricsInterval, cfg.Metrics.Interval)
	require.Equal(t, DefaultOutputPreview, cfg.Output.Preview)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
tree:
  count: 10
  seed: 42
  remove_ratio: 0.25
  desc: true
  borrow_pred: true
log:
  level: debug
  encoder: json
metrics:
  exporter: stdout
  interval: 3s
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Tree.Count)
	require.Equal(t, uint64(42), cfg.Tree.Seed)
	require.InDelta(t, 0.25, cfg.Tree.RemoveRatio, 1e-9)
	require.True(t, cfg.Tree.Desc)
	require.True(t, cfg.Tree.BorrowPred)
	require.Equal(t, xlog.LogLevelDebug, cfg.LogLevel())
	require.Equal(t, "json", cfg.Log.Encoder)
	require.Equal(t, "stdout", cfg.Metrics.Exporter)
	require.Equal(t, 3*time.Second, cfg.Metrics.Interval)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("XTREE_TREE_COUNT", "77")
	t.Setenv("XTREE_METRICS_EXPORTER", "prometheus")

	cfg, err := LoadConfig(writeConfig(t, "tree:\n  count: 10\n"))
	require.NoError(t, err)
	require.Equal(t, 77, cfg.Tree.Count)
	require.Equal(t, "prometheus", cfg.Metrics.Exporter)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testcases := []struct {
		name    string
		content string
	}{
		{"negative count", "tree:\n  count: -1\n"},
		{"ratio over one", "tree:\n  remove_ratio: 1.5\n"},
		{"negative preview", "output:\n  preview: -2\n"},
		{"unknown exporter", "metrics:\n  exporter: otlp\n"},
		{"broken yaml", "tree: [\n"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			_, err := LoadConfig(writeConfig(tt, tc.content))
			require.Error(tt, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	cfg.Tree.Count = -1
	require.ErrorIs(t, cfg.Validate(), ErrInvalidCount)

	cfg.Tree.Count = 1
	cfg.Tree.RemoveRatio = -0.1
	require.ErrorIs(t, cfg.Validate(), ErrInvalidRemoveRatio)
}
