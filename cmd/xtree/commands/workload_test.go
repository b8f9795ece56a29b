package commands

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/internal/config"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
)

func testConfig(count int, seed uint64, ratio float64) *config.Config {
	return &config.Config{
		Tree: config.TreeConfig{
			Count:       count,
			Seed:        seed,
			RemoveRatio: ratio,
			ArenaChunk:  16,
		},
		Log: config.LogConfig{
			Level:   "ERROR",
			Encoder: "json",
		},
		Metrics: config.MetricsConfig{
			Exporter: "none",
		},
		Output: config.OutputConfig{
			Preview: 4,
		},
	}
}

func TestWorkload_Run(t *testing.T) {
	testcases := []struct {
		name  string
		count int
		ratio float64
		desc  bool
		pred  bool
	}{
		{"empty", 0, 0.5, false, false},
		{"keep all", 300, 0, false, false},
		{"remove half", 1000, 0.5, false, false},
		{"remove all", 500, 1, false, false},
		{"desc borrow pred", 800, 0.3, true, true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			cfg := testConfig(tc.count, 42, tc.ratio)
			cfg.Tree.Desc = tc.desc
			cfg.Tree.BorrowPred = tc.pred
			logger := xlog.NewNopXLogger()
			rb := newTree(cfg, logger)

			rep, err := newWorkload(cfg, rb, logger).run()
			require.NoError(tt, err)
			require.Equal(tt, uint64(42), rep.Seed)
			require.Equal(tt, tc.count, rep.Generated)
			require.Equal(tt, tc.count, rep.Inserted+rep.Duplicates)
			require.Equal(tt, int(float64(rep.Inserted)*tc.ratio), rep.Removed)
			require.Equal(tt, 1, rep.Misses)
			require.Equal(tt, int64(rep.Inserted-rep.Removed), rep.Size)
			require.Equal(tt, rb.Len(), rep.Size)
			require.LessOrEqual(tt, float64(rep.Height), rep.Bound+1e-9)
			require.Equal(tt, int64(rep.Inserted), rep.Stats.Inserts)
			require.Equal(tt, int64(rep.Removed), rep.Stats.Removes)
			require.LessOrEqual(tt, len(rep.Dfs), 4)
			require.Len(tt, rep.Bfs, len(rep.Dfs))
			if rep.Size > 0 {
				require.Equal(tt, rb.Root().Val(), rep.Dfs[0])
				require.Equal(tt, rep.Dfs[0], rep.Bfs[0])
				if tc.desc {
					require.GreaterOrEqual(tt, rep.Min, rep.Max)
				} else {
					require.LessOrEqual(tt, rep.Min, rep.Max)
				}
			}
			require.NoError(tt, rb.Validate())
		})
	}
}

func TestWorkload_SameSeedSameTree(t *testing.T) {
	run := func() []int64 {
		cfg := testConfig(256, 7, 0.5)
		rb := newTree(cfg, xlog.NewNopXLogger())
		_, err := newWorkload(cfg, rb, xlog.NewNopXLogger()).run()
		require.NoError(t, err)
		values := make([]int64, 0, rb.Len())
		rb.Foreach(func(idx int64, color tree.RBColor, val int64) bool {
			values = append(values, val)
			return true
		})
		return values
	}
	require.Equal(t, run(), run())
}

func TestWorkload_RandomSeed(t *testing.T) {
	cfg := testConfig(16, 0, 0.5)
	rb := newTree(cfg, xlog.NewNopXLogger())
	rep, err := newWorkload(cfg, rb, xlog.NewNopXLogger()).run()
	require.NoError(t, err)
	require.NotZero(t, rep.Seed)
}

func TestReport_Render(t *testing.T) {
	rep := &report{
		Seed:      9,
		Generated: 12345,
		Inserted:  12000,
		Removed:   6000,
		Misses:    1,
		Size:      6000,
		Height:    15,
		Bound:     2 * math.Log2(6001),
		Min:       3,
		Max:       49000,
		Stats:     tree.RBTreeStats{Rotations: 4321},
		Dfs:       []int64{25000, 12000, 5000},
		Bfs:       []int64{25000, 12000, 37000},
	}
	buf := &bytes.Buffer{}
	rep.render(buf)

	out := buf.String()
	require.Contains(t, out, "xtree workload")
	require.Contains(t, out, "12,345")
	require.Contains(t, out, "4,321")
	require.Contains(t, out, "25.10")
	require.Contains(t, out, "3 / 49000")
	require.Contains(t, out, "25,000 12,000 5,000")
	require.Contains(t, out, "25,000 12,000 37,000")
}
