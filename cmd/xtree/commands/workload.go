package commands

import (
	"errors"
	"fmt"
	"io"
	"math"
	randv2 "math/rand/v2"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/internal/config"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
)

// absentProbe is never generated, the workload values are not negative.
const absentProbe = int64(-1)

var ErrAbsentProbeRemoved = errors.New("absent value removed from the tree")

type report struct {
	Seed       uint64
	Generated  int
	Inserted   int
	Duplicates int
	Removed    int
	Misses     int
	Size       int64
	Height     int
	Bound      float64
	Min, Max   int64
	Stats      tree.RBTreeStats
	Elapsed    time.Duration
	Dfs, Bfs   []int64
}

type workload struct {
	cfg    config.TreeConfig
	output config.OutputConfig
	rb     tree.RBTree[int64]
	logger xlog.XLogger
}

func newTree(cfg *config.Config, logger xlog.XLogger) tree.RBTree[int64] {
	opts := []tree.RBTreeOpt[int64]{
		tree.WithRBTreeLogger[int64](logger),
		tree.WithRBTreeArenaChunk[int64](cfg.Tree.ArenaChunk),
	}
	if cfg.Tree.Desc {
		opts = append(opts, tree.WithRBTreeDesc[int64]())
	}
	if cfg.Tree.BorrowPred {
		opts = append(opts, tree.WithRBTreeRemoveBorrowPred[int64]())
	}
	return tree.NewRBTree[int64](opts...)
}

func newWorkload(cfg *config.Config, rb tree.RBTree[int64], logger xlog.XLogger) *workload {
	return &workload{
		cfg:    cfg.Tree,
		output: cfg.Output,
		rb:     rb,
		logger: logger.Named("workload"),
	}
}

// run inserts cfg.Count random values, removes the configured ratio of
// the accepted ones in random order and probes one absent value.
func (w *workload) run() (*report, error) {
	rep := &report{Seed: w.cfg.Seed}
	if rep.Seed == 0 {
		rep.Seed = randv2.Uint64()
	}
	rng := randv2.New(randv2.NewPCG(rep.Seed, rep.Seed>>1|1))
	w.logger.Info("workload started",
		zap.Int("count", w.cfg.Count),
		zap.Uint64("seed", rep.Seed),
		zap.Float64("removeRatio", w.cfg.RemoveRatio),
	)

	start := time.Now()
	upper := int64(w.cfg.Count)*4 + 1
	accepted := make([]int64, 0, w.cfg.Count)
	for i := 0; i < w.cfg.Count; i++ {
		val := rng.Int64N(upper)
		if !w.rb.Insert(val) {
			rep.Duplicates++
			continue
		}
		accepted = append(accepted, val)
	}
	rep.Generated = w.cfg.Count
	rep.Inserted = len(accepted)

	rng.Shuffle(len(accepted), func(i, j int) {
		accepted[i], accepted[j] = accepted[j], accepted[i]
	})
	for _, val := range accepted[:int(float64(len(accepted))*w.cfg.RemoveRatio)] {
		if err := w.rb.Remove(val); err != nil {
			w.logger.ErrorStack(err, "remove accepted value", zap.Int64("val", val))
			return nil, err
		}
		rep.Removed++
	}

	switch err := w.rb.Remove(absentProbe); {
	case errors.Is(err, tree.ErrNodeNotFound):
		rep.Misses++
	case err == nil:
		return nil, ErrAbsentProbeRemoved
	default:
		return nil, err
	}
	rep.Elapsed = time.Since(start)

	if err := w.rb.Validate(); err != nil {
		w.logger.Error(err, "tree validation failed")
		return nil, err
	}

	rep.Size = w.rb.Len()
	rep.Height = w.rb.Height()
	rep.Bound = 2 * math.Log2(float64(rep.Size+1))
	rep.Stats = w.rb.Stats()
	rep.Min, _ = w.rb.Min()
	rep.Max, _ = w.rb.Max()
	rep.Dfs = take(w.rb.DfsIter(), w.output.Preview)
	rep.Bfs = take(w.rb.BfsIter(), w.output.Preview)

	w.logger.Info("workload finished",
		zap.Int64("size", rep.Size),
		zap.Int("height", rep.Height),
		zap.Duration("elapsed", rep.Elapsed),
	)
	return rep, nil
}

func take[T any](it tree.Iterator[T], n int) []T {
	res := make([]T, 0, n)
	for len(res) < n && it.HasNext() {
		val, ok := it.Next()
		if !ok {
			break
		}
		res = append(res, val)
	}
	return res
}

func (rep *report) render(w io.Writer) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("xtree workload")
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"seed", rep.Seed},
		{"generated", humanize.Comma(int64(rep.Generated))},
		{"inserted", humanize.Comma(int64(rep.Inserted))},
		{"duplicates", humanize.Comma(int64(rep.Duplicates))},
		{"removed", humanize.Comma(int64(rep.Removed))},
		{"absent misses", humanize.Comma(int64(rep.Misses))},
		{"size", humanize.Comma(rep.Size)},
		{"height", rep.Height},
		{"height bound", fmt.Sprintf("%.2f", rep.Bound)},
		{"rotations", humanize.Comma(rep.Stats.Rotations)},
	})
	if rep.Size > 0 {
		tbl.AppendRow(table.Row{"min / max", fmt.Sprintf("%d / %d", rep.Min, rep.Max)})
	}
	if len(rep.Dfs) > 0 {
		tbl.AppendSeparator()
		tbl.AppendRow(table.Row{"dfs", joinValues(rep.Dfs)})
		tbl.AppendRow(table.Row{"bfs", joinValues(rep.Bfs)})
	}
	tbl.AppendFooter(table.Row{"elapsed", rep.Elapsed.String()})
	tbl.Render()
}

func joinValues(values []int64) string {
	builder := &strings.Builder{}
	for i, val := range values {
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(humanize.Comma(val))
	}
	return builder.String()
}
