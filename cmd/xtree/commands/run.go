// Package commands implements CLI command handlers for xtree.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/internal/config"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

const meterName = "xtree/cli"

// flagKeys maps the flags to the config keys they override.
var flagKeys = map[string]string{
	"count":            "tree.count",
	"seed":             "tree.seed",
	"remove-ratio":     "tree.remove_ratio",
	"desc":             "tree.desc",
	"borrow-pred":      "tree.borrow_pred",
	"arena-chunk":      "tree.arena_chunk",
	"log-level":        "log.level",
	"log-encoder":      "log.encoder",
	"metrics":          "metrics.exporter",
	"metrics-interval": "metrics.interval",
	"preview":          "output.preview",
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a randomized workload against the red-black tree",
		Long: `Inserts random values, removes a ratio of them, validates the
red-black rules and prints the tree statistics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "config file path (default .xtree.yaml in CWD or $HOME)")
	flags.Int("count", config.DefaultTreeCount, "random values to insert")
	flags.Uint64("seed", config.DefaultTreeSeed, "random seed, 0 picks one")
	flags.Float64("remove-ratio", config.DefaultTreeRemoveRatio, "ratio of the inserted values to remove")
	flags.Bool("desc", false, "order the tree descending")
	flags.Bool("borrow-pred", false, "borrow the predecessor on two children removal")
	flags.Uint32("arena-chunk", config.DefaultTreeArenaChunk, "arena chunk capacity")
	flags.String("log-level", config.DefaultLogLevel, "log level: DEBUG, INFO, WARN, ERROR")
	flags.String("log-encoder", config.DefaultLogEncoder, "log encoder: json or plain")
	flags.String("metrics", config.DefaultMetricsExporter, "metrics exporter: none, stdout or prometheus")
	flags.Duration("metrics-interval", config.DefaultMetricsInterval, "stdout metrics export interval")
	flags.Int("preview", config.DefaultOutputPreview, "DFS and BFS values to print")

	return cmd
}

// loadConfig binds the flags over the file, env and defaults.
func loadConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	v := config.New()
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return config.Load(v, configPath)
}

type reportOut struct {
	io.Writer
}

func newXLogger(cfg *config.Config) xlog.XLogger {
	return xlog.NewXLogger(
		xlog.WithXLoggerLevel(cfg.LogLevel()),
		xlog.WithXLoggerEncoder(xlog.ParseLogEncoder(cfg.Log.Encoder)),
		// stdout keeps the report only
		xlog.WithXLoggerWriter(xlog.StdErr),
	)
}

func newMeter(lc fx.Lifecycle, cfg *config.Config, logger xlog.XLogger) (metric.Meter, error) {
	kind, err := observability.ParseExporterKind(cfg.Metrics.Exporter)
	if err != nil {
		return nil, err
	}
	shutdown, err := observability.NewMetricsExporter(kind, cfg.Metrics.Interval, nil)
	if err != nil {
		return nil, err
	}
	if kind != observability.ExporterNone {
		if err := observability.InitAppStats("xtree"); err != nil {
			logger.Warn("runtime instrumentation unavailable", zap.Error(err))
		}
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})
	return otel.Meter(meterName), nil
}

func registerWorkload(
	lc fx.Lifecycle,
	cfg *config.Config,
	rb tree.RBTree[int64],
	meter metric.Meter,
	logger xlog.XLogger,
	out *reportOut,
) error {
	reg, err := observability.RegisterTreeStats(meter, "workload", rb.Stats)
	if err != nil {
		return err
	}
	w := newWorkload(cfg, rb, logger)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			rep, err := w.run()
			if err != nil {
				return err
			}
			rep.render(out)
			return nil
		},
		OnStop: func(context.Context) error {
			rb.Release()
			_ = logger.Sync()
			return reg.Unregister()
		},
	})
	return nil
}

func newApp(cfg *config.Config, out io.Writer) *fx.App {
	return fx.New(
		fx.Supply(cfg, &reportOut{Writer: out}),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Provide(
			newXLogger,
			newMeter,
			newTree,
		),
		fx.Invoke(registerWorkload),
	)
}

func runApp(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app := newApp(cfg, out)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	return app.Stop(ctx)
}
