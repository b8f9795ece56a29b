package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xtree/lib/tree"
)

var (
	once sync.Once
)

func scopeName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xtree/app/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

// InitAppStats starts the go runtime instrumentation and the process
// level gauges on the global meter provider, once per process.
func InitAppStats(name string) (err error) {
	once.Do(func() {
		meter := otel.Meter(
			scopeName(name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
		_ = lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"app.core.goroutines",
			metric.WithDescription(`The application goroutines' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.NumGoroutine()))
				return nil
			}),
		))
		_ = lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"app.core.processes",
			metric.WithDescription(`The application processes' info.`),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(runtime.GOMAXPROCS(0)))
				return nil
			}),
		))
		err = otelruntime.Start()
	})
	return err
}

type treeStats struct {
	nodes     metric.Int64ObservableUpDownCounter
	inserts   metric.Int64ObservableCounter
	removes   metric.Int64ObservableCounter
	rotations metric.Int64ObservableCounter
}

// RegisterTreeStats observes the counters returned by stats on every
// collection. The tree name is attached as the "tree" attribute.
// The returned registration stops the observation.
func RegisterTreeStats(meter metric.Meter, name string, stats func() tree.RBTreeStats) (metric.Registration, error) {
	instruments := &treeStats{
		nodes: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
			"xtree.nodes",
			metric.WithDescription("The live nodes of the tree."),
			metric.WithUnit("{node}"),
		)),
		inserts: lo.Must[metric.Int64ObservableCounter](meter.Int64ObservableCounter(
			"xtree.inserts",
			metric.WithDescription("The accepted inserts of the tree."),
			metric.WithUnit("{op}"),
		)),
		removes: lo.Must[metric.Int64ObservableCounter](meter.Int64ObservableCounter(
			"xtree.removes",
			metric.WithDescription("The successful removes of the tree."),
			metric.WithUnit("{op}"),
		)),
		rotations: lo.Must[metric.Int64ObservableCounter](meter.Int64ObservableCounter(
			"xtree.rotations",
			metric.WithDescription("The rotations done by the rebalancing."),
			metric.WithUnit("{op}"),
		)),
	}

	attrs := metric.WithAttributes(attribute.String("tree", name))
	return meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		s := stats()
		ob.ObserveInt64(instruments.nodes, s.Nodes, attrs)
		ob.ObserveInt64(instruments.inserts, s.Inserts, attrs)
		ob.ObserveInt64(instruments.removes, s.Removes, attrs)
		ob.ObserveInt64(instruments.rotations, s.Rotations, attrs)
		return nil
	},
		instruments.nodes,
		instruments.inserts,
		instruments.removes,
		instruments.rotations,
	)
}
