// Package workload drives a red-black tree with a random mix of insertions
// and removals, checking its invariants at a fixed operation interval.
package workload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/rbset/pkg/config"
	"github.com/Sumatoshi-tech/rbset/pkg/observability"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree"
	"github.com/Sumatoshi-tech/rbset/pkg/rbtree/rbdebug"
	"github.com/Sumatoshi-tech/rbset/pkg/safeconv"
)

// Span names, also used as phase names in the bench summary.
const (
	SpanRun      = "rbset.workload"
	SpanBatch    = "rbset.workload.batch"
	SpanValidate = "rbset.workload.validate"
)

// defaultBatch is the batch size when periodic validation is disabled.
const defaultBatch = 4096

// ErrInvariant is returned when a periodic check finds a broken tree.
var ErrInvariant = errors.New("workload: invariant violation")

// Options configures a run.
type Options struct {
	// Logger receives phase boundaries. When nil, a discard logger is used.
	Logger *slog.Logger

	// Tracer wraps the run and each batch in spans. When nil, spans are not recorded.
	Tracer trace.Tracer

	// Metrics records every operation. Nil-safe: when nil, nothing is recorded.
	Metrics *observability.TreeMetrics

	Workload config.WorkloadConfig
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer != nil {
		return o.Tracer
	}

	return noop.NewTracerProvider().Tracer("")
}

// Sample is the shape of the tree at one checkpoint.
type Sample struct {
	Operation int `json:"operation"`
	rbdebug.Stats
}

// Result summarizes a run.
type Result struct {
	Samples     []Sample
	Final       rbdebug.Stats
	Elapsed     time.Duration
	Operations  int
	Inserts     int
	Removes     int
	Misses      int
	Validations int
}

// OpsPerSecond returns the throughput of the run.
func (r *Result) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}

	return float64(r.Operations) / r.Elapsed.Seconds()
}

type runner struct {
	opts   Options
	tree   *rbtree.Tree[int64]
	rng    *rand.Rand
	logger *slog.Logger
	result *Result
	keys   uint64
}

// Run executes the configured workload. On timeout or cancellation it returns
// the partial result together with the context error.
func Run(ctx context.Context, opts Options) (*Result, error) {
	keys, keysErr := opts.Workload.Keys()
	if keysErr != nil {
		return nil, fmt.Errorf("workload: %w", keysErr)
	}

	if opts.Workload.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, opts.Workload.Timeout)
		defer cancel()
	}

	seed := safeconv.Int64Bits(opts.Workload.Seed)
	run := &runner{
		opts:   opts,
		tree:   rbtree.New[int64](),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: opts.logger(),
		result: &Result{},
		keys:   keys,
	}

	ctx, span := opts.tracer().Start(ctx, SpanRun,
		trace.WithAttributes(
			attribute.Int("workload.operations", opts.Workload.Operations),
			attribute.Int64("workload.key_space", safeconv.MustUint64ToInt64(keys)),
			attribute.Float64("workload.remove_ratio", opts.Workload.RemoveRatio),
		))
	defer span.End()

	run.logger.InfoContext(ctx, "workload started",
		slog.Int("operations", opts.Workload.Operations),
		slog.Uint64("key_space", keys),
		slog.Int64("seed", opts.Workload.Seed))

	start := time.Now()
	err := run.loop(ctx)
	run.result.Elapsed = time.Since(start)
	run.result.Final = rbdebug.Collect(run.tree)

	span.SetAttributes(
		attribute.Int("workload.inserts", run.result.Inserts),
		attribute.Int("workload.removes", run.result.Removes),
		attribute.Int("workload.final_size", run.result.Final.Size),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		run.logger.ErrorContext(ctx, "workload stopped", slog.Int("operations", run.result.Operations), slog.Any("error", err))

		return run.result, err
	}

	run.logger.InfoContext(ctx, "workload finished",
		slog.Int("size", run.result.Final.Size),
		slog.Int("height", run.result.Final.Height),
		slog.Duration("elapsed", run.result.Elapsed))

	return run.result, nil
}

func (r *runner) loop(ctx context.Context) error {
	total := r.opts.Workload.Operations
	every := r.opts.Workload.ValidateEvery

	batch := every
	if batch == 0 {
		batch = defaultBatch
	}

	for done := 0; done < total; {
		ctxErr := ctx.Err()
		if ctxErr != nil {
			return fmt.Errorf("workload: %w", ctxErr)
		}

		size := min(batch, total-done)
		r.runBatch(ctx, size)
		done += size

		if every > 0 {
			validateErr := r.validate(ctx)
			if validateErr != nil {
				return validateErr
			}
		}
	}

	return nil
}

func (r *runner) runBatch(ctx context.Context, size int) {
	ctx, span := r.opts.tracer().Start(ctx, SpanBatch, trace.WithAttributes(attribute.Int("batch.size", size)))
	defer span.End()

	for range size {
		key := safeconv.MustUint64ToInt64(r.rng.Uint64N(r.keys))

		if r.rng.Float64() < r.opts.Workload.RemoveRatio {
			r.remove(ctx, key)
		} else {
			r.insert(ctx, key)
		}

		r.result.Operations++
	}
}

func (r *runner) insert(ctx context.Context, key int64) {
	start := time.Now()
	r.tree.Insert(key)

	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordInsert(ctx, time.Since(start))
	}

	r.result.Inserts++
}

func (r *runner) remove(ctx context.Context, key int64) {
	start := time.Now()
	_, found := r.tree.Remove(key)

	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordRemove(ctx, found, time.Since(start))
	}

	if found {
		r.result.Removes++
	} else {
		r.result.Misses++
	}
}

func (r *runner) validate(ctx context.Context) error {
	ctx, span := r.opts.tracer().Start(ctx, SpanValidate)
	defer span.End()

	err := r.tree.Validate()
	r.result.Validations++

	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordValidation(ctx, err)
	}

	if err != nil {
		return fmt.Errorf("%w after %d operations: %w", ErrInvariant, r.result.Operations, err)
	}

	stats := rbdebug.Collect(r.tree)
	r.result.Samples = append(r.result.Samples, Sample{Operation: r.result.Operations, Stats: stats})

	r.logger.DebugContext(ctx, "invariants hold",
		slog.Int("operations", r.result.Operations),
		slog.Int("size", stats.Size),
		slog.Int("height", stats.Height))

	return nil
}
