package observability

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOperationsTotal   = "rbset.operations.total"
	metricOperationDuration = "rbset.operation.duration.seconds"
	metricTreeSize          = "rbset.tree.size"
	metricValidationsTotal  = "rbset.validations.total"

	attrOp     = "op"
	attrStatus = "status"

	// Operation names.
	OpInsert = "insert"
	OpRemove = "remove"

	statusOK       = "ok"
	statusNotFound = "not_found"
	statusError    = "error"
)

// durationBucketBoundaries covers 100ns to 1ms; tree operations are
// logarithmic and stay well below a millisecond outside of GC pauses.
var durationBucketBoundaries = []float64{1e-7, 2.5e-7, 5e-7, 1e-6, 2.5e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3}

// TreeMetrics holds the OTel instruments describing tree operations.
type TreeMetrics struct {
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
	treeSize          metric.Int64UpDownCounter
	validationsTotal  metric.Int64Counter
}

// NewTreeMetrics creates the tree instruments from the given meter.
func NewTreeMetrics(mt metric.Meter) (*TreeMetrics, error) {
	opsTotal, err := mt.Int64Counter(metricOperationsTotal,
		metric.WithDescription("Total number of tree operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationsTotal, err)
	}

	opDuration, err := mt.Float64Histogram(metricOperationDuration,
		metric.WithDescription("Tree operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationDuration, err)
	}

	size, err := mt.Int64UpDownCounter(metricTreeSize,
		metric.WithDescription("Number of values stored in the tree"),
		metric.WithUnit("{value}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTreeSize, err)
	}

	validations, err := mt.Int64Counter(metricValidationsTotal,
		metric.WithDescription("Total number of invariant checks"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricValidationsTotal, err)
	}

	return &TreeMetrics{
		operationsTotal:   opsTotal,
		operationDuration: opDuration,
		treeSize:          size,
		validationsTotal:  validations,
	}, nil
}

// RecordInsert records an insertion, which always grows the tree.
func (tm *TreeMetrics) RecordInsert(ctx context.Context, duration time.Duration) {
	tm.record(ctx, OpInsert, statusOK, duration)
	tm.treeSize.Add(ctx, 1)
}

// RecordRemove records a removal attempt.
func (tm *TreeMetrics) RecordRemove(ctx context.Context, found bool, duration time.Duration) {
	status := statusNotFound
	if found {
		status = statusOK

		tm.treeSize.Add(ctx, -1)
	}

	tm.record(ctx, OpRemove, status, duration)
}

// RecordValidation records one invariant check and its outcome.
func (tm *TreeMetrics) RecordValidation(ctx context.Context, err error) {
	status := statusOK
	if err != nil {
		status = statusError
	}

	tm.validationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

func (tm *TreeMetrics) record(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	tm.operationsTotal.Add(ctx, 1, attrs)
	tm.operationDuration.Record(ctx, duration.Seconds(), attrs)
}

// WriteText writes every metric family of the gatherer in the Prometheus
// text exposition format.
func WriteText(gatherer prometheus.Gatherer, out io.Writer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, family := range families {
		_, writeErr := expfmt.MetricFamilyToText(out, family)
		if writeErr != nil {
			return fmt.Errorf("write %s: %w", family.GetName(), writeErr)
		}
	}

	return nil
}
