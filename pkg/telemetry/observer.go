// Package telemetry records model activity as Prometheus metrics and
// OpenTelemetry spans.
//
// Metrics collected:
//   - formcore_property_changes_total: completed change pipelines by type and property
//   - formcore_rejected_writes_total: writes dropped on disposed objects
//   - formcore_sequence_changes_total: sequence diffs by type and property
//   - formcore_sequence_items_total: items added and removed by sequence diffs
//   - formcore_expression_runs_total: expression property runs by status
//   - formcore_expression_duration_seconds: expression run duration
//
// Every expression run is also traced as a span named
// "formcore.expression".
//
//	obs := telemetry.New(telemetry.WithRegistry(reg))
//	model.SetObserver(obs)
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/formcore/pkg/model"
)

// Observer implements model.Observer.
type Observer struct {
	propertyChanges    *prometheus.CounterVec
	rejectedWrites     *prometheus.CounterVec
	sequenceChanges    *prometheus.CounterVec
	sequenceItems      *prometheus.CounterVec
	expressionRuns     *prometheus.CounterVec
	expressionDuration *prometheus.HistogramVec

	tracer trace.Tracer
	ctx    context.Context
}

var _ model.Observer = (*Observer)(nil)

// New creates an Observer and registers its metrics.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Observer{
		propertyChanges: counter("property_changes_total",
			"Total number of completed property change pipelines", "type", "property"),
		rejectedWrites: counter("rejected_writes_total",
			"Total number of writes dropped on disposed objects", "type", "property"),
		sequenceChanges: counter("sequence_changes_total",
			"Total number of sequence diffs", "type", "property"),
		sequenceItems: counter("sequence_items_total",
			"Total number of items added or removed by sequence diffs", "type", "property", "op"),
		expressionRuns: counter("expression_runs_total",
			"Total number of expression property runs", "type", "property", "status"),
		expressionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "expression_duration_seconds",
			Help:        "Expression property run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),
		tracer: config.tracer(),
		ctx:    ctx,
	}
}

func (o *Observer) PropertyChanged(typeName, name string) {
	o.propertyChanges.WithLabelValues(typeName, name).Inc()
}

func (o *Observer) WriteRejected(typeName, name string) {
	o.rejectedWrites.WithLabelValues(typeName, name).Inc()
}

func (o *Observer) SequenceChanged(typeName, name string, changes *model.ArrayChanges) {
	o.sequenceChanges.WithLabelValues(typeName, name).Inc()
	if changes == nil {
		return
	}
	o.sequenceItems.WithLabelValues(typeName, name, "added").Add(float64(len(changes.ItemsAdded)))
	o.sequenceItems.WithLabelValues(typeName, name, "removed").Add(float64(len(changes.ItemsRemoved)))
}

// ExpressionRun starts a span for the run; the returned func ends it and
// records the outcome.
func (o *Observer) ExpressionRun(typeName, name, expression string) func(result any, err error) {
	start := time.Now()
	_, span := o.tracer.Start(o.ctx, "formcore.expression",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("formcore.type", typeName),
			attribute.String("formcore.property", name),
			attribute.String("formcore.expression", expression),
		),
	)
	return func(result any, err error) {
		defer span.End()
		o.expressionDuration.WithLabelValues(typeName).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.expressionRuns.WithLabelValues(typeName, name, "error").Inc()
			return
		}
		span.SetAttributes(attribute.String("formcore.result", fmt.Sprint(result)))
		span.SetStatus(codes.Ok, "")
		o.expressionRuns.WithLabelValues(typeName, name, "success").Inc()
	}
}
