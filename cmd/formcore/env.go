package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vango-dev/formcore/internal/config"
	"github.com/vango-dev/formcore/pkg/expression"
	"github.com/vango-dev/formcore/pkg/itemvalue"
	"github.com/vango-dev/formcore/pkg/locstr"
	"github.com/vango-dev/formcore/pkg/model"
	"github.com/vango-dev/formcore/pkg/schema"
	"github.com/vango-dev/formcore/pkg/telemetry"
)

type rootOptions struct {
	configPath string
	logLevel   string
	metrics    bool
}

// env is the process-wide setup shared by the commands: configuration,
// logging, the class registry and the model hooks.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *schema.Registry

	metrics        *prometheus.Registry
	printMetrics   bool
	tracerProvider *sdktrace.TracerProvider
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	root, err := config.FindProjectRoot(".")
	if err != nil {
		return config.New(), nil
	}
	return config.Load(root)
}

func newEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	model.SetLogger(logger)
	model.ApplySettings(cfg.ModelSettings())

	r := schema.NewRegistry()
	schema.DeclareFormClasses(r)
	itemvalue.Register(r)
	locstr.Register()
	expression.Register()
	model.SetMetadataProvider(r)

	e := &env{
		cfg:          cfg,
		logger:       logger.With("component", "cli"),
		registry:     r,
		printMetrics: opts.metrics,
	}

	if cfg.Metrics.Enabled || opts.metrics || cfg.Tracing.Enabled {
		e.metrics = prometheus.NewRegistry()
		telemetryOpts := []telemetry.Option{
			telemetry.WithNamespace(cfg.Metrics.Namespace),
			telemetry.WithRegistry(e.metrics),
		}
		if cfg.Tracing.Enabled {
			e.tracerProvider = sdktrace.NewTracerProvider(
				sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger.With("component", "trace")}),
			)
			telemetryOpts = append(telemetryOpts,
				telemetry.WithTracerProvider(e.tracerProvider),
				telemetry.WithTracerName(cfg.Tracing.TracerName),
				telemetry.WithContext(cmd.Context()),
			)
		}
		model.SetObserver(telemetry.New(telemetryOpts...))
	}
	return e, nil
}

// close prints the collected metrics when requested and flushes traces.
func (e *env) close(cmd *cobra.Command) error {
	model.SetObserver(nil)
	if e.tracerProvider != nil {
		if err := e.tracerProvider.Shutdown(context.Background()); err != nil {
			e.logger.Warn("tracer shutdown failed", "error", err)
		}
	}
	if e.metrics == nil || !(e.printMetrics || e.cfg.Metrics.Enabled) {
		return nil
	}
	families, err := e.metrics.Gather()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}

// logSpanProcessor logs every ended span at debug level.
type logSpanProcessor struct {
	logger *slog.Logger
}

func (p *logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	attrs := []any{
		"span", s.Name(),
		"duration", s.EndTime().Sub(s.StartTime()),
		"status", s.Status().Code.String(),
	}
	for _, kv := range s.Attributes() {
		attrs = append(attrs, string(kv.Key), kv.Value.Emit())
	}
	p.logger.Debug("span ended", attrs...)
}

func (p *logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p *logSpanProcessor) ForceFlush(context.Context) error { return nil }

// withEnv wraps a command body with env setup and teardown.
func withEnv(opts *rootOptions, run func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, opts)
		if err != nil {
			return err
		}
		runErr := run(cmd, e, args)
		if err := e.close(cmd); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	}
}
