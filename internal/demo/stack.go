// Package demo wires the timelane packages into the demo application: sinks, collectors and record
// readers built from config, the demo workload and the HTTP routes.
package demo

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for sql and sqlx
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/AntonStoeckl/timelane-go/internal/config"
	"github.com/AntonStoeckl/timelane-go/timelane"
	"github.com/AntonStoeckl/timelane-go/timelane/buffered"
	"github.com/AntonStoeckl/timelane-go/timelane/oteladapters"
	"github.com/AntonStoeckl/timelane-go/timelane/postgressink"
	"github.com/AntonStoeckl/timelane-go/timelane/promadapters"
	"github.com/AntonStoeckl/timelane-go/timelane/redissink"
)

var (
	ErrOpeningPostgresFailed = errors.New("opening postgres connection failed")
	ErrSinkNotConfigured     = errors.New("record store not configured")
)

const (
	logMsgStackReady  = "timelane stack ready"
	logMsgCloseFailed = "closing timelane stack component failed"

	logAttrRunID    = "run_id"
	logAttrSinks    = "sinks"
	logAttrMetrics  = "metrics"
	logAttrTracing  = "tracing"
	logAttrError    = "error"
	logAttrFrom     = "from"
	logAttrSubmits  = "submitted"
	logAttrWritten  = "written"
	logAttrDropped  = "dropped"
	logAttrFailures = "failed_batches"

	logMsgBufferStats = "buffered sink stats"

	// StoreRedis and StorePostgres name the record stores Read accepts.
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Stack is everything a demo command needs: the sink lanes report to and the stores to read back from.
type Stack struct {
	RunID    uuid.UUID
	Sink     timelane.Sink
	Registry *prometheus.Registry

	Metrics          timelane.MetricsCollector
	Tracing          timelane.TracingCollector
	ContextualLogger timelane.ContextualLogger
	Telemetry        *Telemetry

	Redis    *redissink.Sink
	Recorder *postgressink.Recorder

	logger  *slog.Logger
	buffers map[string]*buffered.Sink
	closers []func(ctx context.Context) error
}

// Build creates the stack for cfg. Records of enabled stores go through a buffered sink each,
// stdout records are written to out.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, out io.Writer) (*Stack, error) {
	s := &Stack{
		RunID:            uuid.New(),
		Registry:         prometheus.NewRegistry(),
		ContextualLogger: oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler()),
		logger:           logger,
		buffers:          make(map[string]*buffered.Sink),
	}

	s.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	telemetry, err := NewTelemetry(ctx, cfg.Tracing, logger)
	if err != nil {
		return nil, err
	}
	s.Telemetry = telemetry
	s.closers = append(s.closers, telemetry.Shutdown)

	switch cfg.Metrics.Backend {
	case config.MetricsPrometheus:
		s.Metrics = promadapters.NewMetricsCollector(s.Registry,
			promadapters.WithNamespace(cfg.Metrics.Namespace),
			promadapters.WithLogger(logger),
		)
	case config.MetricsOTel:
		s.Metrics = oteladapters.NewMetricsCollector(telemetry.MeterProvider.Meter(instrumentationName))
	}

	if cfg.Tracing.Enabled {
		s.Tracing = oteladapters.NewTracingCollector(telemetry.TracerProvider.Tracer(instrumentationName))
	} else {
		s.Tracing = oteladapters.NewTracingCollector(noop.NewTracerProvider().Tracer(instrumentationName))
	}

	sinks := make([]timelane.Sink, 0, 5)
	names := make([]string, 0, 5)

	if cfg.Stdout {
		sinks = append(sinks, timelane.WriterSink(out))
		names = append(names, "stdout")
	}

	if s.Metrics != nil {
		sinks = append(sinks, timelane.MetricsSink(ctx, s.Metrics))
		names = append(names, "metrics")
	}

	if cfg.Tracing.Enabled {
		sinks = append(sinks, timelane.TracingSink(ctx, s.Tracing))
		names = append(names, "tracing")
	}

	if cfg.Redis.Enabled {
		sink, redisErr := s.openRedis(cfg)
		if redisErr != nil {
			return nil, errors.Join(redisErr, s.Close(ctx))
		}
		sinks = append(sinks, sink)
		names = append(names, StoreRedis)
	}

	if cfg.Postgres.Enabled {
		sink, postgresErr := s.openPostgres(ctx, cfg)
		if postgresErr != nil {
			return nil, errors.Join(postgresErr, s.Close(ctx))
		}
		sinks = append(sinks, sink)
		names = append(names, StorePostgres)
	}

	s.Sink = timelane.Tee(sinks...)

	logger.Info(logMsgStackReady,
		logAttrRunID, s.RunID.String(),
		logAttrSinks, names,
		logAttrMetrics, cfg.Metrics.Backend,
		logAttrTracing, cfg.Tracing.Enabled,
	)

	return s, nil
}

func (s *Stack) openRedis(cfg config.Config) (timelane.Sink, error) {
	rs, err := redissink.NewFromAddress(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redissink.WithStreamKey(cfg.Redis.StreamKey),
		redissink.WithMaxLen(cfg.Redis.MaxLen),
		redissink.WithRunID(s.RunID),
		redissink.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}

	s.Redis = rs
	s.closers = append(s.closers, func(context.Context) error { return rs.Close() })

	return s.buffer(StoreRedis, rs, cfg.Buffer)
}

func (s *Stack) openPostgres(ctx context.Context, cfg config.Config) (timelane.Sink, error) {
	options := []postgressink.Option{
		postgressink.WithTableName(cfg.Postgres.Table),
		postgressink.WithRunID(s.RunID),
		postgressink.WithLogger(s.logger),
		postgressink.WithContextualLogger(s.ContextualLogger),
		postgressink.WithTracing(s.Tracing),
	}

	if s.Metrics != nil {
		options = append(options, postgressink.WithMetrics(s.Metrics))
	}

	recorder, closeDB, err := openRecorder(ctx, cfg.Postgres, options)
	if closeDB != nil {
		s.closers = append(s.closers, closeDB)
	}
	if err != nil {
		return nil, err
	}

	if err = recorder.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	s.Recorder = &recorder

	return s.buffer(StorePostgres, recorder, cfg.Buffer)
}

func openRecorder(ctx context.Context, cfg config.PostgresConfig, options []postgressink.Option) (postgressink.Recorder, func(context.Context) error, error) {
	switch cfg.Driver {
	case config.DriverSQL:
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return postgressink.Recorder{}, nil, errors.Join(ErrOpeningPostgresFailed, err)
		}
		closeDB := func(context.Context) error { return db.Close() }

		if err = db.PingContext(ctx); err != nil {
			return postgressink.Recorder{}, nil, errors.Join(ErrOpeningPostgresFailed, err, db.Close())
		}

		recorder, err := postgressink.NewRecorderFromSQLDB(db, options...)

		return recorder, closeDB, err

	case config.DriverSQLX:
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN)
		if err != nil {
			return postgressink.Recorder{}, nil, errors.Join(ErrOpeningPostgresFailed, err)
		}

		recorder, err := postgressink.NewRecorderFromSQLX(db, options...)

		return recorder, func(context.Context) error { return db.Close() }, err

	default:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return postgressink.Recorder{}, nil, errors.Join(ErrOpeningPostgresFailed, err)
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			return postgressink.Recorder{}, nil, errors.Join(ErrOpeningPostgresFailed, err)
		}

		recorder, err := postgressink.NewRecorderFromPGXPool(pool, options...)

		return recorder, func(context.Context) error { pool.Close(); return nil }, err
	}
}

func (s *Stack) buffer(name string, writer buffered.Writer, cfg config.BufferConfig) (timelane.Sink, error) {
	options := []buffered.Option{
		buffered.WithQueueSize(cfg.QueueSize),
		buffered.WithBatchSize(cfg.BatchSize),
		buffered.WithFlushInterval(cfg.FlushInterval),
		buffered.WithLogger(s.logger),
	}

	if s.Metrics != nil {
		options = append(options, buffered.WithMetrics(s.Metrics))
	}

	sink, err := buffered.New(writer, options...)
	if err != nil {
		return nil, err
	}

	s.buffers[name] = sink
	s.closers = append(s.closers, func(ctx context.Context) error {
		closeErr := sink.Close(ctx)
		stats := sink.Stats()
		s.logger.Info(logMsgBufferStats,
			logAttrFrom, name,
			logAttrSubmits, stats.Submitted,
			logAttrWritten, stats.Written,
			logAttrDropped, stats.Dropped,
			logAttrFailures, stats.FailedBatches,
		)

		return closeErr
	})

	return sink.Sink(), nil
}

// BufferStats returns the counters of every buffered sink by store name.
func (s *Stack) BufferStats() map[string]buffered.Stats {
	stats := make(map[string]buffered.Stats, len(s.buffers))
	for name, sink := range s.buffers {
		stats[name] = sink.Stats()
	}

	return stats
}

// Close drains the buffered sinks and closes every connection, newest first.
func (s *Stack) Close(ctx context.Context) error {
	var errs []error

	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			s.logger.Error(logMsgCloseFailed, logAttrError, err.Error())
			errs = append(errs, err)
		}
	}

	s.closers = nil

	return errors.Join(errs...)
}
