package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls gorm instrumentation
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound variables in span statements. Development only.
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
	// TracerProvider overrides the global provider, mostly for tests
	TracerProvider trace.TracerProvider
}

// queryStartKey lives on the statement: otelgorm restores the parent context
// in its after hook, so values added to Statement.Context do not survive.
const queryStartKey = "telemetry:query_start"

type dbTracer struct {
	cfg    DBTracingConfig
	logger *zap.Logger
}

// InstrumentDB registers otelgorm on db plus a callback pair that flags
// slow or failed statements on the current span and in the log. The after
// hook runs ahead of otelgorm's so the statement span is still open.
func InstrumentDB(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	t := &dbTracer{cfg: cfg, logger: logger.Named("db")}
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string) error
		after  func(string) error
	}{
		{"create", func(n string) error { return cb.Create().Before("gorm:create").Register(n, t.before) },
			func(n string) error { return cb.Create().After("gorm:create").Before("otel:after:create").Register(n, t.after) }},
		{"query", func(n string) error { return cb.Query().Before("gorm:query").Register(n, t.before) },
			func(n string) error { return cb.Query().After("gorm:query").Before("otel:after:select").Register(n, t.after) }},
		{"update", func(n string) error { return cb.Update().Before("gorm:update").Register(n, t.before) },
			func(n string) error { return cb.Update().After("gorm:update").Before("otel:after:update").Register(n, t.after) }},
		{"delete", func(n string) error { return cb.Delete().Before("gorm:delete").Register(n, t.before) },
			func(n string) error { return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register(n, t.after) }},
		{"row", func(n string) error { return cb.Row().Before("gorm:row").Register(n, t.before) },
			func(n string) error { return cb.Row().After("gorm:row").Before("otel:after:row").Register(n, t.after) }},
		{"raw", func(n string) error { return cb.Raw().Before("gorm:raw").Register(n, t.before) },
			func(n string) error { return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register(n, t.after) }},
	}
	for _, h := range hooks {
		if err := h.before("telemetry:before_" + h.op); err != nil {
			return err
		}
		if err := h.after("telemetry:after_" + h.op); err != nil {
			return err
		}
	}

	logger.Info("database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

func (t *dbTracer) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (t *dbTracer) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	recording := span.IsRecording()
	if recording && db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) && recording {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)
	if elapsed <= t.cfg.SlowQueryThresh {
		return
	}
	if recording {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()))
	}
	t.logger.Warn("slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", t.cfg.SlowQueryThresh),
		zap.Int64("rows", db.Statement.RowsAffected))
}
