package database

import (
	"context"
	"fmt"
	"time"

	"dscatalog/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

const (
	maxConnIdleTime   = 30 * time.Minute
	healthCheckPeriod = time.Minute
)

// NewPool opens the catalogue connection pool described by cfg.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	return NewPoolFromConnString(ctx, cfg.ConnectionString(), cfg, logger)
}

// NewPoolFromConnString opens a pool on connString with the limits from cfg
// and pings it before returning.
func NewPoolFromConnString(ctx context.Context, connString string, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	logger = logger.With().Str("component", "database").Logger()

	poolConfig, err := newPoolConfig(connString, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Uint16("port", poolConfig.ConnConfig.Port).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Int32("min_conns", poolConfig.MinConns).
		Bool("query_log", poolConfig.ConnConfig.Tracer != nil).
		Msg("opening catalogue database pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("catalogue database ready")
	return pool, nil
}

// newPoolConfig parses connString and applies the pool limits. SQL statements
// are traced through logger when debug logging is on.
func newPoolConfig(connString string, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	if zerolog.GlobalLevel() <= zerolog.DebugLevel && logger.GetLevel() <= zerolog.DebugLevel {
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(logger),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	return poolConfig, nil
}

// queryLogger forwards pgx trace events to zerolog.
func queryLogger(logger zerolog.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var event *zerolog.Event
		switch level {
		case tracelog.LogLevelError:
			event = logger.Error()
		case tracelog.LogLevelWarn:
			event = logger.Warn()
		case tracelog.LogLevelInfo:
			event = logger.Info()
		default:
			event = logger.Debug()
		}
		event.Fields(data).Msg(msg)
	})
}
