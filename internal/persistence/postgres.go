package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/hrms-service/internal/config"
)

// ErrNotConfigured is returned by queries when no DSN was provided.
var ErrNotConfigured = errors.New("postgres not configured")

// DBTX is the query surface repositories depend on.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres wraps a pgx connection pool. The pool may be swapped by CheckAndReconnect,
// so callers go through the DBTX methods rather than holding the pool.
type Postgres struct {
	mu     sync.RWMutex
	pool   *pgxpool.Pool
	cfg    config.PostgresConfig
	logger *zap.Logger
}

// NewPostgres establishes a connection pool when DSN is provided.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	pg := &Postgres{cfg: cfg, logger: logger}
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; skipping database connection")
		return pg, nil
	}

	pool, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pg.pool = pool

	logger.Info("connected to postgres")
	return pg, nil
}

func connect(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Ping verifies connectivity without side effects.
func (p *Postgres) Ping(ctx context.Context) error {
	pool := p.current()
	if pool == nil {
		return ErrNotConfigured
	}
	return pool.Ping(ctx)
}

// CheckAndReconnect pings the pool and, if that fails, replaces it with a fresh one.
func (p *Postgres) CheckAndReconnect(ctx context.Context) error {
	if p.cfg.DSN == "" {
		return ErrNotConfigured
	}
	err := p.Ping(ctx)
	if err == nil {
		return nil
	}
	p.logger.Warn("postgres ping failed; reconnecting", zap.Error(err))

	pool, err := connect(ctx, p.cfg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	old := p.pool
	p.pool = pool
	p.mu.Unlock()

	if old != nil {
		old.Close()
	}
	p.logger.Info("reconnected to postgres")
	return nil
}

// Exec implements DBTX.
func (p *Postgres) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	pool := p.current()
	if pool == nil {
		return pgconn.CommandTag{}, ErrNotConfigured
	}
	return pool.Exec(ctx, sql, args...)
}

// Query implements DBTX.
func (p *Postgres) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool := p.current()
	if pool == nil {
		return nil, ErrNotConfigured
	}
	return pool.Query(ctx, sql, args...)
}

// QueryRow implements DBTX.
func (p *Postgres) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool := p.current()
	if pool == nil {
		return errRow{err: ErrNotConfigured}
	}
	return pool.QueryRow(ctx, sql, args...)
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}

func (p *Postgres) current() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pool
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
