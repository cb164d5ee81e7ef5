package db

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/creators-of-happiness/selfhost-backend/internal/config"
)

const (
	connectTimeout = 5 * time.Second
	// Acquisition deadline for probes, fixed regardless of configuration.
	acquireTimeout = 30 * time.Second
)

// ErrClosed is returned by Probe after Close has been called.
var ErrClosed = errors.New("db: pool is closed")

// Pool wraps a pgx connection pool behind the small surface the HTTP layer
// needs: a liveness probe, a stats snapshot, and an idempotent close.
// It is safe for concurrent use; pgxpool owns all internal synchronization.
type Pool struct {
	pool   *pgxpool.Pool
	log    *zap.Logger
	closed atomic.Bool
}

// Stats is a point-in-time snapshot of pool counters. It is not live-updating
// and carries no consistency guarantee against concurrent acquisitions.
type Stats struct {
	Size   int32
	Idle   int32
	Closed bool
}

// New builds a bounded connection pool from cfg and verifies connectivity with
// an initial ping. A failed connection is fatal to the caller; there is no
// retry here.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		if isAuthError(err) {
			return nil, fmt.Errorf("connect: authentication failed: %w", err)
		}
		return nil, fmt.Errorf("connect: %w", err)
	}

	log.Info("database pool created",
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Duration("max_lifetime", cfg.MaxConnLifetime),
		zap.Duration("idle_timeout", cfg.MaxConnIdleTime),
	)
	return &Pool{pool: pool, log: log}, nil
}

// poolConfig maps Settings onto pgxpool knobs. Connection recycling (lifetime
// and idle expiry) is enforced by pgxpool itself, not reimplemented here.
func poolConfig(cfg config.Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MinConns = 0
	pc.MaxConns = cfg.MaxConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	return pc, nil
}

// Probe acquires a connection and runs a trivial round-trip query. Any
// failure (acquire timeout, reset, server error) is surfaced to the caller,
// never retried. After Close it deterministically returns ErrClosed.
func (p *Pool) Probe(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		if p.closed.Load() {
			return ErrClosed
		}
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var one int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("probe query: %w", err)
	}
	return nil
}

// Stats returns a best-effort snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	s := p.pool.Stat()
	return Stats{
		Size:   s.TotalConns(),
		Idle:   s.IdleConns(),
		Closed: p.closed.Load(),
	}
}

// Close drains and closes all connections. Idempotent; once closed the pool
// never reopens.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.pool.Close()
	p.log.Info("database pool closed")
}

// isAuthError reports whether err is a Postgres authentication failure, so
// startup logs can distinguish bad credentials from an unreachable host.
func isAuthError(err error) bool {
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		switch pg.Code {
		case "28000", // invalid_authorization_specification
			"28P01": // invalid_password
			return true
		}
	}
	return false
}
