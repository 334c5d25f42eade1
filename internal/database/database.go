package database

import (
	"context"
	"fmt"
	"time"

	"way2rare/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Service owns the PostgreSQL connection pool. It is constructed once at
// startup and injected into the repositories; closing it tears down every
// pooled connection.
type Service struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New creates the connection pool and verifies the database is reachable.
func New(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Service, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	logger.Info("Database connection pool initialized",
		zap.Int("min_conns", cfg.MinConns),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return &Service{pool: pool, logger: logger}, nil
}

// Pool returns the underlying pgx pool.
func (s *Service) Pool() *pgxpool.Pool {
	return s.pool
}

// Health reports pool statistics and whether the database responds to a ping.
func (s *Service) Health(ctx context.Context) map[string]string {
	stats := s.pool.Stat()
	health := map[string]string{
		"total_conns":    fmt.Sprintf("%d", stats.TotalConns()),
		"idle_conns":     fmt.Sprintf("%d", stats.IdleConns()),
		"acquired_conns": fmt.Sprintf("%d", stats.AcquiredConns()),
	}

	if err := s.pool.Ping(ctx); err != nil {
		health["status"] = "down"
		health["error"] = err.Error()
		return health
	}

	health["status"] = "up"
	return health
}

// Close releases every pooled connection. Called once at process shutdown.
func (s *Service) Close() {
	s.logger.Info("Closing database connection pool")
	s.pool.Close()
}

// InTx runs fn inside a single transaction: commit if fn returns nil, roll
// back and propagate the error unchanged otherwise. The connection backing
// the transaction goes back to the pool on every exit path.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
