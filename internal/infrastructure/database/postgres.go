package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"edunews-backend/internal/config"
)

// PostgresDB wraps the pgx connection pool and its lifecycle.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	Config config.DatabaseConfig
}

func NewPostgresDB(cfg config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{Config: cfg}
}

func (db *PostgresDB) connString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		db.Config.User,
		db.Config.Password,
		db.Config.Host,
		db.Config.Port,
		db.Config.Database,
		db.Config.SSLMode,
	)
}

// Connect builds the pool and verifies it with a ping.
func (db *PostgresDB) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(db.connString())
	if err != nil {
		return fmt.Errorf("parse pool config: %w", err)
	}

	poolCfg.MaxConns = int32(db.Config.MaxConns)
	poolCfg.MinConns = int32(db.Config.MinConns)
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	db.Pool = pool
	log.Info().
		Str("host", db.Config.Host).
		Str("database", db.Config.Database).
		Msg("PostgreSQL connected")
	return nil
}

// HealthCheck pings with a short timeout.
func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.Pool.Ping(ctx)
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
