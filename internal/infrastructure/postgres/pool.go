package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wms-ledger/pkg/config"
)

// Valores por defecto del pool cuando la configuración los deja en cero.
const (
	defaultMaxConns    = 25
	defaultMinConns    = 2
	defaultLockTimeout = 5 * time.Second
	applicationName    = "wms-ledger"
)

// NewPool crea el pool, registra el codec de decimal y verifica la conexión con un ping.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// PoolConfig traduce DBConfig a la configuración de pgxpool sin conectar.
//
// lock_timeout acota la espera de SELECT ... FOR UPDATE; al vencer Postgres
// devuelve 55P03, que el TxRunner entrega como CONCURRENT_CONFLICT.
func PoolConfig(cfg config.DBConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MinConns = defaultMinConns
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if poolConfig.MinConns > poolConfig.MaxConns {
		poolConfig.MinConns = poolConfig.MaxConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	lockTimeout := defaultLockTimeout
	if cfg.LockTimeoutMs > 0 {
		lockTimeout = time.Duration(cfg.LockTimeoutMs) * time.Millisecond
	}
	params := poolConfig.ConnConfig.RuntimeParams
	params["lock_timeout"] = strconv.FormatInt(lockTimeout.Milliseconds(), 10)
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = applicationName
	}

	// NUMERIC -> shopspring/decimal en todas las conexiones del pool.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}
