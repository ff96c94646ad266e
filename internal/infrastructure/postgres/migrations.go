package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// migrateLockKey clave del advisory lock que serializa migraciones concurrentes.
const migrateLockKey = 784211

// schema DDL idempotente. products lo administra el catálogo externo;
// aquí se crea para entornos de desarrollo y pruebas.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		sku          TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		category     TEXT NOT NULL DEFAULT '',
		unit         TEXT NOT NULL DEFAULT '',
		location     TEXT NOT NULL DEFAULT '',
		min_stock    BIGINT NOT NULL DEFAULT 0,
		price        NUMERIC(14,2) NOT NULL DEFAULT 0,
		product_kind TEXT NOT NULL DEFAULT 'ORIGINAL' CHECK (product_kind IN ('ORIGINAL', 'BUNDLE', 'SET')),
		is_active    BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS reason_codes (
		code       TEXT PRIMARY KEY,
		label      TEXT NOT NULL,
		category   TEXT NOT NULL CHECK (category IN ('INBOUND', 'OUTBOUND', 'ADJUST', 'PROCESS')),
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bundle_components (
		bundle_sku     TEXT NOT NULL REFERENCES products(sku),
		component_sku  TEXT NOT NULL REFERENCES products(sku),
		qty_per_bundle BIGINT NOT NULL CHECK (qty_per_bundle > 0),
		PRIMARY KEY (bundle_sku, component_sku),
		CHECK (bundle_sku <> component_sku)
	)`,
	`CREATE TABLE IF NOT EXISTS movements (
		id            UUID PRIMARY KEY,
		movement_type TEXT NOT NULL CHECK (movement_type IN ('INBOUND', 'OUTBOUND', 'ADJUST', 'BUNDLE', 'UNBUNDLE', 'LABEL')),
		channel       TEXT NOT NULL DEFAULT '',
		reason_code   TEXT REFERENCES reason_codes(code),
		memo          TEXT NOT NULL DEFAULT '',
		moved_at      TIMESTAMPTZ NOT NULL,
		created_by    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		reversal_of   UUID UNIQUE REFERENCES movements(id),
		reversed_by   UUID REFERENCES movements(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_moved_at ON movements (moved_at DESC, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS movement_lines (
		id          UUID PRIMARY KEY,
		movement_id UUID NOT NULL REFERENCES movements(id),
		line_no     INT NOT NULL,
		sku         TEXT NOT NULL REFERENCES products(sku),
		qty_change  BIGINT NOT NULL,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (movement_id, line_no)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movement_lines_sku ON movement_lines (sku)`,
	`CREATE TABLE IF NOT EXISTS movement_effects (
		id          UUID PRIMARY KEY,
		movement_id UUID NOT NULL REFERENCES movements(id),
		line_no     INT NOT NULL,
		source_sku  TEXT NOT NULL REFERENCES products(sku),
		target_sku  TEXT NOT NULL REFERENCES products(sku),
		qty_change  BIGINT NOT NULL,
		note        TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (movement_id, line_no)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movement_effects_target ON movement_effects (target_sku)`,
	`CREATE INDEX IF NOT EXISTS idx_movement_effects_source ON movement_effects (source_sku)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		sku        TEXT PRIMARY KEY REFERENCES products(sku),
		qty        BIGINT NOT NULL DEFAULT 0 CHECK (qty >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE OR REPLACE VIEW v_current_inventory AS
		SELECT p.sku, p.name, p.category, p.unit, p.location, p.product_kind,
		       COALESCE(i.qty, 0) AS qty, p.min_stock, p.price, i.updated_at
		FROM products p
		LEFT JOIN inventory i ON i.sku = p.sku
		WHERE p.is_active`,
	`CREATE OR REPLACE VIEW v_bundle_composition AS
		SELECT bc.bundle_sku, COALESCE(b.name, '') AS bundle_name,
		       bc.component_sku, COALESCE(c.name, '') AS component_name,
		       bc.qty_per_bundle, COALESCE(i.qty, 0) AS component_stock
		FROM bundle_components bc
		LEFT JOIN products b ON b.sku = bc.bundle_sku
		LEFT JOIN products c ON c.sku = bc.component_sku
		LEFT JOIN inventory i ON i.sku = bc.component_sku`,
}

// Migrate aplica el esquema y siembra los códigos de motivo por defecto en una sola transacción.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrateLockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	for i, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migración %d: %w", i+1, err)
		}
	}

	batch := &pgx.Batch{}
	for _, rc := range entity.DefaultReasonCodes {
		batch.Queue(`
			INSERT INTO reason_codes (code, label, category, is_active)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO NOTHING`,
			rc.Code, rc.Label, string(rc.Category), rc.IsActive)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("sembrar motivos: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
