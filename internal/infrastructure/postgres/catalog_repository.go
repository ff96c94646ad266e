package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de la tabla products (propiedad del catálogo externo).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// ResolveSKUs devuelve los productos activos cuyo SKU está en skus.
func (r *CatalogRepo) ResolveSKUs(ctx context.Context, skus []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(skus))
	if len(skus) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT sku, name, category, unit, location, min_stock, price, product_kind, is_active
		FROM products
		WHERE sku = ANY($1) AND is_active`, skus)
	if err != nil {
		return nil, fmt.Errorf("resolve skus: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.SKU, &p.Name, &p.Category, &p.Unit, &p.Location,
			&p.MinStock, &p.Price, &p.ProductKind, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.SKU] = &p
	}
	return out, rows.Err()
}

var _ repository.ReasonCodeRepository = (*ReasonCodeRepo)(nil)

// ReasonCodeRepo catálogo de motivos.
type ReasonCodeRepo struct {
	q Querier
}

// NewReasonCodeRepository construye el adaptador.
func NewReasonCodeRepository(q Querier) *ReasonCodeRepo {
	return &ReasonCodeRepo{q: q}
}

// Get devuelve nil, nil si el código no existe.
func (r *ReasonCodeRepo) Get(ctx context.Context, code string) (*entity.ReasonCode, error) {
	var rc entity.ReasonCode
	var category string
	err := r.q.QueryRow(ctx, `
		SELECT code, label, category, is_active, created_at
		FROM reason_codes WHERE code = $1`, code).
		Scan(&rc.Code, &rc.Label, &category, &rc.IsActive, &rc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reason code: %w", err)
	}
	rc.Category = entity.ReasonCategory(category)
	return &rc, nil
}

// List ordena por categoría y código.
func (r *ReasonCodeRepo) List(ctx context.Context, activeOnly bool) ([]entity.ReasonCode, error) {
	rows, err := r.q.Query(ctx, `
		SELECT code, label, category, is_active, created_at
		FROM reason_codes
		WHERE NOT $1 OR is_active
		ORDER BY category, code`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list reason codes: %w", err)
	}
	defer rows.Close()
	out := []entity.ReasonCode{}
	for rows.Next() {
		var rc entity.ReasonCode
		var category string
		if err := rows.Scan(&rc.Code, &rc.Label, &category, &rc.IsActive, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reason code: %w", err)
		}
		rc.Category = entity.ReasonCategory(category)
		out = append(out, rc)
	}
	return out, rows.Err()
}
