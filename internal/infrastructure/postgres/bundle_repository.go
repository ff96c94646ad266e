package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

var _ repository.BundleRepository = (*BundleRepo)(nil)

// BundleRepo registro de composición (bundle_components).
type BundleRepo struct {
	q Querier
}

// NewBundleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBundleRepository(q Querier) *BundleRepo {
	return &BundleRepo{q: q}
}

// ComponentsOf lee la receta con FOR SHARE: dentro de una tx impide que se edite hasta el commit.
func (r *BundleRepo) ComponentsOf(ctx context.Context, bundleSKU string) ([]entity.BundleComponent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT bundle_sku, component_sku, qty_per_bundle
		FROM bundle_components
		WHERE bundle_sku = $1
		ORDER BY component_sku
		FOR SHARE`, bundleSKU)
	if err != nil {
		return nil, mapPgError("components of", err)
	}
	defer rows.Close()
	var out []entity.BundleComponent
	for rows.Next() {
		var c entity.BundleComponent
		if err := rows.Scan(&c.BundleSKU, &c.ComponentSKU, &c.QtyPerBundle); err != nil {
			return nil, fmt.Errorf("scan bundle component: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListComposition lee v_bundle_composition; bundleSKU vacío lista todos.
func (r *BundleRepo) ListComposition(ctx context.Context, bundleSKU string) ([]entity.BundleComposition, error) {
	rows, err := r.q.Query(ctx, `
		SELECT bundle_sku, bundle_name, component_sku, component_name, qty_per_bundle, component_stock
		FROM v_bundle_composition
		WHERE $1 = '' OR bundle_sku = $1
		ORDER BY bundle_sku, component_sku`, bundleSKU)
	if err != nil {
		return nil, fmt.Errorf("list bundle composition: %w", err)
	}
	defer rows.Close()
	out := []entity.BundleComposition{}
	for rows.Next() {
		var c entity.BundleComposition
		if err := rows.Scan(&c.BundleSKU, &c.BundleName, &c.ComponentSKU, &c.ComponentName,
			&c.QtyPerBundle, &c.ComponentStock); err != nil {
			return nil, fmt.Errorf("scan bundle composition: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
