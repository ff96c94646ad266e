package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// BundleRepository registro de composición de bundles (solo lectura para el ledger).
type BundleRepository interface {
	// ComponentsOf devuelve los componentes ordenados por SKU; vacío si no es bundle.
	ComponentsOf(ctx context.Context, bundleSKU string) ([]entity.BundleComponent, error)
	// ListComposition vista unida con nombres y stock; bundleSKU vacío lista todos.
	ListComposition(ctx context.Context, bundleSKU string) ([]entity.BundleComposition, error)
}
