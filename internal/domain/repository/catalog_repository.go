package repository

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// CatalogRepository referencia externa de productos. Solo validación y joins de presentación.
type CatalogRepository interface {
	// ResolveSKUs devuelve los productos encontrados; los ausentes no aparecen en el mapa.
	ResolveSKUs(ctx context.Context, skus []string) (map[string]*entity.Product, error)
}
