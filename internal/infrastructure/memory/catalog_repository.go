package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// BundleRepository registro de composición en memoria.
// locked indica que el llamador ya tiene el lock del almacén (dentro de TxRunner.Run).
type BundleRepository struct {
	s      *Store
	locked bool
}

var _ repository.BundleRepository = (*BundleRepository)(nil)

// Bundles devuelve el registro de composición.
func (s *Store) Bundles() *BundleRepository {
	return &BundleRepository{s: s}
}

func (r *BundleRepository) read(fn func()) {
	if !r.locked {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}
	fn()
}

// ComponentsOf devuelve los componentes ordenados por SKU; vacío si no es bundle.
func (r *BundleRepository) ComponentsOf(ctx context.Context, bundleSKU string) ([]entity.BundleComponent, error) {
	var out []entity.BundleComponent
	r.read(func() {
		out = append([]entity.BundleComponent(nil), r.s.bundles[bundleSKU]...)
	})
	return out, nil
}

// ListComposition une el registro con nombres de catálogo y stock confirmado de cada componente.
func (r *BundleRepository) ListComposition(ctx context.Context, bundleSKU string) ([]entity.BundleComposition, error) {
	out := []entity.BundleComposition{}
	r.read(func() {
		bundles := make([]string, 0, len(r.s.bundles))
		for sku := range r.s.bundles {
			if bundleSKU == "" || sku == bundleSKU {
				bundles = append(bundles, sku)
			}
		}
		sort.Strings(bundles)
		for _, b := range bundles {
			for _, c := range r.s.bundles[b] {
				out = append(out, entity.BundleComposition{
					BundleSKU:      b,
					BundleName:     r.s.products[b].Name,
					ComponentSKU:   c.ComponentSKU,
					ComponentName:  r.s.products[c.ComponentSKU].Name,
					QtyPerBundle:   c.QtyPerBundle,
					ComponentStock: r.s.qtyLocked(c.ComponentSKU),
				})
			}
		}
	})
	return out, nil
}

// CatalogRepository catálogo de productos en memoria.
type CatalogRepository struct {
	s *Store
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)

// Catalog devuelve el catálogo.
func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{s: s}
}

// ResolveSKUs devuelve los productos activos encontrados.
func (r *CatalogRepository) ResolveSKUs(ctx context.Context, skus []string) (map[string]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]*entity.Product, len(skus))
	for _, sku := range skus {
		if p, ok := r.s.products[sku]; ok && p.IsActive {
			cp := p
			out[sku] = &cp
		}
	}
	return out, nil
}

// ReasonCodeRepository catálogo de motivos en memoria.
type ReasonCodeRepository struct {
	s *Store
}

var _ repository.ReasonCodeRepository = (*ReasonCodeRepository)(nil)

// ReasonCodes devuelve el catálogo de motivos.
func (s *Store) ReasonCodes() *ReasonCodeRepository {
	return &ReasonCodeRepository{s: s}
}

// Get devuelve nil, nil si el código no existe.
func (r *ReasonCodeRepository) Get(ctx context.Context, code string) (*entity.ReasonCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rc, ok := r.s.reasons[code]
	if !ok {
		return nil, nil
	}
	return &rc, nil
}

// List ordena por categoría y código.
func (r *ReasonCodeRepository) List(ctx context.Context, activeOnly bool) ([]entity.ReasonCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.ReasonCode, 0, len(r.s.reasons))
	for _, rc := range r.s.reasons {
		if activeOnly && !rc.IsActive {
			continue
		}
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}
