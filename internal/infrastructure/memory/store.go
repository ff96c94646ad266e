// Package memory implementa los puertos del ledger en proceso.
// Se usa en pruebas y con STORE_DRIVER=memory para desarrollo local.
//
// Toda la concurrencia se resuelve con un único sync.RWMutex: una transacción
// toma el lock de escritura completo, así que dos transacciones nunca se
// solapan y el bloqueo por fila de Postgres queda reducido a serialización total.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/wms-ledger/internal/domain/entity"
)

// Store estado confirmado del almacén en memoria.
type Store struct {
	mu sync.RWMutex

	products  map[string]entity.Product
	reasons   map[string]entity.ReasonCode
	bundles   map[string][]entity.BundleComponent
	movements map[string]*entity.Movement
	order     []string // IDs en orden de inserción
	inventory map[string]entity.InventoryRow

	now func() time.Time
}

// New crea un almacén vacío con los motivos por defecto sembrados.
func New() *Store {
	s := &Store{
		products:  make(map[string]entity.Product),
		reasons:   make(map[string]entity.ReasonCode),
		bundles:   make(map[string][]entity.BundleComponent),
		movements: make(map[string]*entity.Movement),
		inventory: make(map[string]entity.InventoryRow),
		now:       time.Now,
	}
	for _, rc := range entity.DefaultReasonCodes {
		s.AddReasonCode(rc)
	}
	return s
}

// WithClock reemplaza el reloj usado en updated_at/created_at (pruebas).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// AddProduct registra o reemplaza un producto del catálogo.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ProductKind == "" {
		p.ProductKind = entity.ProductKindOriginal
	}
	s.products[p.SKU] = p
}

// AddReasonCode registra o reemplaza un código de motivo.
func (s *Store) AddReasonCode(rc entity.ReasonCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = s.now()
	}
	s.reasons[rc.Code] = rc
}

// AddBundleComponent registra una fila del registro de composición (upsert por bundle/componente).
func (s *Store) AddBundleComponent(c entity.BundleComponent) error {
	if c.QtyPerBundle <= 0 {
		return fmt.Errorf("qty_per_bundle debe ser positivo: %d", c.QtyPerBundle)
	}
	if c.BundleSKU == c.ComponentSKU {
		return fmt.Errorf("el bundle %s no puede contenerse a sí mismo", c.BundleSKU)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.bundles[c.BundleSKU]
	for i := range list {
		if list[i].ComponentSKU == c.ComponentSKU {
			list[i].QtyPerBundle = c.QtyPerBundle
			return nil
		}
	}
	list = append(list, c)
	sort.Slice(list, func(i, j int) bool { return list[i].ComponentSKU < list[j].ComponentSKU })
	s.bundles[c.BundleSKU] = list
	return nil
}

// CorruptProjection fija una cantidad sin pasar por el ledger.
// Solo existe para probar la reconciliación.
func (s *Store) CorruptProjection(sku string, qty int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[sku] = entity.InventoryRow{SKU: sku, Qty: qty, UpdatedAt: s.now()}
}

// LoadDemoCatalog siembra un catálogo pequeño para levantar el API sin base de datos.
func (s *Store) LoadDemoCatalog() error {
	for _, p := range []entity.Product{
		{SKU: "CUP-001", Name: "Taza cerámica", Category: "cocina", Unit: "un", MinStock: 20, ProductKind: entity.ProductKindOriginal, IsActive: true},
		{SKU: "LID-001", Name: "Tapa silicona", Category: "cocina", Unit: "un", MinStock: 20, ProductKind: entity.ProductKindOriginal, IsActive: true},
		{SKU: "BOX-001", Name: "Caja regalo", Category: "empaque", Unit: "un", MinStock: 10, ProductKind: entity.ProductKindOriginal, IsActive: true},
		{SKU: "SET-CUP2", Name: "Set 2 tazas con tapa", Category: "sets", Unit: "set", ProductKind: entity.ProductKindBundle, IsActive: true},
	} {
		s.AddProduct(p)
	}
	for _, c := range []entity.BundleComponent{
		{BundleSKU: "SET-CUP2", ComponentSKU: "CUP-001", QtyPerBundle: 2},
		{BundleSKU: "SET-CUP2", ComponentSKU: "LID-001", QtyPerBundle: 2},
		{BundleSKU: "SET-CUP2", ComponentSKU: "BOX-001", QtyPerBundle: 1},
	} {
		if err := s.AddBundleComponent(c); err != nil {
			return err
		}
	}
	return nil
}

// qtyLocked lee la cantidad confirmada. El llamador debe tener el lock.
func (s *Store) qtyLocked(sku string) int64 {
	return s.inventory[sku].Qty
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	c.Lines = append([]entity.MovementLine(nil), m.Lines...)
	c.Effects = append([]entity.MovementEffect(nil), m.Effects...)
	return &c
}
