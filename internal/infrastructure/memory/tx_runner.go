package memory

import (
	"context"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

// txState cambios pendientes de una transacción. Se descartan si fn falla.
type txState struct {
	inv      map[string]int64
	created  []*entity.Movement
	reversed map[string]string
}

// TxRunner ejecuta fn con el lock de escritura tomado y confirma solo si fn termina sin error.
type TxRunner struct {
	s *Store
}

// Verificación en tiempo de compilación.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner devuelve el ejecutor de transacciones del almacén.
func (s *Store) TxRunner() *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn de forma atómica. Si ctx se cancela antes de confirmar, no se aplica nada.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	bundleRepo repository.BundleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{inv: make(map[string]int64), reversed: make(map[string]string)}
	if err := fn(
		&MovementRepository{s: s, tx: tx},
		&InventoryRepository{s: s, tx: tx},
		&BundleRepository{s: s, locked: true},
	); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := s.now()
	for sku, qty := range tx.inv {
		s.inventory[sku] = entity.InventoryRow{SKU: sku, Qty: qty, UpdatedAt: now}
	}
	for _, m := range tx.created {
		s.movements[m.ID] = m
		s.order = append(s.order, m.ID)
	}
	for id, by := range tx.reversed {
		if m, ok := s.movements[id]; ok {
			m.ReversedBy = by
		}
	}
	return nil
}
