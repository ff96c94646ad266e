package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/entity"
	"github.com/jhoicas/wms-ledger/internal/domain/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/pkg/logger"
)

// SubmitConfig reglas configurables del envío de movimientos.
type SubmitConfig struct {
	// EnforceReasonCategory exige que la categoría del motivo coincida con el tipo de movimiento.
	EnforceReasonCategory bool
}

// SubmitMovementUseCase registra movimientos en el ledger de forma atómica:
// cabecera + líneas + efectos de bundle + proyección de inventario en una sola transacción,
// con bloqueo de las filas de inventario (SELECT FOR UPDATE) antes de verificar suficiencia.
type SubmitMovementUseCase struct {
	txRunner TxRunner
	catalog  repository.CatalogRepository
	reasons  repository.ReasonCodeRepository
	metrics  MetricsRecorder
	log      *logger.Logger
	cfg      SubmitConfig
	now      func() time.Time
}

// NewSubmitMovementUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewSubmitMovementUseCase(
	txRunner TxRunner,
	catalog repository.CatalogRepository,
	reasons repository.ReasonCodeRepository,
	metrics MetricsRecorder,
	log *logger.Logger,
	cfg SubmitConfig,
) *SubmitMovementUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SubmitMovementUseCase{
		txRunner: txRunner,
		catalog:  catalog,
		reasons:  reasons,
		metrics:  metrics,
		log:      log.Named("ledger"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *SubmitMovementUseCase) WithClock(now func() time.Time) *SubmitMovementUseCase {
	uc.now = now
	return uc
}

// LineInputDTO una línea de entrada.
type LineInputDTO struct {
	SKU       string
	QtyChange int64
	Note      string
}

// MovementInputDTO entrada para registrar un movimiento.
// Para BUNDLE/UNBUNDLE se envía una única línea con el SKU del bundle;
// los efectos sobre los componentes los deriva el motor de expansión.
type MovementInputDTO struct {
	MovementType string
	Channel      string
	ReasonCode   string
	Memo         string
	MovedAt      *time.Time
	CreatedBy    string
	Lines        []LineInputDTO
}

// Submit valida la solicitud y aplica el movimiento. Ante cualquier error no se persiste nada.
func (uc *SubmitMovementUseCase) Submit(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	start := uc.now()
	mov, err := uc.submit(ctx, input)
	if err != nil {
		code := domain.Code(err)
		uc.metrics.MovementRejected(input.MovementType, code)
		ev := uc.log.Warn()
		if code == domain.CodeInternal {
			ev = uc.log.Error()
		}
		ev.Err(err).
			Str("type", input.MovementType).
			Str("code", code).
			Int("lines", len(input.Lines)).
			Msg("movimiento rechazado")
		return nil, err
	}
	uc.metrics.MovementApplied(string(mov.MovementType), len(mov.Lines), len(mov.Effects), uc.now().Sub(start))
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("type", string(mov.MovementType)).
		Int("lines", len(mov.Lines)).
		Int("effects", len(mov.Effects)).
		Msg("movimiento aplicado")
	return mov, nil
}

func (uc *SubmitMovementUseCase) submit(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	movType := entity.MovementType(input.MovementType)
	lines := make([]entity.MovementLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		lines = append(lines, entity.MovementLine{SKU: l.SKU, QtyChange: l.QtyChange, Note: l.Note})
	}
	lines = inventory.NormalizeLines(lines)

	// Forma y signo de las líneas (sin I/O)
	if err := inventory.ValidateLines(movType, lines); err != nil {
		return nil, err
	}
	if err := uc.validateReason(ctx, movType, input.ReasonCode); err != nil {
		return nil, err
	}
	if err := uc.validateSKUs(ctx, lines); err != nil {
		return nil, err
	}

	now := uc.now()
	movedAt := now
	if input.MovedAt != nil && !input.MovedAt.IsZero() {
		movedAt = *input.MovedAt
	}
	mov := &entity.Movement{
		MovementType: movType,
		Channel:      input.Channel,
		ReasonCode:   input.ReasonCode,
		Memo:         input.Memo,
		MovedAt:      movedAt,
		CreatedBy:    input.CreatedBy,
		CreatedAt:    now,
		Lines:        lines,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		invRepo repository.InventoryRepository,
		bundleRepo repository.BundleRepository,
	) error {
		if movType.Expands() {
			if err := expandBundle(ctx, bundleRepo, mov); err != nil {
				return err
			}
		}
		return applyMovement(ctx, movRepo, invRepo, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

func (uc *SubmitMovementUseCase) validateReason(ctx context.Context, t entity.MovementType, code string) error {
	if code == "" {
		return nil
	}
	rc, err := uc.reasons.Get(ctx, code)
	if err != nil {
		return fmt.Errorf("consultar motivo: %w", err)
	}
	if rc == nil || !rc.IsActive {
		return fmt.Errorf("%w: %s", domain.ErrUnknownReason, code)
	}
	if uc.cfg.EnforceReasonCategory && rc.Category != entity.CategoryFor(t) {
		return domain.Invalid("el motivo %s (%s) no corresponde a un movimiento %s", code, rc.Category, t)
	}
	return nil
}

func (uc *SubmitMovementUseCase) validateSKUs(ctx context.Context, lines []entity.MovementLine) error {
	seen := make(map[string]bool, len(lines))
	skus := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.SKU] {
			seen[l.SKU] = true
			skus = append(skus, l.SKU)
		}
	}
	found, err := uc.catalog.ResolveSKUs(ctx, skus)
	if err != nil {
		return fmt.Errorf("resolver SKUs: %w", err)
	}
	var missing []string
	for _, sku := range skus {
		if _, ok := found[sku]; !ok {
			missing = append(missing, sku)
		}
	}
	if len(missing) > 0 {
		return &domain.UnknownSKUError{SKUs: missing}
	}
	return nil
}

// expandBundle consulta el registro dentro de la transacción y agrega los efectos al movimiento.
func expandBundle(ctx context.Context, bundleRepo repository.BundleRepository, mov *entity.Movement) error {
	driving := mov.Lines[0]
	comps, err := bundleRepo.ComponentsOf(ctx, driving.SKU)
	if err != nil {
		return fmt.Errorf("consultar composición de %s: %w", driving.SKU, err)
	}
	exp, err := inventory.Expand(mov.MovementType, driving, comps)
	if err != nil {
		return err
	}
	mov.Effects = exp.Effects
	return nil
}

// applyMovement es el único camino que escribe la proyección durante la operación normal:
// bloquea las filas tocadas en orden de SKU, verifica que ninguna quede negativa,
// persiste el movimiento y aplica los deltas. Debe ejecutarse dentro de TxRunner.Run.
func applyMovement(
	ctx context.Context,
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	mov *entity.Movement,
) error {
	deltas, err := inventory.NetDeltas(mov)
	if err != nil {
		return err
	}
	skus := inventory.SortedSKUs(deltas)

	available, err := invRepo.LockForUpdate(ctx, skus)
	if err != nil {
		return err
	}
	if shortfalls := inventory.CheckSufficiency(deltas, available); len(shortfalls) > 0 {
		return domain.NewInsufficientStockError(shortfalls)
	}
	if err := inventory.CheckCapacity(deltas, available); err != nil {
		return err
	}

	if err := movRepo.Create(ctx, mov); err != nil {
		return err
	}
	for _, sku := range skus {
		d := deltas[sku]
		if d == 0 {
			continue
		}
		if _, err := invRepo.ApplyDelta(ctx, sku, d); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				// La fila está bloqueada; llegar aquí significa que el guard del almacén
				// vio un valor distinto al leído.
				return domain.NewInsufficientStockError([]domain.Shortfall{{
					SKU: sku, Required: -d, Available: available[sku], Shortfall: -(available[sku] + d),
				}})
			}
			return err
		}
	}
	return nil
}

// CreateBundle arma qty unidades del bundle con el motivo BUNDLE_CREATE.
func (uc *SubmitMovementUseCase) CreateBundle(ctx context.Context, bundleSKU string, qty int64, memo, actor string) (*entity.Movement, error) {
	if memo == "" {
		memo = fmt.Sprintf("armado de bundle: %s x %d", bundleSKU, qty)
	}
	return uc.Submit(ctx, MovementInputDTO{
		MovementType: string(entity.MovementBundle),
		ReasonCode:   entity.ReasonBundleCreate,
		Memo:         memo,
		CreatedBy:    actor,
		Lines:        []LineInputDTO{{SKU: bundleSKU, QtyChange: qty}},
	})
}

// Unbundle desarma qty unidades del bundle con el motivo BUNDLE_BREAK.
// qty es la cantidad de bundles a desarmar (positiva); la línea se registra en negativo.
func (uc *SubmitMovementUseCase) Unbundle(ctx context.Context, bundleSKU string, qty int64, memo, actor string) (*entity.Movement, error) {
	if memo == "" {
		memo = fmt.Sprintf("desarmado de bundle: %s x %d", bundleSKU, qty)
	}
	return uc.Submit(ctx, MovementInputDTO{
		MovementType: string(entity.MovementUnbundle),
		ReasonCode:   entity.ReasonBundleBreak,
		Memo:         memo,
		CreatedBy:    actor,
		Lines:        []LineInputDTO{{SKU: bundleSKU, QtyChange: -qty}},
	})
}
