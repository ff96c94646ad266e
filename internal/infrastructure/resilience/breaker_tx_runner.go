package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/wms-ledger/internal/application/inventory"
	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
	"github.com/jhoicas/wms-ledger/pkg/logger"
)

// BreakerConfig umbrales del circuit breaker del almacenamiento.
type BreakerConfig struct {
	Name                string
	ConsecutiveFailures uint32        // fallos seguidos para abrir
	OpenTimeout         time.Duration // tiempo abierto antes de pasar a half-open
	HalfOpenRequests    uint32
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.Name == "" {
		c.Name = "store"
	}
	if c.ConsecutiveFailures == 0 {
		c.ConsecutiveFailures = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 30 * time.Second
	}
	if c.HalfOpenRequests == 0 {
		c.HalfOpenRequests = 1
	}
	return c
}

var _ inventory.TxRunner = (*BreakerTxRunner)(nil)

// BreakerTxRunner envuelve un TxRunner: tras N fallos de infraestructura seguidos
// rechaza las transacciones con domain.ErrUnavailable sin tocar la base.
type BreakerTxRunner struct {
	next inventory.TxRunner
	cb   *gobreaker.CircuitBreaker
	log  *logger.Logger
}

// NewBreakerTxRunner construye el wrapper. log puede ser nil.
func NewBreakerTxRunner(next inventory.TxRunner, cfg BreakerConfig, log *logger.Logger) *BreakerTxRunner {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.Nop()
	}
	r := &BreakerTxRunner{next: next, log: log}
	r.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cambio de estado del circuit breaker")
		},
	})
	return r
}

// countsAsSuccess: los rechazos de negocio y las cancelaciones del cliente no
// indican fallo del almacenamiento.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return domain.Code(err) != domain.CodeInternal
}

// Run delega en el runner envuelto salvo con el circuito abierto.
func (r *BreakerTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	invRepo repository.InventoryRepository,
	bundleRepo repository.BundleRepository,
) error) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.next.Run(ctx, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		r.log.Debug().Str("breaker", r.cb.Name()).Msg("transacción rechazada por circuito abierto")
		return fmt.Errorf("%s: %w", r.cb.Name(), domain.ErrUnavailable)
	}
	return err
}

// State estado actual (closed, half-open, open).
func (r *BreakerTxRunner) State() string {
	return r.cb.State().String()
}
