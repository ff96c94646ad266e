package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ledger/internal/domain"
	"github.com/jhoicas/wms-ledger/internal/domain/repository"
)

type fakeRunner struct {
	err   error
	calls int
}

func (f *fakeRunner) Run(_ context.Context, _ func(
	repository.MovementRepository, repository.InventoryRepository, repository.BundleRepository,
) error) error {
	f.calls++
	return f.err
}

func noop(repository.MovementRepository, repository.InventoryRepository, repository.BundleRepository) error {
	return nil
}

func TestBreakerTxRunner_AbreTrasFallosDeInfraestructura(t *testing.T) {
	next := &fakeRunner{err: errors.New("dial tcp: connection refused")}
	r := NewBreakerTxRunner(next, BreakerConfig{ConsecutiveFailures: 3, OpenTimeout: time.Hour}, nil)

	for i := 0; i < 3; i++ {
		err := r.Run(context.Background(), noop)
		require.Error(t, err)
		assert.Equal(t, domain.CodeInternal, domain.Code(err))
	}
	assert.Equal(t, "open", r.State())

	err := r.Run(context.Background(), noop)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, domain.CodeUnavailable, domain.Code(err))
	assert.Equal(t, 3, next.calls)
}

func TestBreakerTxRunner_ErroresDeNegocioNoAbren(t *testing.T) {
	next := &fakeRunner{}
	r := NewBreakerTxRunner(next, BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Hour}, nil)

	for _, err := range []error{
		domain.ErrInsufficientStock,
		fmt.Errorf("apply: %w", domain.ErrConcurrentConflict),
		domain.ErrNotFound,
		context.Canceled,
		domain.ErrValidation,
	} {
		next.err = err
		assert.ErrorIs(t, r.Run(context.Background(), noop), err)
	}
	assert.Equal(t, "closed", r.State())
	assert.Equal(t, 5, next.calls)
}

func TestBreakerTxRunner_HalfOpenCierraConExito(t *testing.T) {
	next := &fakeRunner{err: errors.New("timeout")}
	r := NewBreakerTxRunner(next, BreakerConfig{ConsecutiveFailures: 1, OpenTimeout: 10 * time.Millisecond}, nil)

	require.Error(t, r.Run(context.Background(), noop))
	assert.Equal(t, "open", r.State())

	time.Sleep(20 * time.Millisecond)
	next.err = nil
	require.NoError(t, r.Run(context.Background(), noop))
	assert.Equal(t, "closed", r.State())
}
