package card

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerStore protegge uno Store persistente con un circuit breaker.
// Con circuito aperto le chiamate falliscono subito con ErrStoreUnavailable.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker
}

var _ Store = (*BreakerStore)(nil)

// BreakerSettings configura soglie e timeout del breaker.
type BreakerSettings struct {
	// ConsecutiveFailures apre il circuito dopo N errori di fila.
	ConsecutiveFailures uint32
	// OpenTimeout e' l'attesa prima di passare in half-open.
	OpenTimeout time.Duration
}

// NewBreakerStore avvolge inner; gli errori di dominio non contano come fallimenti.
func NewBreakerStore(inner Store, logger *slog.Logger, settings BreakerSettings) *BreakerStore {
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = 5
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "card-store",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isDomainError(err) || isCallerGone(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker cambiato stato", "component", name, "from", from.String(), "to", to.String())
		},
	})

	return &BreakerStore{inner: inner, cb: cb}
}

// State espone lo stato corrente per metriche e readiness.
func (s *BreakerStore) State() gobreaker.State {
	return s.cb.State()
}

func (s *BreakerStore) List(ctx context.Context) ([]Card, error) {
	result, err := s.execute(ctx, func() (any, error) {
		return s.inner.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Card), nil
}

func (s *BreakerStore) Get(ctx context.Context, id string) (Card, error) {
	result, err := s.execute(ctx, func() (any, error) {
		return s.inner.Get(ctx, id)
	})
	if err != nil {
		return Card{}, err
	}
	return result.(Card), nil
}

func (s *BreakerStore) FindByName(ctx context.Context, name string) (Card, error) {
	result, err := s.execute(ctx, func() (any, error) {
		return s.inner.FindByName(ctx, name)
	})
	if err != nil {
		return Card{}, err
	}
	return result.(Card), nil
}

func (s *BreakerStore) Insert(ctx context.Context, card Card) error {
	_, err := s.execute(ctx, func() (any, error) {
		return nil, s.inner.Insert(ctx, card)
	})
	return err
}

func (s *BreakerStore) Delete(ctx context.Context, id string) error {
	_, err := s.execute(ctx, func() (any, error) {
		return nil, s.inner.Delete(ctx, id)
	})
	return err
}

// execute passa dal breaker; se il chiamante ha gia' abbandonato la richiesta
// l'errore non conta come guasto dello store e torna senza traduzione.
func (s *BreakerStore) execute(ctx context.Context, fn func() (any, error)) (any, error) {
	result, err := s.cb.Execute(func() (any, error) {
		result, err := fn()
		if err != nil && ctx.Err() != nil {
			return nil, callerGoneError{err: err}
		}
		return result, err
	})
	var gone callerGoneError
	if errors.As(err, &gone) {
		return nil, gone.err
	}
	if err != nil {
		return nil, translateStoreError(err)
	}
	return result, nil
}

// callerGoneError marca un errore prodotto dopo la cancellazione del context del chiamante.
type callerGoneError struct {
	err error
}

func (e callerGoneError) Error() string { return e.err.Error() }

func (e callerGoneError) Unwrap() error { return e.err }

func isCallerGone(err error) bool {
	var gone callerGoneError
	return errors.As(err, &gone) || errors.Is(err, context.Canceled)
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardExists)
}

// translateStoreError converte breaker aperto ed errori di connessione in ErrStoreUnavailable.
func translateStoreError(err error) error {
	if err == nil || isDomainError(err) || errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
