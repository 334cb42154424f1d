package card

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

// failingStore fallisce sempre con l'errore configurato.
type failingStore struct {
	*MemoryStore
	err   error
	calls int
}

func (f *failingStore) List(_ context.Context) ([]Card, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) Get(_ context.Context, _ string) (Card, error) {
	f.calls++
	return Card{}, f.err
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	inner := &failingStore{MemoryStore: NewMemoryStore(nil), err: errors.New("syntax error")}
	store := NewBreakerStore(inner, discardLogger(), BreakerSettings{ConsecutiveFailures: 3, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := store.List(context.Background())
		if err == nil || errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("attempt %d: expected raw store error, got %v", i, err)
		}
	}
	if store.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", store.State())
	}

	_, err := store.List(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected inner store not called while open, got %d calls", inner.calls)
	}
}

// Gli errori di dominio non aprono il circuito.
func TestBreakerIgnoresDomainErrors(t *testing.T) {
	inner := &failingStore{MemoryStore: NewMemoryStore(nil), err: ErrCardNotFound}
	store := NewBreakerStore(inner, discardLogger(), BreakerSettings{ConsecutiveFailures: 2})

	for i := 0; i < 5; i++ {
		_, err := store.Get(context.Background(), "missing")
		if !errors.Is(err, ErrCardNotFound) {
			t.Fatalf("expected ErrCardNotFound, got %v", err)
		}
	}
	if store.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker, got %s", store.State())
	}
}

func TestBreakerConnectionErrorIsUnavailable(t *testing.T) {
	inner := &failingStore{MemoryStore: NewMemoryStore(nil), err: context.DeadlineExceeded}
	store := NewBreakerStore(inner, discardLogger(), BreakerSettings{})

	_, err := store.List(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestBreakerPassesThroughWrites(t *testing.T) {
	store := NewBreakerStore(NewMemoryStore(nil), discardLogger(), BreakerSettings{})
	card := Card{ID: "a", Name: "A", Arcana: ArcanaMajor, Health: 1}

	if err := store.Insert(context.Background(), card); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Insert(context.Background(), card); !errors.Is(err, ErrCardExists) {
		t.Fatalf("expected ErrCardExists, got %v", err)
	}
	got, err := store.FindByName(context.Background(), "a")
	if err != nil || got.ID != "a" {
		t.Fatalf("FindByName: %+v %v", got, err)
	}
	if err := store.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

// Un client che si disconnette non apre il circuito.
func TestBreakerIgnoresCanceledCaller(t *testing.T) {
	inner := &failingStore{MemoryStore: NewMemoryStore(nil), err: context.Canceled}
	store := NewBreakerStore(inner, discardLogger(), BreakerSettings{ConsecutiveFailures: 3, OpenTimeout: time.Minute})

	for i := 0; i < 5; i++ {
		_, err := store.List(context.Background())
		if !errors.Is(err, context.Canceled) || errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("attempt %d: expected context.Canceled, got %v", i, err)
		}
	}
	if store.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker, got %s", store.State())
	}
	if inner.calls != 5 {
		t.Fatalf("expected every call to reach the store, got %d", inner.calls)
	}
}

// Timeout del chiamante: l'errore del driver non conta come guasto.
func TestBreakerIgnoresExpiredCallerDeadline(t *testing.T) {
	inner := &failingStore{MemoryStore: NewMemoryStore(nil), err: context.DeadlineExceeded}
	store := NewBreakerStore(inner, discardLogger(), BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	for i := 0; i < 4; i++ {
		_, err := store.Get(ctx, "x")
		if errors.Is(err, ErrStoreUnavailable) {
			t.Fatalf("attempt %d: expected raw caller error, got %v", i, err)
		}
	}
	if store.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker, got %s", store.State())
	}

	// Con il context ancora valido lo stesso errore resta un guasto dello store.
	for i := 0; i < 2; i++ {
		_, _ = store.Get(context.Background(), "x")
	}
	if store.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", store.State())
	}
}
