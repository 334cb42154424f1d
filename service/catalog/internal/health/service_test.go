package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ok(_ context.Context) error { return nil }

// La liveness non esegue i controlli.
func TestLiveIgnoresChecks(t *testing.T) {
	called := false
	service := NewService(discardLogger(), clockwork.NewFakeClock(), Check{Name: "db", Check: func(context.Context) error {
		called = true
		return errors.New("down")
	}})

	if !service.Live().OK {
		t.Fatalf("expected ok")
	}
	if called {
		t.Fatalf("liveness must not run readiness checks")
	}
}

func TestReadyAllPass(t *testing.T) {
	clock := clockwork.NewFakeClock()
	service := NewService(discardLogger(), clock, Check{Name: "postgres", Check: ok}, Check{Name: "redis", Check: ok})
	clock.Advance(90 * time.Second)

	r := service.Ready(context.Background())
	if !r.Ready() {
		t.Fatalf("expected ready, got %+v", r)
	}
	if r.Uptime != 90 {
		t.Fatalf("expected uptime 90, got %v", r.Uptime)
	}
}

// Il primo controllo fallito ferma la sequenza.
func TestReadyStopsAtFirstFailure(t *testing.T) {
	second := false
	service := NewService(discardLogger(), clockwork.NewFakeClock(),
		Check{Name: "postgres", Check: func(context.Context) error { return errors.New("connection refused") }},
		Check{Name: "redis", Check: func(context.Context) error { second = true; return nil }},
	)

	r := service.Ready(context.Background())
	if r.Ready() || r.FailedCheck != "postgres" || r.Error != "connection refused" {
		t.Fatalf("unexpected readiness %+v", r)
	}
	if second {
		t.Fatalf("expected later checks to be skipped")
	}
}

func TestReadyAppliesTimeout(t *testing.T) {
	service := NewService(discardLogger(), clockwork.NewFakeClock(), Check{Name: "slow", Check: func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("missing deadline")
		}
		return nil
	}})

	if r := service.Ready(context.Background()); !r.Ready() {
		t.Fatalf("expected ready, got %+v", r)
	}
}

func TestGRPCStatusLifecycle(t *testing.T) {
	service := NewService(discardLogger(), clockwork.NewFakeClock())
	service.MarkServing("catalog")

	resp, err := service.GRPC().Check(context.Background(), &healthpb.HealthCheckRequest{Service: "catalog"})
	if err != nil || resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v %v", resp, err)
	}

	service.Shutdown()
	resp, err = service.GRPC().Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil || resp.Status != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v %v", resp, err)
	}
}
