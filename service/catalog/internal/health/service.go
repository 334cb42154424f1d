package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const readinessTimeout = 5 * time.Second

// Status e' la risposta di liveness.
type Status struct {
	OK bool `json:"ok"`
}

// Check e' un controllo di readiness con nome.
type Check struct {
	Name  string
	Check func(ctx context.Context) error
}

// Readiness riporta l'esito dei controlli.
type Readiness struct {
	Status      string  `json:"status"`
	Uptime      float64 `json:"uptime,omitempty"`
	FailedCheck string  `json:"failed_check,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Ready indica se tutti i controlli sono passati.
func (r Readiness) Ready() bool {
	return r.Status == "ready"
}

// Service gestisce liveness, readiness e lo stato gRPC health.
type Service struct {
	logger  *slog.Logger
	clock   clockwork.Clock
	started time.Time
	checks  []Check
	grpc    *health.Server
}

func NewService(logger *slog.Logger, clock clockwork.Clock, checks ...Check) *Service {
	return &Service{
		logger:  logger,
		clock:   clock,
		started: clock.Now(),
		checks:  checks,
		grpc:    health.NewServer(),
	}
}

// Live non dipende da nessun servizio esterno.
func (s *Service) Live() Status {
	return Status{OK: true}
}

// Ready esegue i controlli in ordine e si ferma al primo errore.
func (s *Service) Ready(ctx context.Context) Readiness {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	for _, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			s.logger.Warn("readiness check fallito", "check", c.Name, "error", err)
			return Readiness{Status: "unhealthy", FailedCheck: c.Name, Error: err.Error()}
		}
	}
	return Readiness{Status: "ready", Uptime: s.clock.Since(s.started).Seconds()}
}

// GRPC ritorna il server health da registrare sul server gRPC.
func (s *Service) GRPC() healthpb.HealthServer {
	return s.grpc
}

// MarkServing segnala SERVING per il servizio vuoto e per quelli nominati.
func (s *Service) MarkServing(services ...string) {
	s.grpc.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, name := range services {
		s.grpc.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
}

// Shutdown porta tutti i servizi a NOT_SERVING.
func (s *Service) Shutdown() {
	s.grpc.Shutdown()
}
