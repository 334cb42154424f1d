// Package httpapi espone il catalogo, la sessione, l'health e la demo come API JSON su echo.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/card"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/demo"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/health"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Contratti dei servizi usati dai handler.

type cardService interface {
	ListCards(ctx context.Context) ([]card.Card, error)
	GetCard(ctx context.Context, id string) (card.Card, error)
	CreateCard(ctx context.Context, in card.Input) (card.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

type sessionService interface {
	GetSession(r *http.Request) (session.Session, error)
	RequireUser(r *http.Request) (*session.User, error)
	SignIn(w http.ResponseWriter, r *http.Request, user session.User) (session.Session, error)
	SignOut(w http.ResponseWriter, r *http.Request) (session.Session, error)
}

type healthService interface {
	Live() health.Status
	Ready(ctx context.Context) health.Readiness
}

type demoService interface {
	Run(ctx context.Context, seed string) (demo.Run, error)
}

// Deps raccoglie i servizi di dominio collegati dal main.
type Deps struct {
	Cards    cardService
	Sessions sessionService
	Health   healthService
	Demo     demoService
	Registry *prometheus.Registry
}

// Options sono i parametri del layer HTTP.
type Options struct {
	DemoRatePerSecond float64
	DemoBurst         int
}

type Server struct {
	echo    *echo.Echo
	logger  *slog.Logger
	opts    Options
	metrics *HTTPMetrics

	cards    cardService
	sessions sessionService
	health   healthService
	demo     demoService
	registry *prometheus.Registry
}

func NewServer(logger *slog.Logger, opts Options, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	registry := deps.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	srv := &Server{
		echo:     e,
		logger:   logger,
		opts:     opts,
		metrics:  NewHTTPMetrics(registry),
		cards:    deps.Cards,
		sessions: deps.Sessions,
		health:   deps.Health,
		demo:     deps.Demo,
		registry: registry,
	}

	srv.registerRoutes()
	return srv
}

// Handler espone il router, usato dai test e da server custom.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocca finche' il server non viene chiuso; la chiusura regolare ritorna nil.
func (s *Server) Start(addr string) error {
	s.logger.Info("HTTP in ascolto", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
