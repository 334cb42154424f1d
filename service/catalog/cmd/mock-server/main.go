package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/card"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/demo"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/health"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/httpapi"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/lock"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/session"
	"github.com/jonboulle/clockwork"
)

// Mock minimale per il frontend in locale: catalogo incorporato, utente fisso, nessun servizio esterno.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		// Default porta compatibile con catalog-svc.
		addr = ":8080"
	}

	seed, err := card.LoadSeed(os.Getenv("CARD_SEED_FILE"))
	if err != nil {
		logger.Error("seed non valido", "error", err)
		os.Exit(1)
	}

	cards := card.NewService(logger, card.NewMemoryStore(seed), lock.NewLocalLock())
	user := session.User{ID: "00000000-0000-0000-0000-000000000001", Name: "Mock Player"}
	server := httpapi.NewServer(logger, httpapi.Options{DemoRatePerSecond: 50, DemoBurst: 100}, httpapi.Deps{
		Cards:    cards,
		Sessions: session.NewService(logger, session.NewMockProvider(user), true),
		Health:   health.NewService(logger, clockwork.NewRealClock()),
		Demo:     demo.NewService(logger, cards),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown fallito", "error", err)
		}
	}()

	logger.Info("mock catalog in ascolto", "addr", addr, "cards", len(seed), "user_id", user.ID)
	if err := server.Start(addr); err != nil {
		logger.Error("http serve failed", "error", err)
		os.Exit(1)
	}
}
