package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/card"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/demo"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/health"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/lock"
	"github.com/abdul-hamid-achik/tarot-card-game-sub002/service/catalog/internal/session"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testConfig struct {
	seed     []card.Card
	cards    cardService
	provider session.Provider
	signIn   bool
	checks   []health.Check
	opts     Options
}

type testOption func(*testConfig)

func withSeed(cards []card.Card) testOption {
	return func(cfg *testConfig) { cfg.seed = cards }
}

func withCards(svc cardService) testOption {
	return func(cfg *testConfig) { cfg.cards = svc }
}

// withCookieProvider usa il provider con cookie firmato al posto del mock.
func withCookieProvider(signIn bool) testOption {
	return func(cfg *testConfig) {
		cfg.provider = session.NewCookieProvider([]byte(testSecret), time.Hour, false)
		cfg.signIn = signIn
	}
}

func withHealthChecks(checks ...health.Check) testOption {
	return func(cfg *testConfig) { cfg.checks = checks }
}

func withDemoLimit(ratePerSecond float64, burst int) testOption {
	return func(cfg *testConfig) {
		cfg.opts = Options{DemoRatePerSecond: ratePerSecond, DemoBurst: burst}
	}
}

func newTestServer(t *testing.T, opts ...testOption) *Server {
	t.Helper()
	cfg := &testConfig{
		provider: session.NewMockProvider(session.User{ID: "demo-user", Name: "Demo Player"}),
		signIn:   true,
		opts:     Options{DemoRatePerSecond: 1000, DemoBurst: 1000},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := discardLogger()
	cards := cfg.cards
	if cards == nil {
		cards = card.NewService(logger, card.NewMemoryStore(cfg.seed), lock.NewLocalLock())
	}

	return NewServer(logger, cfg.opts, Deps{
		Cards:    cards,
		Sessions: session.NewService(logger, cfg.provider, cfg.signIn),
		Health:   health.NewService(logger, clockwork.NewFakeClock(), cfg.checks...),
		Demo:     demo.NewService(logger, cards),
		Registry: NewRegistry(),
	})
}

func seedCards(t *testing.T) []card.Card {
	t.Helper()
	cards, err := card.LoadSeed("")
	require.NoError(t, err)
	return cards
}

type request struct {
	method  string
	path    string
	body    string
	cookies []*http.Cookie
}

func do(t *testing.T, srv *Server, req request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if req.body != "" {
		body = strings.NewReader(req.body)
	}
	r := httptest.NewRequest(req.method, req.path, body)
	if req.body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	for _, c := range req.cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, r)
	return rec
}

// stubCards simula un catalogo che fallisce o va in panic.
type stubCards struct {
	err      error
	panicMsg string
}

func (s stubCards) ListCards(_ context.Context) ([]card.Card, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return nil, s.err
}

func (s stubCards) GetCard(_ context.Context, _ string) (card.Card, error) {
	return card.Card{}, s.err
}

func (s stubCards) CreateCard(_ context.Context, _ card.Input) (card.Card, error) {
	return card.Card{}, s.err
}

func (s stubCards) DeleteCard(_ context.Context, _ string) error {
	return s.err
}

func healthOK(_ context.Context) error { return nil }

func healthErr(msg string) func(context.Context) error {
	return func(_ context.Context) error { return errors.New(msg) }
}
