package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Backend dello store carte.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Provider di identita'.
const (
	AuthMock   = "mock"
	AuthCookie = "cookie"
)

// Config contiene le impostazioni runtime per catalog-svc.
type Config struct {
	AppEnv   string `env:"APP_ENV" default:"development"`
	HTTPAddr string `env:"HTTP_ADDR" default:":8080"`
	GRPCAddr string `env:"GRPC_ADDR" default:":50061"`

	DBDSN      string `env:"DB_DSN"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" default:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBSSLMode  string `env:"DB_SSLMODE" default:"require"`

	CardStore    string `env:"CARD_STORE" default:"memory"`
	CardSeedFile string `env:"CARD_SEED_FILE"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" default:"0"`
	LockTTL       time.Duration `env:"LOCK_TTL" default:"5s"`
	LockRetries   int           `env:"LOCK_RETRIES" default:"3"`
	LockBackoff   time.Duration `env:"LOCK_BACKOFF" default:"100ms"`

	AuthProvider  string        `env:"AUTH_PROVIDER" default:"mock"`
	MockUserID    string        `env:"MOCK_USER_ID" default:"demo-user"`
	MockUserName  string        `env:"MOCK_USER_NAME" default:"Demo Player"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"`

	DemoRatePerSecond float64 `env:"DEMO_RATE_PER_SECOND" default:"5"`
	DemoBurst         int     `env:"DEMO_BURST" default:"10"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadDotenv carica le variabili da .env se presente (solo per dev).
func LoadDotenv(logger *slog.Logger) {
	envPath := os.Getenv("GO_DOTENV_PATH")
	if envPath == "" {
		envPath = ".env"
	}
	if err := godotenv.Overload(envPath); err != nil {
		// Se manca il file .env, continuiamo con le env gia' presenti.
		logger.Warn("impossibile caricare .env", "path", envPath, "error", err)
		return
	}
	logger.Info(".env caricato", "path", envPath)
}

// Load legge le variabili d'ambiente con default e le valida.
func Load() (Config, error) {
	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	if cfg.DBDSN == "" {
		cfg.DBDSN = cfg.buildDSN()
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction abilita le impostazioni sicure (cookie Secure, niente login diretto).
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c Config) validate() error {
	switch c.CardStore {
	case StoreMemory:
	case StorePostgres:
		if c.DBDSN == "" {
			return errors.New("DB_DSN or DB_HOST/DB_USER/DB_NAME are required when CARD_STORE=postgres")
		}
	default:
		return fmt.Errorf("CARD_STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.CardStore)
	}

	switch c.AuthProvider {
	case AuthMock:
		if c.IsProduction() {
			return errors.New("AUTH_PROVIDER=mock is not allowed in production")
		}
	case AuthCookie:
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters when AUTH_PROVIDER=cookie")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be %q or %q, got %q", AuthMock, AuthCookie, c.AuthProvider)
	}

	if c.LockRetries < 0 {
		return errors.New("LOCK_RETRIES cannot be negative")
	}
	if c.DemoRatePerSecond <= 0 || c.DemoBurst <= 0 {
		return errors.New("DEMO_RATE_PER_SECOND and DEMO_BURST must be positive")
	}
	return nil
}

func (c Config) buildDSN() string {
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}
