package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

const (
	StorageFile      = "file"
	StorageMemory    = "memory"
	StoragePostgres  = "postgres"
	StorageFirestore = "firestore"
)

// Config carries environment-driven settings for both commands.
type Config struct {
	AppEnv   string
	LogLevel string

	InventoryBaseURL string
	InventoryTimeout time.Duration
	InventoryAddr    string
	InventorySeed    string

	Storage             string
	StorageKey          string
	StorageDir          string
	PostgresDSN         string
	FirestoreProjectID  string
	FirestoreCollection string

	Currency         currency.Unit
	TelemetryEnabled bool
}

// Load reads environment variables, applies defaults, and validates basic constraints.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:              envDefault("APP_ENV", "dev"),
		LogLevel:            envDefault("LOG_LEVEL", "info"),
		InventoryBaseURL:    envDefault("INVENTORY_BASE_URL", "http://localhost:3333"),
		InventoryAddr:       envDefault("INVENTORY_ADDR", ":3333"),
		InventorySeed:       strings.TrimSpace(os.Getenv("INVENTORY_SEED")),
		Storage:             strings.ToLower(envDefault("CART_STORAGE", StorageFile)),
		StorageKey:          envDefault("CART_STORAGE_KEY", "@RocketShoes:cart"),
		StorageDir:          envDefault("CART_STORAGE_DIR", ".cart"),
		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		FirestoreProjectID:  strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID")),
		FirestoreCollection: envDefault("FIRESTORE_COLLECTION", "cart_snapshots"),
		TelemetryEnabled:    isTruthy(os.Getenv("OTEL_ENABLED")),
	}

	timeout, err := time.ParseDuration(envDefault("INVENTORY_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("INVENTORY_TIMEOUT must be a positive duration")
	}
	cfg.InventoryTimeout = timeout

	unit, err := currency.ParseISO(strings.ToUpper(envDefault("CART_CURRENCY", "BRL")))
	if err != nil {
		return Config{}, fmt.Errorf("CART_CURRENCY: %w", err)
	}
	cfg.Currency = unit

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.InventoryBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("INVENTORY_BASE_URL must be an absolute url")
	}

	switch c.Storage {
	case StorageFile, StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when CART_STORAGE=postgres")
		}
	case StorageFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required when CART_STORAGE=firestore")
		}
	default:
		return fmt.Errorf("CART_STORAGE must be one of file, memory, postgres, firestore")
	}

	return nil
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func isTruthy(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}
