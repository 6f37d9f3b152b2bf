package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Redis     RedisConfig
	SQLite    SQLiteConfig
	Catalog   CatalogConfig
	Backend   BackendConfig
	Search    SearchConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SOUK_APP_ENV" required:"true"`
	Port         string `envconfig:"SOUK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOUK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOUK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the durable backend behind the shopper-state bridge.
type StorageConfig struct {
	Driver string `envconfig:"SOUK_STORAGE_DRIVER" default:"redis"`
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(s.Driver) {
	case StorageDriverRedis, StorageDriverSQLite, StorageDriverMemory:
		return nil
	}
	return fmt.Errorf("unknown storage driver %q (want %s, %s or %s)",
		s.Driver, StorageDriverRedis, StorageDriverSQLite, StorageDriverMemory)
}

// NormalizedDriver returns the lowercase storage driver name.
func (s StorageConfig) NormalizedDriver() string {
	return strings.ToLower(s.Driver)
}

type RedisConfig struct {
	URL          string        `envconfig:"SOUK_REDIS_URL"`
	Address      string        `envconfig:"SOUK_REDIS_ADDR"`
	Password     string        `envconfig:"SOUK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOUK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOUK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOUK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOUK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOUK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOUK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SQLiteConfig struct {
	Path string `envconfig:"SOUK_SQLITE_PATH" default:"souk-state.db"`
}

// CatalogConfig points at the external catalog endpoint used by search.
type CatalogConfig struct {
	BaseURL      string        `envconfig:"SOUK_CATALOG_BASE_URL" required:"true"`
	FetchTimeout time.Duration `envconfig:"SOUK_CATALOG_FETCH_TIMEOUT" default:"10s"`
}

// BackendConfig points at the external storefront REST backend the proxy
// forwards to.
type BackendConfig struct {
	BaseURL string `envconfig:"SOUK_BACKEND_BASE_URL" required:"true"`
}

type SearchConfig struct {
	DebounceInterval time.Duration `envconfig:"SOUK_SEARCH_DEBOUNCE_INTERVAL" default:"300ms"`
	RecentQueryLimit int           `envconfig:"SOUK_SEARCH_RECENT_QUERY_LIMIT" default:"5"`
}

type SessionConfig struct {
	HeaderName string        `envconfig:"SOUK_SESSION_HEADER" default:"X-Souk-Session"`
	IdleTTL    time.Duration `envconfig:"SOUK_SESSION_IDLE_TTL" default:"30m"`
}

type RateLimitConfig struct {
	MutationWindow time.Duration `envconfig:"SOUK_RATE_LIMIT_MUTATION_WINDOW" default:"1m"`
	MutationLimit  int           `envconfig:"SOUK_RATE_LIMIT_MUTATION_LIMIT" default:"120"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SOUK_CORS_ALLOWED_ORIGINS" default:"*"`
}
