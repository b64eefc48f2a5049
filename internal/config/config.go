// Package config loads service configuration: built-in defaults, then an
// optional YAML file named by CONFIG_FILE, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendNeo4j    = "neo4j"
	BackendPostgres = "postgres"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Store    StoreConfig    `yaml:"store"`
	Graph    GraphConfig    `yaml:"graph"`
	Postgres PostgresConfig `yaml:"postgres"`
	Engine   EngineConfig   `yaml:"engine"`
	Cache    CacheConfig    `yaml:"cache"`
	Breaker  BreakerConfig  `yaml:"breaker"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MetricsEnabled    bool          `yaml:"metrics_enabled"`
	AllowedOriginsCSV string        `yaml:"allowed_origins"`
}

// AllowedOrigins splits the CORS origin list.
func (h HTTPConfig) AllowedOrigins() []string {
	var origins []string
	for _, part := range strings.Split(h.AllowedOriginsCSV, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// StoreConfig selects the graph store backend.
type StoreConfig struct {
	Backend    string `yaml:"backend"` // memory|neo4j|postgres
	DatasetDir string `yaml:"dataset_dir"`
}

// GraphConfig describes connectivity to the Neo4j-compatible graph database.
type GraphConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	MaxConnections int           `yaml:"max_connections"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout"`
}

// PostgresConfig describes the relational store.
type PostgresConfig struct {
	URL             string        `yaml:"url"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// EngineConfig tunes path search, fit and the dashboard.
type EngineConfig struct {
	DefaultMaxDegree       int           `yaml:"default_max_degree"`
	MaxDegreeLimit         int           `yaml:"max_degree_limit"`
	MaxPaths               int           `yaml:"max_paths"`
	FitMaxDegree           int           `yaml:"fit_max_degree"`
	RecommendationLimit    int           `yaml:"recommendation_limit"`
	LookupConcurrency      int           `yaml:"lookup_concurrency"`
	PathTimeout            time.Duration `yaml:"path_timeout"`
	DashboardOpportunities int           `yaml:"dashboard_opportunities"`
	DashboardEvents        int           `yaml:"dashboard_events"`
}

// CacheConfig controls the graph store read cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	TTL      time.Duration `yaml:"ttl"`
	MaxItems int           `yaml:"max_items"`
}

// BreakerConfig controls the circuit breaker in front of the graph store.
type BreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"` // text|json
	IncludeCaller bool   `yaml:"include_caller"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MetricsEnabled:  true,
		},
		Store: StoreConfig{
			Backend:    BackendMemory,
			DatasetDir: "./data",
		},
		Graph: GraphConfig{
			MaxConnections: 10,
			AcquireTimeout: 5 * time.Second,
		},
		Postgres: PostgresConfig{
			MaxConns:        25,
			MinConns:        2,
			MaxConnLifetime: 5 * time.Minute,
			MaxConnIdleTime: time.Minute,
		},
		Engine: EngineConfig{
			DefaultMaxDegree:       3,
			MaxDegreeLimit:         6,
			MaxPaths:               10,
			FitMaxDegree:           3,
			RecommendationLimit:    5,
			LookupConcurrency:      8,
			PathTimeout:            5 * time.Second,
			DashboardOpportunities: 5,
			DashboardEvents:        5,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTL:      30 * time.Second,
			MaxItems: 10000,
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the file named by CONFIG_FILE
// (if set) and environment overrides, then validates it.
func Load() (Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit file path. An empty path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.HTTP.Port))
	}
	switch c.Store.Backend {
	case BackendMemory:
		if c.Store.DatasetDir == "" {
			errs = append(errs, errors.New("store.dataset_dir is required for the memory backend"))
		}
	case BackendNeo4j:
		if c.Graph.URI == "" {
			errs = append(errs, errors.New("graph.uri is required for the neo4j backend"))
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("postgres.url is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	e := c.Engine
	if e.DefaultMaxDegree <= 0 || e.MaxDegreeLimit < e.DefaultMaxDegree {
		errs = append(errs, fmt.Errorf("engine degrees invalid: default %d, limit %d", e.DefaultMaxDegree, e.MaxDegreeLimit))
	}
	if e.MaxPaths <= 0 {
		errs = append(errs, fmt.Errorf("engine.max_paths must be positive, got %d", e.MaxPaths))
	}
	if c.Breaker.Enabled && (c.Breaker.FailureThreshold <= 0 || c.Breaker.FailureThreshold > 1) {
		errs = append(errs, fmt.Errorf("breaker.failure_threshold must be in (0, 1], got %v", c.Breaker.FailureThreshold))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s value %q: %w", key, v, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s value %q: %w", key, v, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("SERVER_HOST", &cfg.HTTP.Host)
	integer("SERVER_PORT", &cfg.HTTP.Port)
	duration("SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	duration("SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	duration("SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout)
	duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout)
	boolean("SERVER_METRICS_ENABLED", &cfg.HTTP.MetricsEnabled)
	str("SERVER_ALLOWED_ORIGINS", &cfg.HTTP.AllowedOriginsCSV)

	str("STORE_BACKEND", &cfg.Store.Backend)
	str("STORE_DATASET_DIR", &cfg.Store.DatasetDir)

	str("GRAPH_URI", &cfg.Graph.URI)
	str("GRAPH_DATABASE", &cfg.Graph.Database)
	str("GRAPH_USERNAME", &cfg.Graph.Username)
	str("GRAPH_PASSWORD", &cfg.Graph.Password)
	integer("GRAPH_MAX_CONNECTIONS", &cfg.Graph.MaxConnections)

	str("POSTGRES_URL", &cfg.Postgres.URL)

	integer("ENGINE_DEFAULT_MAX_DEGREE", &cfg.Engine.DefaultMaxDegree)
	integer("ENGINE_MAX_DEGREE_LIMIT", &cfg.Engine.MaxDegreeLimit)
	integer("ENGINE_MAX_PATHS", &cfg.Engine.MaxPaths)
	integer("ENGINE_RECOMMENDATION_LIMIT", &cfg.Engine.RecommendationLimit)
	duration("ENGINE_PATH_TIMEOUT", &cfg.Engine.PathTimeout)

	boolean("CACHE_ENABLED", &cfg.Cache.Enabled)
	duration("CACHE_TTL", &cfg.Cache.TTL)
	boolean("BREAKER_ENABLED", &cfg.Breaker.Enabled)

	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	boolean("LOG_INCLUDE_CALLER", &cfg.Logging.IncludeCaller)

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	return errors.Join(errs...)
}
