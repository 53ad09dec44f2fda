package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Environment variable names.
const (
	EnvGlobalBase      = "EPITRACK_GLOBAL_BASE_URL"
	EnvRegionalBase    = "EPITRACK_REGIONAL_BASE_URL"
	EnvTimeout         = "EPITRACK_FETCH_TIMEOUT"
	EnvMaxRetries      = "EPITRACK_FETCH_MAX_RETRIES"
	EnvBackoffBase     = "EPITRACK_FETCH_BACKOFF_BASE"
	EnvCacheDir        = "EPITRACK_CACHE_DIR"
	EnvCacheMaxAge     = "EPITRACK_CACHE_MAX_AGE"
	EnvRefreshInterval = "EPITRACK_REFRESH_INTERVAL"
	EnvListenAddr      = "EPITRACK_LISTEN_ADDR"
	EnvLogLevel        = "EPITRACK_LOG_LEVEL"
	EnvServiceName     = "EPITRACK_SERVICE_NAME"
	EnvTracing         = "EPITRACK_TRACING_EXPORTER"
	EnvMetrics         = "EPITRACK_METRICS_EXPORTER"
)

// Defaults applied by Load for unset variables.
const (
	DefaultGlobalBase      = "https://disease.sh/v3/covid-19"
	DefaultTimeout         = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultBackoffBase     = 1 * time.Second
	DefaultCacheDir        = "cache"
	DefaultCacheMaxAge     = 24 * time.Hour
	DefaultRefreshInterval = 1 * time.Hour
	DefaultListenAddr      = ":8080"
	DefaultLogLevel        = "info"
	DefaultServiceName     = "epitrack"
)

// Config holds every runtime knob for the pipeline and its server.
type Config struct {
	// GlobalBase is the base URL of the worldwide statistics source.
	GlobalBase string
	// RegionalBase is the base URL of the state-level source. Defaults to
	// GlobalBase.
	RegionalBase string

	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration

	CacheDir    string
	CacheMaxAge time.Duration

	RefreshInterval time.Duration

	ListenAddr string
	LogLevel   string

	ServiceName     string
	TracingExporter string
	MetricsExporter string
}

// Load reads configuration from the environment, applying defaults and
// validating the result. Values may reference other environment variables
// with ${VAR}; a missing referenced variable is an error.
func Load() (Config, error) {
	cfg := Config{
		GlobalBase:      DefaultGlobalBase,
		Timeout:         DefaultTimeout,
		MaxRetries:      DefaultMaxRetries,
		BackoffBase:     DefaultBackoffBase,
		CacheDir:        DefaultCacheDir,
		CacheMaxAge:     DefaultCacheMaxAge,
		RefreshInterval: DefaultRefreshInterval,
		ListenAddr:      DefaultListenAddr,
		LogLevel:        DefaultLogLevel,
		ServiceName:     DefaultServiceName,
	}

	var err error
	if err = loadString(EnvGlobalBase, &cfg.GlobalBase); err != nil {
		return Config{}, err
	}
	cfg.RegionalBase = cfg.GlobalBase
	if err = loadString(EnvRegionalBase, &cfg.RegionalBase); err != nil {
		return Config{}, err
	}
	if err = loadDuration(EnvTimeout, &cfg.Timeout); err != nil {
		return Config{}, err
	}
	if err = loadInt(EnvMaxRetries, &cfg.MaxRetries); err != nil {
		return Config{}, err
	}
	if err = loadDuration(EnvBackoffBase, &cfg.BackoffBase); err != nil {
		return Config{}, err
	}
	if err = loadString(EnvCacheDir, &cfg.CacheDir); err != nil {
		return Config{}, err
	}
	if err = loadDuration(EnvCacheMaxAge, &cfg.CacheMaxAge); err != nil {
		return Config{}, err
	}
	if err = loadDuration(EnvRefreshInterval, &cfg.RefreshInterval); err != nil {
		return Config{}, err
	}
	if err = loadString(EnvListenAddr, &cfg.ListenAddr); err != nil {
		return Config{}, err
	}
	if err = loadString(EnvLogLevel, &cfg.LogLevel); err != nil {
		return Config{}, err
	}
	if err = loadString(EnvServiceName, &cfg.ServiceName); err != nil {
		return Config{}, err
	}
	if err = loadString(EnvTracing, &cfg.TracingExporter); err != nil {
		return Config{}, err
	}
	if err = loadString(EnvMetrics, &cfg.MetricsExporter); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field consistency. Load calls it; callers building a
// Config by hand should too.
func (c Config) Validate() error {
	if c.GlobalBase == "" {
		return fmt.Errorf("config: global base URL is required")
	}
	if _, err := url.Parse(c.GlobalBase); err != nil {
		return fmt.Errorf("config: invalid global base URL: %w", err)
	}
	if c.RegionalBase != "" {
		if _, err := url.Parse(c.RegionalBase); err != nil {
			return fmt.Errorf("config: invalid regional base URL: %w", err)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("config: max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.BackoffBase <= 0 {
		return fmt.Errorf("config: backoff base must be positive, got %v", c.BackoffBase)
	}
	if c.CacheDir == "" {
		return fmt.Errorf("config: cache dir is required")
	}
	if c.CacheMaxAge <= 0 {
		return fmt.Errorf("config: cache max age must be positive, got %v", c.CacheMaxAge)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("config: refresh interval must be positive, got %v", c.RefreshInterval)
	}
	return nil
}

func lookup(name string) (string, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return "", false, nil
	}
	expanded, err := expandStrict(raw)
	if err != nil {
		return "", false, fmt.Errorf("config: %s: %w", name, err)
	}
	return expanded, true, nil
}

func loadString(name string, dst *string) error {
	v, ok, err := lookup(name)
	if err != nil || !ok {
		return err
	}
	*dst = v
	return nil
}

func loadInt(name string, dst *int) error {
	v, ok, err := lookup(name)
	if err != nil || !ok {
		return err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: not an integer: %q", name, v)
	}
	*dst = n
	return nil
}

func loadDuration(name string, dst *time.Duration) error {
	v, ok, err := lookup(name)
	if err != nil || !ok {
		return err
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: not a duration: %q", name, v)
	}
	*dst = d
	return nil
}
