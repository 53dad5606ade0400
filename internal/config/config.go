package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAppEnv         = "development"
	defaultPort           = 5000
	defaultDatabaseURL    = "catalog.db"
	defaultClientURL      = "http://localhost:3000"
	defaultBaseURL        = "http://localhost:5000"
	defaultUploadDir      = "uploads"
	defaultUploadMaxBytes = 5 << 20
	defaultCacheTTL       = "5m"
	defaultReadTimeout    = "15s"
	defaultWriteTimeout   = "30s"
	defaultShutdown       = "10s"
)

// Config holds every runtime setting of the API process.
type Config struct {
	AppEnv          string
	Port            int
	DatabaseURL     string
	ClientURL       string
	BaseURL         string
	UploadDir       string
	UploadMaxBytes  int64
	SeedSampleData  bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	MetricsEnabled  bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment and, when CONFIG_FILE is
// set, from that file. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", defaultPort)
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("CLIENT_URL", defaultClientURL)
	v.SetDefault("BASE_URL", defaultBaseURL)
	v.SetDefault("UPLOAD_DIR", defaultUploadDir)
	v.SetDefault("UPLOAD_MAX_BYTES", defaultUploadMaxBytes)
	v.SetDefault("SEED_SAMPLE_DATA", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", defaultCacheTTL)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SERVER_READ_TIMEOUT", defaultReadTimeout)
	v.SetDefault("SERVER_WRITE_TIMEOUT", defaultWriteTimeout)
	v.SetDefault("SHUTDOWN_TIMEOUT", defaultShutdown)

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", file, err)
		}
	}

	appEnv := strings.TrimSpace(v.GetString("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(v.GetString("NODE_ENV"))
	}
	if appEnv == "" {
		appEnv = defaultAppEnv
	}

	cfg := &Config{
		AppEnv:          strings.ToLower(appEnv),
		Port:            v.GetInt("PORT"),
		DatabaseURL:     strings.TrimSpace(v.GetString("DATABASE_URL")),
		ClientURL:       strings.TrimSpace(v.GetString("CLIENT_URL")),
		BaseURL:         strings.TrimRight(strings.TrimSpace(v.GetString("BASE_URL")), "/"),
		UploadDir:       strings.TrimSpace(v.GetString("UPLOAD_DIR")),
		UploadMaxBytes:  v.GetInt64("UPLOAD_MAX_BYTES"),
		SeedSampleData:  v.GetBool("SEED_SAMPLE_DATA"),
		RedisAddr:       strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		CacheTTL:        v.GetDuration("CACHE_TTL"),
		MetricsEnabled:  v.GetBool("METRICS_ENABLED"),
		ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
		WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Validate(cfg *Config) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if err := validateHTTPURL("BASE_URL", cfg.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("CLIENT_URL", cfg.ClientURL); err != nil {
		return err
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if cfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be > 0")
	}
	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be > 0")
	}

	if cfg.IsProduction() && cfg.DatabaseURL == defaultDatabaseURL {
		return fmt.Errorf("in prod/release DATABASE_URL must be set and not default")
	}
	return nil
}

// IsProduction reports whether the environment label is production-like.
func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AllowedOrigins is the CORS allow-list: the local dev client plus CLIENT_URL.
func (c *Config) AllowedOrigins() []string {
	origins := []string{defaultClientURL}
	if c.ClientURL != "" && c.ClientURL != defaultClientURL {
		origins = append(origins, strings.TrimRight(c.ClientURL, "/"))
	}
	return origins
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", name, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}
