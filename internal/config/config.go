package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	CMS     CMSConfig
	Site    SiteConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
	CommentRateLimit  float64
	CommentRateBurst  int
}

// CMSConfig describes the headless CMS GraphQL endpoint and how its content is trusted.
type CMSConfig struct {
	Endpoint          string
	CacheTTL          time.Duration
	HTMLPolicy        string // trust|ugc
	RevalidationToken string
}

// SiteConfig holds presentation-level values used when rendering pages.
type SiteConfig struct {
	Name    string
	BaseURL string
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 3000
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultCacheTTL         = 60 * time.Second
	defaultHTMLPolicy       = "trust"
	defaultSiteName         = "Foodie Fusion"
	defaultSiteBaseURL      = "http://localhost:3000"
	defaultCommentRateLimit = 0.2
	defaultCommentRateBurst = 3
)

// Load reads configuration from environment variables, applying defaults.
// A missing CMS endpoint is not an error here; callers that fetch content
// reject it through RequireEndpoint.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:              valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ShutdownTimeout:   defaultShutdownTimeout,
			MetricsEnabled:    parseBoolWithDefault("SERVER_METRICS_ENABLED", false),
			AllowedOriginsCSV: os.Getenv("SERVER_ALLOWED_ORIGINS"),
			CommentRateLimit:  parseFloatWithDefault("COMMENT_RATE_LIMIT", defaultCommentRateLimit),
			CommentRateBurst:  parseIntWithDefault("COMMENT_RATE_BURST", defaultCommentRateBurst),
		},
		CMS: CMSConfig{
			Endpoint:          strings.TrimSpace(os.Getenv("WORDPRESS_GRAPHQL_ENDPOINT")),
			CacheTTL:          defaultCacheTTL,
			HTMLPolicy:        strings.ToLower(valueOrDefault("CMS_HTML_POLICY", defaultHTMLPolicy)),
			RevalidationToken: os.Getenv("REVALIDATION_SECRET_TOKEN"),
		},
		Site: SiteConfig{
			Name:    valueOrDefault("SITE_NAME", defaultSiteName),
			BaseURL: strings.TrimRight(valueOrDefault("SITE_BASE_URL", defaultSiteBaseURL), "/"),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"CMS_CACHE_TTL", &cfg.CMS.CacheTTL},
	}
	for _, d := range durations {
		if err := parseDurationInto(d.key, d.dst); err != nil {
			return Config{}, err
		}
	}

	switch cfg.CMS.HTMLPolicy {
	case "trust", "ugc":
	default:
		return Config{}, fmt.Errorf("invalid CMS_HTML_POLICY %q: want trust or ugc", cfg.CMS.HTMLPolicy)
	}

	return cfg, nil
}

// ErrMissingEndpoint is returned by RequireEndpoint when no GraphQL endpoint is configured.
var ErrMissingEndpoint = errors.New("WORDPRESS_GRAPHQL_ENDPOINT is not configured")

// RequireEndpoint returns the configured GraphQL endpoint or ErrMissingEndpoint.
func (c CMSConfig) RequireEndpoint() (string, error) {
	if c.Endpoint == "" {
		return "", ErrMissingEndpoint
	}
	return c.Endpoint, nil
}

// Addr renders the listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationInto(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
