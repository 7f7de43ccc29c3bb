package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/stacmap/internal/core/domain"
)

// Config holds all application configuration. It is built once at
// process start and passed by parameter; nothing reads it ambiently.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Search    SearchConfig    `mapstructure:"search"`
	Map       MapConfig       `mapstructure:"map"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// MapTimeout bounds one /map request end to end, in seconds.
	// A search that walks many windows can take a while.
	MapTimeout int `mapstructure:"map_timeout"`
}

type CatalogConfig struct {
	// URL is the STAC catalog root, e.g. https://earth-search.aws.element84.com/v1
	URL        string `mapstructure:"url"`
	Collection string `mapstructure:"collection"`
	AssetKey   string `mapstructure:"asset_key"`
	// HTTPTimeout is the per-call timeout in seconds; transient
	// transport retries also live in the HTTP client, not the finder.
	HTTPTimeout int `mapstructure:"http_timeout"`
	RetryMax    int `mapstructure:"retry_max"`
}

type SearchConfig struct {
	// Period is the search window length in days.
	Period int `mapstructure:"period"`
	// MaxIterations caps the windowed retry loop.
	MaxIterations int `mapstructure:"max_iterations"`
	// QueryKeys are the scene properties constrained by the default
	// range filter; each gets the same QueryMin/QueryMax bounds.
	QueryKeys []string `mapstructure:"query_keys"`
	QueryMin  float64  `mapstructure:"query_min"`
	QueryMax  float64  `mapstructure:"query_max"`
	// SortOn ranks found scenes, first key most significant.
	SortOn []string `mapstructure:"sort_on"`
}

type MapConfig struct {
	// GeoJSON is the default feature source path or URL.
	GeoJSON string `mapstructure:"geojson"`
	// Output is the default CLI output file.
	Output   string `mapstructure:"output"`
	TilerURL string `mapstructure:"tiler_url"`
	Zoom     int    `mapstructure:"zoom"`
}

type TelemetryConfig struct {
	ServiceName   string `mapstructure:"service_name"`
	CollectorAddr string `mapstructure:"collector_addr"`
	Enabled       bool   `mapstructure:"enabled"`
}

// DefaultQuery builds the range filter applied when a request carries
// no explicit query: every configured key bounded by QueryMin/QueryMax.
func (s SearchConfig) DefaultQuery() domain.Query {
	q := make(domain.Query, len(s.QueryKeys))
	for _, k := range s.QueryKeys {
		lo, hi := s.QueryMin, s.QueryMax
		q[k] = domain.Bounds{GTE: &lo, LTE: &hi}
	}
	return q
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.map_timeout", 120)
	v.SetDefault("catalog.url", "https://earth-search.aws.element84.com/v1")
	v.SetDefault("catalog.collection", "sentinel-2-l2a")
	v.SetDefault("catalog.asset_key", "visual")
	v.SetDefault("catalog.http_timeout", 30)
	v.SetDefault("catalog.retry_max", 3)
	v.SetDefault("search.period", 30)
	v.SetDefault("search.max_iterations", 12)
	v.SetDefault("search.query_keys", []string{"s2:nodata_pixel_percentage", "eo:cloud_cover"})
	v.SetDefault("search.query_min", 0)
	v.SetDefault("search.query_max", 10)
	v.SetDefault("search.sort_on", []string{"s2:nodata_pixel_percentage", "eo:cloud_cover"})
	v.SetDefault("map.geojson", "data/craters.geojson")
	v.SetDefault("map.output", "map.html")
	v.SetDefault("map.tiler_url", "https://api.cogeo.xyz/cog/tiles/{z}/{x}/{y}")
	v.SetDefault("map.zoom", 10)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.collector_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: STACMAP_CATALOG_URL → catalog.url
	v.SetEnvPrefix("STACMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Catalog.URL == "" {
		errs = append(errs, "catalog.url is required")
	}
	if c.Catalog.Collection == "" {
		errs = append(errs, "catalog.collection is required")
	}
	if c.Catalog.AssetKey == "" {
		errs = append(errs, "catalog.asset_key is required")
	}
	if c.Search.Period < 1 {
		errs = append(errs, fmt.Sprintf("search.period must be >= 1, got %d", c.Search.Period))
	}
	if c.Search.MaxIterations < 1 {
		errs = append(errs, fmt.Sprintf("search.max_iterations must be >= 1, got %d", c.Search.MaxIterations))
	}
	if c.Search.QueryMin > c.Search.QueryMax {
		errs = append(errs, "search.query_min must not exceed search.query_max")
	}
	if c.Map.TilerURL == "" {
		errs = append(errs, "map.tiler_url is required")
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 22 {
		errs = append(errs, fmt.Sprintf("map.zoom must be 1-22, got %d", c.Map.Zoom))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
