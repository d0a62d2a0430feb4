package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Map       MapConfig       `mapstructure:"map"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// MapConfig tunes camera and session coordination behavior.
type MapConfig struct {
	DebounceMs    int          `mapstructure:"debounce_ms"`
	MinZoom       float64      `mapstructure:"min_zoom"`
	MaxZoom       float64      `mapstructure:"max_zoom"`
	FitPaddingPx  int          `mapstructure:"fit_padding_px"`
	FitMaxZoom    float64      `mapstructure:"fit_max_zoom"`
	FlyDurationMs int          `mapstructure:"fly_duration_ms"`
	FitDurationMs int          `mapstructure:"fit_duration_ms"`
	SessionTTLMin int          `mapstructure:"session_ttl_min"`
	DefaultRegion RegionConfig `mapstructure:"default_region"`
}

// RegionConfig is the fixed fallback region framed when there is nothing
// else to frame. Defaults cover Argentina.
type RegionConfig struct {
	SWLon float64 `mapstructure:"sw_lon"`
	SWLat float64 `mapstructure:"sw_lat"`
	NELon float64 `mapstructure:"ne_lon"`
	NELat float64 `mapstructure:"ne_lat"`
}

type GeocoderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	CacheTTLSec    int    `mapstructure:"cache_ttl_sec"`
}

// Debounce returns the settle delay as a duration.
func (m MapConfig) Debounce() time.Duration {
	return time.Duration(m.DebounceMs) * time.Millisecond
}

// SessionTTL returns the idle session lifetime.
func (m MapConfig) SessionTTL() time.Duration {
	return time.Duration(m.SessionTTLMin) * time.Minute
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rutamapa")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "rutamapa")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("map.debounce_ms", 300)
	v.SetDefault("map.min_zoom", 3)
	v.SetDefault("map.max_zoom", 18)
	v.SetDefault("map.fit_padding_px", 48)
	v.SetDefault("map.fit_max_zoom", 14)
	v.SetDefault("map.fly_duration_ms", 1200)
	v.SetDefault("map.fit_duration_ms", 800)
	v.SetDefault("map.session_ttl_min", 30)
	v.SetDefault("map.default_region.sw_lon", -73.6)
	v.SetDefault("map.default_region.sw_lat", -55.1)
	v.SetDefault("map.default_region.ne_lon", -53.6)
	v.SetDefault("map.default_region.ne_lat", -21.8)
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.timeout_seconds", 10)
	v.SetDefault("geocoder.cache_ttl_sec", 600)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: RUTAMAPA_MAP_DEBOUNCE_MS → map.debounce_ms
	v.SetEnvPrefix("RUTAMAPA")
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
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Map.DebounceMs <= 0 {
		errs = append(errs, "map.debounce_ms must be positive")
	}
	if c.Map.MinZoom < 0 || c.Map.MaxZoom <= c.Map.MinZoom {
		errs = append(errs, fmt.Sprintf("map zoom range invalid: [%v, %v]", c.Map.MinZoom, c.Map.MaxZoom))
	}
	if c.Map.FitMaxZoom < c.Map.MinZoom || c.Map.FitMaxZoom > c.Map.MaxZoom {
		errs = append(errs, "map.fit_max_zoom must be inside the zoom range")
	}
	r := c.Map.DefaultRegion
	if r.SWLon > r.NELon || r.SWLat > r.NELat {
		errs = append(errs, "map.default_region corners are inverted")
	}
	if c.Geocoder.BaseURL == "" {
		errs = append(errs, "geocoder.base_url is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
