package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	VolcanoDataPath     string
	CountryGeometryPath string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	LoaderCacheSize int

	// HTTP edge settings.
	CORSAllowedOrigins []string
	RateLimitRPM       int

	// Map layout.
	MapStyle string

	// Snapshot export configuration.
	KafkaBrokers       []string
	KafkaSnapshotTopic string
	KafkaEnabled       bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	rateLimit, err := parsePositiveInt("RATE_LIMIT_RPM", 120)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("LOADER_CACHE_SIZE", 16)
	if err != nil {
		return nil, err
	}

	brokers := parseList(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		VolcanoDataPath:     sharedcfg.EnvOrDefault("VOLCANO_DATA_PATH", "data/mock/volcanoes.csv"),
		CountryGeometryPath: sharedcfg.EnvOrDefault("COUNTRY_GEOMETRY_PATH", "data/mock/countries.geojson"),
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		LoaderCacheSize:     cacheSize,
		CORSAllowedOrigins:  parseList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RateLimitRPM:        rateLimit,
		MapStyle:            sharedcfg.EnvOrDefault("MAP_STYLE", "carto-positron"),

		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "volcano-country-aggregates"),
		KafkaEnabled:       kafkaEnabled,
	}

	if cfg.VolcanoDataPath == "" {
		return nil, errors.New("VOLCANO_DATA_PATH is required")
	}
	if cfg.CountryGeometryPath == "" {
		return nil, errors.New("COUNTRY_GEOMETRY_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when snapshot export is enabled")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

// parseList splits a comma-separated value, dropping empty items.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
