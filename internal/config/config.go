package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Climate service configuration, for resolving site references.
	ClimateAPIURL    string
	ClimateEnabled   bool
	ClimateTimeout   time.Duration
	ClimateCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	climateTimeoutStr := envOrDefault("CLIMATE_API_TIMEOUT", "5s")
	climateTimeout, err2 := time.ParseDuration(climateTimeoutStr)
	if err2 != nil || climateTimeout <= 0 {
		return nil, errors.New("invalid CLIMATE_API_TIMEOUT")
	}

	batchSize, err := parseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	climateCacheSize := parseClimateCacheSize()

	climateURL := os.Getenv("CLIMATE_API_URL")
	climateEnabled := climateURL != ""
	if v := os.Getenv("CLIMATE_API_ENABLED"); v != "" {
		climateEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "heatload-projects"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "heatload-reports"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "heatload-engine"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		ClimateAPIURL:    climateURL,
		ClimateEnabled:   climateEnabled,
		ClimateTimeout:   climateTimeout,
		ClimateCacheSize: climateCacheSize,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.ClimateEnabled && cfg.ClimateAPIURL == "" {
		return nil, errors.New("CLIMATE_API_ENABLED is true but CLIMATE_API_URL is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseShutdownTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}

const maxBatchSize = 1000

func parseBatchSize() (int, error) {
	s := envOrDefault("BATCH_SIZE", "50")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxBatchSize {
		return 0, fmt.Errorf("invalid BATCH_SIZE %q (want 1-%d)", s, maxBatchSize)
	}
	return n, nil
}

func parseBatchFlushInterval() (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault("BATCH_FLUSH_INTERVAL", "500ms"))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid BATCH_FLUSH_INTERVAL")
	}
	return d, nil
}

func parseClimateCacheSize() int {
	if s := os.Getenv("CLIMATE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
