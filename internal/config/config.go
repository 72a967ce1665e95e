package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultMaxMediaBytes is the artifact size ceiling handed to the media
	// pipeline's compress step.
	DefaultMaxMediaBytes = int64(100 * 1024 * 1024)

	// DefaultMaxVideoSeconds is the recording ceiling enforced by the
	// capture stage upstream; a local media ref never exceeds it.
	DefaultMaxVideoSeconds = 120
)

type Config struct {
	DatabaseURL        string
	RedisURL           string
	NatsURL            string
	KafkaBrokers       string
	DecisionServiceURL string
	MediaPipelineURL   string
	JaegerEndpoint     string
	Port               string

	UploadDestination string
	MaxMediaBytes     int64
	MaxVideoSeconds   int

	RateLimitMax    int
	RateLimitWindow time.Duration
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		NatsURL:            os.Getenv("NATS_URL"),
		KafkaBrokers:       os.Getenv("KAFKA_BROKERS"),
		DecisionServiceURL: getenv("DECISION_SERVICE_URL", "http://localhost:8084"),
		MediaPipelineURL:   getenv("MEDIA_PIPELINE_URL", "http://localhost:8085"),
		JaegerEndpoint:     os.Getenv("JAEGER_ENDPOINT"),
		Port:               getenv("PORT", "8082"),

		UploadDestination: getenv("UPLOAD_DESTINATION", "claims-evidence"),
		MaxMediaBytes:     DefaultMaxMediaBytes,
		MaxVideoSeconds:   DefaultMaxVideoSeconds,

		RateLimitMax:    3,
		RateLimitWindow: 24 * time.Hour,
	}

	if v := os.Getenv("MAX_MEDIA_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxMediaBytes = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitMax = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RateLimitWindow = d
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
