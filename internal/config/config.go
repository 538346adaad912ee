// Package config provides configuration helpers for go-speakviz commands.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default configuration.
const (
	DefaultPort           = "8080"
	DefaultDBPath         = "speakviz.db"
	DefaultHistoryCap     = 1000
	DefaultSampleInterval = 100 * time.Millisecond
	DefaultBackend        = "landmark"
	DefaultModelPath      = "models/face_detection_yunet.onnx"
	DefaultFeedbackURL    = "http://localhost:8000/analyze"
	DefaultLogLevel       = "info"
)

// Config holds process-wide settings resolved from the environment.
type Config struct {
	Env            string
	LogLevel       string
	LogFile        string
	Port           string
	DBPath         string
	HistoryCap     int
	SampleInterval time.Duration
	Backend        string
	ModelPath      string
	FeedbackURL    string
}

// Load reads an optional .env file and then the process environment.
// A missing .env file is not an error.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

// FromEnv builds a Config from environment variables, falling back to defaults.
func FromEnv() Config {
	return Config{
		Env:            os.Getenv("SPEAKVIZ_ENV"),
		LogLevel:       String("SPEAKVIZ_LOG_LEVEL", DefaultLogLevel),
		LogFile:        os.Getenv("SPEAKVIZ_LOG_FILE"),
		Port:           String("SPEAKVIZ_PORT", DefaultPort),
		DBPath:         String("SPEAKVIZ_DB", DefaultDBPath),
		HistoryCap:     Int("SPEAKVIZ_HISTORY_CAP", DefaultHistoryCap),
		SampleInterval: Duration("SPEAKVIZ_SAMPLE_INTERVAL", DefaultSampleInterval),
		Backend:        String("SPEAKVIZ_BACKEND", DefaultBackend),
		ModelPath:      String("SPEAKVIZ_MODEL", DefaultModelPath),
		FeedbackURL:    String("SPEAKVIZ_FEEDBACK_URL", DefaultFeedbackURL),
	}
}

// IsProduction reports whether SPEAKVIZ_ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// String returns the env var value or def when unset.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Int returns the env var parsed as a positive int, or def when unset or invalid.
func Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Duration returns the env var parsed with time.ParseDuration, or def when unset or invalid.
func Duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
