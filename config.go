package main

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is read from the environment once at startup. Every value has a
// development default so `go run .` works from the repository root.
type Config struct {
	Addr        string
	Env         string
	TemplateDir string
	PublicDir   string
	CSSDir      string
	LogLevel    string

	// Simulated latency of the filter endpoint and the description fragment.
	// Ignored in production.
	FilterDelayMin      time.Duration
	FilterDelayMax      time.Duration
	DescriptionDelayMin time.Duration
	DescriptionDelayMax time.Duration
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func loadConfig() Config {
	return Config{
		Addr:                getenv("ADDR", ":8000"),
		Env:                 getenv("GO_ENV", "development"),
		TemplateDir:         getenv("TEMPLATE_DIR", "templates"),
		PublicDir:           getenv("PUBLIC_DIR", "out"),
		CSSDir:              getenv("CSS_DIR", "css"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		FilterDelayMin:      400 * time.Millisecond,
		FilterDelayMax:      600 * time.Millisecond,
		DescriptionDelayMin: 1500 * time.Millisecond,
		DescriptionDelayMax: 2500 * time.Millisecond,
	}
}

// Production reports whether GO_ENV asks for production behaviour.
func (c Config) Production() bool {
	return c.Env == "production"
}

func newLogger(cfg Config) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if !cfg.Production() {
		config = zap.NewDevelopmentConfig()
	}
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build()
}
