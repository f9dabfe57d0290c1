package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/timeglimpse/timeglimpse/internal/document"
	"github.com/timeglimpse/timeglimpse/internal/engine"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DataFile       string `envconfig:"DATA_FILE"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	JWTSecret      string `envconfig:"JWT_SECRET"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	PickRadiusPx     float64 `envconfig:"PICK_RADIUS_PX" default:"25"`
	DefaultColor     string  `envconfig:"DEFAULT_COLOR" default:"#ffffff"`
	DefaultThickness float64 `envconfig:"DEFAULT_THICKNESS" default:"1"`
	DefaultPointSize float64 `envconfig:"DEFAULT_POINT_SIZE" default:"5"`
	HighlightDarken  float64 `envconfig:"HIGHLIGHT_DARKEN" default:"0.8"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !document.IsHexColor(c.DefaultColor) {
		return fmt.Errorf("DEFAULT_COLOR: %w %q", document.ErrInvalidColor, c.DefaultColor)
	}
	if c.PickRadiusPx <= 0 {
		return fmt.Errorf("PICK_RADIUS_PX must be positive, got %v", c.PickRadiusPx)
	}
	if c.HighlightDarken < 0 {
		return fmt.Errorf("HIGHLIGHT_DARKEN must not be negative, got %v", c.HighlightDarken)
	}
	return nil
}

// EngineOptions layers the configured defaults into engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Defaults: engine.Defaults{
			Color:     engine.ParseColor(c.DefaultColor),
			Thickness: c.DefaultThickness,
			PointSize: c.DefaultPointSize,
			Darken:    c.HighlightDarken,
		},
		PickRadius: c.PickRadiusPx,
	}
}

// Origins splits ALLOWED_ORIGINS.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
