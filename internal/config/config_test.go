package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 25.0, cfg.PickRadiusPx)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Origins())

	opts := cfg.EngineOptions()
	assert.Equal(t, drawing.ColorWhite, opts.Defaults.Color)
	assert.Equal(t, 5.0, opts.Defaults.PointSize)
	assert.Equal(t, 0.8, opts.Defaults.Darken)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PICK_RADIUS_PX", "10")
	t.Setenv("DEFAULT_COLOR", "#00ff00")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 10.0, cfg.EngineOptions().PickRadius)
	assert.Equal(t, drawing.Color{G: 255, A: 255}, cfg.EngineOptions().Defaults.Color)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("DEFAULT_COLOR", "white")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DEFAULT_COLOR", "#fff")
	t.Setenv("PICK_RADIUS_PX", "0")
	_, err = Load()
	assert.Error(t, err)
}
