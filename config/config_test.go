package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CHORD_WINDOW_MS", "")
	t.Setenv("DYNAMODB_ENDPOINT", "")

	cfg := Load()

	assert := assert.New(t)
	assert.Equal("8000", cfg.Port)
	assert.Equal("beat_position", cfg.BeatField)
	assert.Equal(40*time.Millisecond, cfg.ChordWindow)
	assert.Equal([]string{"*"}, cfg.AllowedOrigins)
	assert.False(cfg.UsesDynamo())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("SIMULATION_BPM", "90.5")
	t.Setenv("CHORD_WINDOW_MS", "25")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8001")

	cfg := Load()

	assert := assert.New(t)
	assert.Equal("9001", cfg.Port)
	assert.Equal(90.5, cfg.SimulationBPM)
	assert.Equal(25*time.Millisecond, cfg.ChordWindow)
	assert.Equal([]string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(cfg.UsesDynamo())
}
