package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lightbox/engine/core"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint32(1280), cfg.Window.Width)
	assert.Equal(t, 4, cfg.Loader.Workers)
	assert.Equal(t, PreloadConfig{Behind: 1, Ahead: 2, IdleAhead: 1}, cfg.Preload)

	ttl, err := cfg.RequestTTL()
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "lightbox.toml", `
log_level = "debug"

[window]
title = "Contact sheet"
width = 800

[loader]
workers = 2
request_ttl = "45s"

[preload]
ahead = 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Contact sheet", cfg.Window.Title)
	assert.Equal(t, uint32(800), cfg.Window.Width)
	// untouched keys keep their defaults
	assert.Equal(t, uint32(720), cfg.Window.Height)
	assert.Equal(t, 16, cfg.Loader.QueueSize)
	assert.Equal(t, 2, cfg.Loader.Workers)
	assert.Equal(t, 4, cfg.Preload.Ahead)
	assert.Equal(t, 1, cfg.Preload.Behind)
	assert.Equal(t, "debug", cfg.LogLevel)

	ttl, err := cfg.RequestTTL()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, ttl)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "lightbox.yaml", `
input:
  dir: /photos
  scan_depth: 3
  watch: true
export_dir: /tmp/out
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/photos", cfg.Input.Dir)
	assert.Equal(t, 3, cfg.Input.ScanDepth)
	assert.True(t, cfg.Input.Watch)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
	assert.Equal(t, "Lightbox", cfg.Window.Title)
}

func TestDecodeEmptyYAML(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(strings.NewReader(""), ".yml", cfg))
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "broken.toml", "[window\nwidth = "))
	assert.Error(t, err)
}

func TestFromArgs(t *testing.T) {
	path := writeFile(t, "lightbox.toml", "[loader]\nworkers = 2\n")

	cfg, err := FromArgs([]string{"-config", path, "-workers", "8", "-log-level", "warn", "/photos"})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Loader.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/photos", cfg.Input.Dir)

	cfg, err = FromArgs([]string{"-config", path, "-input", "/scans"})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Loader.Workers)
	assert.Equal(t, "/scans", cfg.Input.Dir)
}

func TestFromArgsHelp(t *testing.T) {
	_, err := FromArgs([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestFromArgsValidates(t *testing.T) {
	_, err := FromArgs([]string{"-config", "", "-workers", "0"})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Input.ScanDepth = 0
	cfg.Loader.QueueSize = -1
	cfg.Loader.RequestTTL = "soon"
	cfg.LogLevel = "chatty"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	for _, want := range []string{"window size", "scan_depth", "queue_size", "request_ttl", "log_level"} {
		assert.Contains(t, err.Error(), want)
	}

	cfg = Default()
	cfg.Loader.RequestTTL = "-5s"
	assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfig)
}
