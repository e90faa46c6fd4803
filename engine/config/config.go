package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/lightbox/engine/core"
)

const DEFAULT_CONFIG_FILE = "lightbox.toml"

type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  uint32 `toml:"width" yaml:"width"`
	Height uint32 `toml:"height" yaml:"height"`
	// Frames per second cap. 0 presents on vsync only.
	FrameCap int `toml:"frame_cap" yaml:"frame_cap"`
}

type InputConfig struct {
	Dir       string `toml:"dir" yaml:"dir"`
	ScanDepth int    `toml:"scan_depth" yaml:"scan_depth"`
	Watch     bool   `toml:"watch" yaml:"watch"`
}

type LoaderConfig struct {
	Workers            int `toml:"workers" yaml:"workers"`
	QueueSize          int `toml:"queue_size" yaml:"queue_size"`
	MaxUploadsPerFrame int `toml:"max_uploads_per_frame" yaml:"max_uploads_per_frame"`
	// Go duration string, e.g. "30s". Empty or "0" never expires requests.
	RequestTTL string `toml:"request_ttl" yaml:"request_ttl"`
}

type PreloadConfig struct {
	Behind    int `toml:"behind" yaml:"behind"`
	Ahead     int `toml:"ahead" yaml:"ahead"`
	IdleAhead int `toml:"idle_ahead" yaml:"idle_ahead"`
}

type Config struct {
	Window    WindowConfig  `toml:"window" yaml:"window"`
	Input     InputConfig   `toml:"input" yaml:"input"`
	Loader    LoaderConfig  `toml:"loader" yaml:"loader"`
	Preload   PreloadConfig `toml:"preload" yaml:"preload"`
	ExportDir string        `toml:"export_dir" yaml:"export_dir"`
	LogLevel  string        `toml:"log_level" yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Lightbox",
			Width:  1280,
			Height: 720,
		},
		Input: InputConfig{
			Dir:       ".",
			ScanDepth: 1,
		},
		Loader: LoaderConfig{
			Workers:   4,
			QueueSize: 16,
		},
		Preload: PreloadConfig{
			Behind:    1,
			Ahead:     2,
			IdleAhead: 1,
		},
		ExportDir: "exports",
		LogLevel:  "info",
	}
}

/**
 * @brief Reads the configuration at path on top of the defaults. The format
 * follows the extension: .yaml/.yml is YAML, anything else TOML. A missing
 * default file is not an error.
 */
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DEFAULT_CONFIG_FILE {
			core.LogDebug("no %s found, using defaults", path)
			return cfg, nil
		}
		return nil, err
	}

	if err := Decode(bytes.NewReader(data), filepath.Ext(path), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a TOML or YAML document into cfg, keeping fields it does not set.
func Decode(r io.Reader, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err := yaml.NewDecoder(r).Decode(cfg)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	default:
		return toml.NewDecoder(r).Decode(cfg)
	}
}

/**
 * @brief Parses command line arguments. Flags override values from the
 * configuration file. A single positional argument is taken as the input
 * directory.
 */
func FromArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("lightbox", flag.ContinueOnError)
	path := fs.String("config", DEFAULT_CONFIG_FILE, "path to a TOML or YAML configuration file")
	input := fs.String("input", "", "directory to browse")
	workers := fs.Int("workers", 0, "number of decode workers")
	level := fs.String("log-level", "", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := Load(*path)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Dir = *input
		case "workers":
			cfg.Loader.Workers = *workers
		case "log-level":
			cfg.LogLevel = *level
		}
	})
	if fs.NArg() > 0 {
		cfg.Input.Dir = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{core.ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.FrameCap >= 0, "frame_cap %d is negative", c.Window.FrameCap)
	check(c.Input.Dir != "", "input directory is empty")
	check(c.Input.ScanDepth >= 1, "scan_depth must be at least 1, got %d", c.Input.ScanDepth)
	check(c.Loader.Workers >= 1, "workers must be at least 1, got %d", c.Loader.Workers)
	check(c.Loader.QueueSize >= 0, "queue_size %d is negative", c.Loader.QueueSize)
	check(c.Loader.MaxUploadsPerFrame >= 0, "max_uploads_per_frame %d is negative", c.Loader.MaxUploadsPerFrame)
	check(c.Preload.Behind >= 0 && c.Preload.Ahead >= 0 && c.Preload.IdleAhead >= 0, "preload distances must not be negative")

	if _, err := c.RequestTTL(); err != nil {
		errs = append(errs, err)
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: log_level: %s", core.ErrInvalidConfig, err.Error()))
	}
	return errors.Join(errs...)
}

// RequestTTL parses Loader.RequestTTL. An empty value means no expiry.
func (c *Config) RequestTTL() (time.Duration, error) {
	if c.Loader.RequestTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Loader.RequestTTL)
	if err != nil {
		return 0, fmt.Errorf("%w: request_ttl: %s", core.ErrInvalidConfig, err.Error())
	}
	if ttl < 0 {
		return 0, fmt.Errorf("%w: request_ttl %s is negative", core.ErrInvalidConfig, ttl)
	}
	return ttl, nil
}
