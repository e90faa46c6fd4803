package engine

import (
	"github.com/spaghettifunk/lightbox/engine/config"
	"github.com/spaghettifunk/lightbox/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	// Upper bound on frames per second. 0 relies on vsync alone.
	FrameCap int
}

// NewApplicationConfig derives the window settings from the loaded configuration.
func NewApplicationConfig(cfg *config.Config) (*ApplicationConfig, error) {
	level, err := core.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  cfg.Window.Width,
		StartHeight: cfg.Window.Height,
		Name:        cfg.Window.Title,
		LogLevel:    level,
		FrameCap:    cfg.Window.FrameCap,
	}, nil
}
