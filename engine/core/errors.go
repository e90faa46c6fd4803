package core

import (
	"errors"
)

var (
	ErrNoAssets        = errors.New("no images to display")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrNotInitialized  = errors.New("subsystem not initialized")
	ErrAlreadyShutdown = errors.New("subsystem already shut down")
)
