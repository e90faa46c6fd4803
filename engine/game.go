package engine

import (
	"github.com/spaghettifunk/lightbox/engine/renderer"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error

// Render draws one frame. It runs between BeginFrame and EndFrame.
type Render func(r renderer.RendererBackend, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
