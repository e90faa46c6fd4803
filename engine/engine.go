package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/platform"
	"github.com/spaghettifunk/lightbox/engine/renderer"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every resource
	EngineStageShutdown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	isSuspended  bool
	platform     *platform.Platform
	renderer     renderer.RendererBackend
	input        *core.InputState
	width        uint32
	height       uint32
	clock        *core.Clock
	metrics      *core.FrameMetrics
	lastTime     float64
}

func New(g *Game, p *platform.Platform, r renderer.RendererBackend, input *core.InputState, metrics *core.FrameMetrics) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, fmt.Errorf("engine: %w: game without application config", core.ErrNotInitialized)
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      metrics,
		platform:     p,
		renderer:     r,
		input:        input,
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	core.SetLogLevel(e.gameInstance.ApplicationConfig.LogLevel)

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.platform.Startup(e.gameInstance.ApplicationConfig.Name,
		e.gameInstance.ApplicationConfig.StartPosX,
		e.gameInstance.ApplicationConfig.StartPosY,
		e.gameInstance.ApplicationConfig.StartWidth,
		e.gameInstance.ApplicationConfig.StartHeight); err != nil {
		return err
	}

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}

	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine: %w", core.ErrNotInitialized)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64
	if fc := e.gameInstance.ApplicationConfig.FrameCap; fc > 0 {
		targetFrameSeconds = 1.0 / float64(fc)
	}

	for e.isRunning.Load() {
		if !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			return err
		}

		if err := e.drawFrame(delta); err != nil {
			core.LogError("game render failed, shutting down: %s", err)
			return err
		}

		// Figure out how long the frame took and, if below the cap, give
		// the remaining time back to the OS.
		frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
		e.metrics.Update(frameElapsedTime)
		if targetFrameSeconds > 0 {
			if remainingMS := (targetFrameSeconds - frameElapsedTime) * 1000; remainingMS > 1 {
				e.platform.Sleep(remainingMS - 1)
			}
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		e.input.Update()

		e.lastTime = currentTime
	}

	return nil
}

func (e *Engine) drawFrame(delta float64) error {
	width, height := e.platform.WindowSize()
	if err := e.renderer.BeginFrame(width, height); err != nil {
		return err
	}
	if err := e.gameInstance.FnRender(e.renderer, delta); err != nil {
		return err
	}
	frame, err := e.renderer.EndFrame()
	if err != nil {
		return err
	}
	return e.platform.Present(frame)
}

// Quit asks the frame loop to stop after the current frame. Safe to call
// from any goroutine.
func (e *Engine) Quit() {
	e.isRunning.Store(false)
}

// Shutdown must run on the main thread after Run returned.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return core.ErrAlreadyShutdown
	}
	e.currentStage = EngineStageShuttingDown

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := core.EventSystemShutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := e.platform.Shutdown(); err != nil {
		errs = append(errs, err)
	}

	e.currentStage = EngineStageShutdown
	if len(errs) > 0 {
		return fmt.Errorf("engine shutdown: %v", errs)
	}
	return nil
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.WindowWidth
	height := se.WindowHeight

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError("resize failed: %s", err)
	}
	return false
}
