package viewer

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spaghettifunk/lightbox/engine"
	"github.com/spaghettifunk/lightbox/engine/assets"
	"github.com/spaghettifunk/lightbox/engine/assets/loaders"
	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/math"
	"github.com/spaghettifunk/lightbox/engine/renderer"
	"github.com/spaghettifunk/lightbox/engine/renderer/components"
	"github.com/spaghettifunk/lightbox/engine/systems"
)

const DIMMED_OPACITY = 0.5

type Viewer struct {
	*engine.Game

	input     *core.InputState
	metrics   *core.FrameMetrics
	registry  *assets.Registry
	tasks     *systems.TaskManager
	lookAhead systems.LookAhead
	factory   renderer.TextureFactory
	watcher   *assets.Watcher
	exporter  *loaders.WebPExporter
	exportDir string

	camera   *components.Camera
	selected assets.EntityID
	dimmed   bool
	width    uint32
	height   uint32

	exports sync.WaitGroup
}

type Dependencies struct {
	Input     *core.InputState
	Metrics   *core.FrameMetrics
	Registry  *assets.Registry
	Tasks     *systems.TaskManager
	LookAhead systems.LookAhead
	Factory   renderer.TextureFactory
	// Watcher is optional.
	Watcher   *assets.Watcher
	Exporter  *loaders.WebPExporter
	ExportDir string
}

func New(app *engine.ApplicationConfig, deps Dependencies) (*Viewer, error) {
	if deps.Registry == nil || deps.Registry.Count() == 0 {
		return nil, core.ErrNoAssets
	}
	if deps.Tasks == nil || deps.Factory == nil || deps.Input == nil {
		return nil, fmt.Errorf("viewer: %w: missing pipeline dependencies", core.ErrNotInitialized)
	}
	if deps.Metrics == nil {
		deps.Metrics = core.NewFrameMetrics()
	}

	v := &Viewer{
		Game: &engine.Game{
			ApplicationConfig: app,
		},
		input:     deps.Input,
		metrics:   deps.Metrics,
		registry:  deps.Registry,
		tasks:     deps.Tasks,
		lookAhead: deps.LookAhead,
		factory:   deps.Factory,
		watcher:   deps.Watcher,
		exporter:  deps.Exporter,
		exportDir: deps.ExportDir,
		camera:    components.NewCamera(),
		width:     app.StartWidth,
		height:    app.StartHeight,
	}
	v.State = v

	v.FnInitialize = v.Initialize
	v.FnUpdate = v.Update
	v.FnRender = v.Render
	v.FnOnResize = v.OnResize
	v.FnShutdown = v.Shutdown

	return v, nil
}

func (v *Viewer) Initialize() error {
	core.LogInfo("browsing %d images", v.registry.Count())
	return nil
}

func (v *Viewer) Selected() assets.EntityID {
	return v.selected
}

func (v *Viewer) Camera() *components.Camera {
	return v.camera
}

func (v *Viewer) Dimmed() bool {
	return v.dimmed
}

/**
 * @brief One frame of viewer logic: register newly discovered files,
 * apply input to the camera and selection, then run the load pipeline.
 */
func (v *Viewer) Update(deltaTime float64) error {
	v.registerDiscovered()
	v.handleInput()
	v.lookAhead.Step(v.tasks, v.registry, v.factory, v.selected)
	return nil
}

func (v *Viewer) registerDiscovered() {
	if v.watcher == nil {
		return
	}
	for _, path := range v.watcher.Pending() {
		if _, ok := v.registry.Lookup(path); ok {
			continue
		}
		id := v.registry.Register(path)
		core.LogInfo("discovered %s as image %d", filepath.Base(path), id)
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_ASSET_DISCOVERED,
			Data: &core.AssetEvent{Path: path},
		})
	}
}

func (v *Viewer) handleInput() {
	x, y := v.input.MousePosition()
	dx, dy := v.input.MouseDelta()
	v.camera.HandleInput(
		math.NewVec2(x, y),
		math.NewVec2(dx, dy),
		v.input.ScrollDelta(),
		v.input.IsButtonDown(core.BUTTON_LEFT),
	)

	if v.input.KeyJustPressed(core.KEY_E) || v.input.KeyJustPressed(core.KEY_RIGHT) {
		v.step(1)
	}
	if v.input.KeyJustPressed(core.KEY_Q) || v.input.KeyJustPressed(core.KEY_LEFT) {
		v.step(-1)
	}
	if v.input.KeyJustPressed(core.KEY_R) {
		v.dimmed = !v.dimmed
		core.LogDebug("dimmed: %t", v.dimmed)
	}
	if v.input.KeyJustPressed(core.KEY_SPACE) {
		v.camera.Reset()
	}
	if v.input.KeyJustPressed(core.KEY_F) {
		v.fit()
	}
	if v.input.KeyJustPressed(core.KEY_X) {
		v.export()
	}
}

// step moves the selection by delta, wrapping at both ends.
func (v *Viewer) step(delta int) {
	count := v.registry.Count()
	if count == 0 {
		return
	}
	next := (int(v.selected) + delta) % count
	if next < 0 {
		next += count
	}
	v.selected = assets.EntityID(next)
	core.LogDebug("selecting image %d", v.selected)
}

func (v *Viewer) fit() {
	tex, ok := v.registry.ImageOf(v.selected)
	if !ok {
		return
	}
	w, h := tex.Size()
	v.camera.Fit(float32(w), float32(h), float32(v.width), float32(v.height))
}

func (v *Viewer) export() {
	if v.exporter == nil {
		return
	}
	tex, ok := v.registry.ImageOf(v.selected)
	if !ok {
		core.LogWarn("image %d is not loaded yet, nothing to export", v.selected)
		return
	}
	path, _ := v.registry.PathOf(v.selected)
	img := tex.Image()

	v.exports.Add(1)
	go func() {
		defer v.exports.Done()
		out, err := v.exporter.Export(v.exportDir, path, img)
		if err != nil {
			core.LogError("export of %s failed: %s", path, err)
			return
		}
		core.LogInfo("exported %s", out)
	}()
}

func (v *Viewer) Render(r renderer.RendererBackend, deltaTime float64) error {
	path, _ := v.registry.PathOf(v.selected)
	status := "loading"

	if tex, ok := v.registry.ImageOf(v.selected); ok {
		w, h := tex.Size()
		bounds := math.NewRect(math.NewVec2Zero(), math.NewVec2(float32(w), float32(h)))
		opacity := 1.0
		if v.dimmed {
			opacity = DIMMED_OPACITY
		}
		r.DrawTexture(tex, v.camera.Transform(bounds), opacity)
		status = fmt.Sprintf("%dx%d", w, h)
	} else if v.tasks.State(v.selected) == systems.LoadStateExpired {
		status = "failed"
	}

	fps, frameTime := v.metrics.Frame()
	r.DrawText(fmt.Sprintf("%s  [%d/%d]  %s  %.0f%%", filepath.Base(path), v.selected+1, v.registry.Count(), status, v.camera.Scale*100), 10, 20)
	r.DrawText(fmt.Sprintf("loaded %d  pending %d  %5.1f fps (%4.1f ms)", v.registry.LoadedCount(), len(v.tasks.InFlight()), fps, frameTime), 10, 40)
	return nil
}

func (v *Viewer) OnResize(width uint32, height uint32) error {
	v.width = width
	v.height = height
	return nil
}

// Shutdown waits for exports still being written. The decode pool and the
// watcher belong to whoever built them.
func (v *Viewer) Shutdown() error {
	v.exports.Wait()
	return nil
}
