package injector

import (
	"context"

	"github.com/spaghettifunk/lightbox/engine"
	"github.com/spaghettifunk/lightbox/engine/assets"
	"github.com/spaghettifunk/lightbox/engine/assets/loaders"
	"github.com/spaghettifunk/lightbox/engine/config"
	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/systems"
	"github.com/spaghettifunk/lightbox/viewer"
)

// ProvideRegistry registers every image found under the input directory.
func ProvideRegistry(cfg *config.Config) (*assets.Registry, error) {
	paths, err := assets.Discover(cfg.Input.Dir, cfg.Input.ScanDepth)
	if err != nil {
		return nil, err
	}
	core.LogInfo("found %d images in %s", len(paths), cfg.Input.Dir)
	if len(paths) == 0 {
		return nil, core.ErrNoAssets
	}

	registry := assets.NewRegistry()
	for _, p := range paths {
		registry.Register(p)
	}
	return registry, nil
}

func ProvideImageLoader() *loaders.ImageLoader {
	return &loaders.ImageLoader{}
}

func ProvideExporter() *loaders.WebPExporter {
	return &loaders.WebPExporter{}
}

func ProvideDecodePool(ctx context.Context, cfg *config.Config, loader assets.Loader) (*systems.DecodePool, func(), error) {
	pool, err := systems.NewDecodePool(ctx, systems.PoolConfig{
		Workers:   cfg.Loader.Workers,
		QueueSize: cfg.Loader.QueueSize,
	}, loader)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pool.Shutdown(); err != nil {
			core.LogError("decode pool shutdown: %s", err)
		}
	}
	return pool, cleanup, nil
}

func ProvideTaskManager(cfg *config.Config, pool *systems.DecodePool) (*systems.TaskManager, error) {
	ttl, err := cfg.RequestTTL()
	if err != nil {
		return nil, err
	}
	return systems.NewTaskManager(systems.TaskManagerConfig{
		MaxUploadsPerFrame: cfg.Loader.MaxUploadsPerFrame,
		RequestTTL:         ttl,
	}, pool), nil
}

func ProvideLookAhead(cfg *config.Config) systems.LookAhead {
	return systems.NewLookAhead(cfg.Preload.Behind, cfg.Preload.Ahead, cfg.Preload.IdleAhead)
}

// ProvideWatcher returns nil when watching is disabled.
func ProvideWatcher(cfg *config.Config) (*assets.Watcher, func(), error) {
	if !cfg.Input.Watch {
		return nil, func() {}, nil
	}
	w, err := assets.NewWatcher(cfg.Input.Dir, assets.DEFAULT_SETTLE_TIME)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := w.Close(); err != nil {
			core.LogWarn("closing watcher: %s", err)
		}
	}
	return w, cleanup, nil
}

func ProvideViewer(cfg *config.Config, app *engine.ApplicationConfig, deps viewer.Dependencies) (*viewer.Viewer, error) {
	deps.ExportDir = cfg.ExportDir
	return viewer.New(app, deps)
}

func ProvideGame(v *viewer.Viewer) *engine.Game {
	return v.Game
}
