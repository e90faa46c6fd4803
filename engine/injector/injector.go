//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/spaghettifunk/lightbox/engine"
	"github.com/spaghettifunk/lightbox/engine/assets"
	"github.com/spaghettifunk/lightbox/engine/assets/loaders"
	"github.com/spaghettifunk/lightbox/engine/config"
	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/platform"
	"github.com/spaghettifunk/lightbox/engine/renderer"
	"github.com/spaghettifunk/lightbox/viewer"
)

var pipelineSet = wire.NewSet(
	ProvideRegistry,
	ProvideImageLoader,
	wire.Bind(new(assets.Loader), new(*loaders.ImageLoader)),
	ProvideDecodePool,
	ProvideTaskManager,
	ProvideLookAhead,
	ProvideWatcher,
	ProvideExporter,
)

var rendererSet = wire.NewSet(
	renderer.NewSoftwareRenderer,
	wire.Bind(new(renderer.RendererBackend), new(*renderer.SoftwareRenderer)),
	wire.Bind(new(renderer.TextureFactory), new(*renderer.SoftwareRenderer)),
)

// InitializeEngine builds the engine and the viewer from cfg. The cleanup
// stops the decode workers and the directory watcher.
func InitializeEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, func(), error) {
	wire.Build(
		pipelineSet,
		rendererSet,
		core.NewInputState,
		core.NewFrameMetrics,
		platform.New,
		engine.NewApplicationConfig,
		wire.Struct(new(viewer.Dependencies), "Input", "Metrics", "Registry", "Tasks", "LookAhead", "Factory", "Watcher", "Exporter"),
		ProvideViewer,
		ProvideGame,
		engine.New,
	)
	return nil, nil, nil
}
