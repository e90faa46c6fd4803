package renderer

import (
	"image"

	"github.com/spaghettifunk/lightbox/engine/math"
)

// Texture is a drawable image owned by a renderer backend.
type Texture interface {
	// Size returns the texture dimensions in pixels.
	Size() (width, height int)
	// Image returns a standard library view of the texture pixels.
	Image() image.Image
}

// TextureFactory turns raw RGBA bytes into a drawable texture. It is the only
// renderer capability the loading pipeline uses and it must only be called
// from the presentation goroutine.
type TextureFactory interface {
	TextureCreate(pixels []uint8, width, height int) (Texture, error)
}

type RendererBackend interface {
	TextureFactory
	BeginFrame(width, height int) error
	EndFrame() (*image.RGBA, error)
	DrawTexture(texture Texture, dst math.Rect, opacity float64)
	DrawText(text string, x, y float64)
}
