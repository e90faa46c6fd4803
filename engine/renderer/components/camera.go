package components

import (
	"github.com/spaghettifunk/lightbox/engine/math"
)

const (
	/** @brief Zoom multiplier applied per scroll line. Positive scroll zooms out. */
	ZOOM_SPEED float32 = 0.95
	DEFAULT_MIN_SCALE float32 = 0.01
	DEFAULT_MAX_SCALE float32 = 100.0
)

/**
 * @brief A 2D viewport camera. World space is image space: an image of
 * size (w, h) occupies the rectangle (0,0)-(w,h). Screen space is pixels
 * in the window, growing right and down.
 *
 * screen = world * Scale + Offset
 */
type Camera struct {
	/** @brief Screen-space translation applied after scaling. */
	Offset math.Vec2
	/** @brief Uniform zoom factor. Always positive. */
	Scale float32
	/** @brief Lower and upper bounds for Scale. */
	MinScale float32
	MaxScale float32
}

func NewCamera() *Camera {
	camera := &Camera{
		MinScale: DEFAULT_MIN_SCALE,
		MaxScale: DEFAULT_MAX_SCALE,
	}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.Offset = math.NewVec2Zero()
	c.Scale = 1.0
}

func (c *Camera) WorldToScreen(world math.Vec2) math.Vec2 {
	return world.MulScalar(c.Scale).Add(c.Offset)
}

func (c *Camera) ScreenToWorld(screen math.Vec2) math.Vec2 {
	return screen.Sub(c.Offset).DivScalar(c.Scale)
}

// Transform maps a world-space rectangle to screen space.
func (c *Camera) Transform(rect math.Rect) math.Rect {
	return math.NewRect(c.WorldToScreen(rect.Min), c.WorldToScreen(rect.Max))
}

/**
 * @brief Applies one frame of pointer input. Dragging pans by the pointer
 * delta. A non-zero scroll zooms by ZOOM_SPEED^scroll while keeping the
 * world point under the pointer fixed on screen.
 */
func (c *Camera) HandleInput(pointer, delta math.Vec2, scroll float64, dragging bool) {
	if dragging {
		c.Offset = c.Offset.Add(delta)
	}
	if scroll == 0 {
		return
	}

	before := c.ScreenToWorld(pointer)
	c.Scale = c.clampScale(c.Scale * math.Pow(ZOOM_SPEED, float32(scroll)))
	after := c.ScreenToWorld(pointer)

	c.Offset = c.Offset.Add(after.Sub(before).MulScalar(c.Scale))
}

/**
 * @brief Scales and centres an image of the given size inside the viewport.
 * Images smaller than the viewport are shown at their natural size.
 */
func (c *Camera) Fit(imageWidth, imageHeight, viewportWidth, viewportHeight float32) {
	if imageWidth <= 0 || imageHeight <= 0 || viewportWidth <= 0 || viewportHeight <= 0 {
		c.Reset()
		return
	}
	scale := viewportWidth / imageWidth
	if s := viewportHeight / imageHeight; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	c.Scale = c.clampScale(scale)
	c.Offset = math.NewVec2(
		(viewportWidth-imageWidth*c.Scale)*0.5,
		(viewportHeight-imageHeight*c.Scale)*0.5,
	)
}

func (c *Camera) clampScale(scale float32) float32 {
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return scale
	}
	return math.Clamp(scale, c.MinScale, c.MaxScale)
}
