package renderer

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/math"
)

var (
	ErrTextureSize    = errors.New("pixel buffer does not match texture dimensions")
	ErrFrameNotActive = errors.New("no frame in progress")
)

const hudFontSize = 14.0

var clearColour = gg.RGB(0.08, 0.08, 0.08)

type softwareTexture struct {
	buf *gg.ImageBuf
}

func (t *softwareTexture) Size() (int, int) {
	return t.buf.Bounds()
}

func (t *softwareTexture) Image() image.Image {
	return t.buf.ToStdImage()
}

// SoftwareRenderer rasterizes frames on the CPU with gg. It is not safe for
// concurrent use; everything runs on the presentation goroutine.
type SoftwareRenderer struct {
	context *gg.Context
	face    text.Face
	inFrame bool
}

func NewSoftwareRenderer() (*SoftwareRenderer, error) {
	gg.SetLogger(slog.New(core.SlogHandler()))

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("renderer: load HUD font: %w", err)
	}
	return &SoftwareRenderer{
		face: source.Face(hudFontSize),
	}, nil
}

func (r *SoftwareRenderer) TextureCreate(pixels []uint8, width, height int) (Texture, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrTextureSize, width, height, len(pixels))
	}
	src := &image.RGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return &softwareTexture{buf: gg.ImageBufFromImage(src)}, nil
}

func (r *SoftwareRenderer) BeginFrame(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("renderer: invalid frame size %dx%d", width, height)
	}
	if r.context == nil || r.context.Width() != width || r.context.Height() != height {
		r.context = gg.NewContext(width, height)
		r.context.SetFont(r.face)
	}
	r.context.ClearWithColor(clearColour)
	r.inFrame = true
	return nil
}

func (r *SoftwareRenderer) DrawTexture(texture Texture, dst math.Rect, opacity float64) {
	if !r.inFrame {
		return
	}
	st, ok := texture.(*softwareTexture)
	if !ok {
		core.LogWarn("texture of type %T was not created by the software renderer", texture)
		return
	}
	// gg falls back to the source size for a zero destination size.
	if dst.Width() < 1 || dst.Height() < 1 {
		return
	}
	r.context.DrawImageEx(st.buf, gg.DrawImageOptions{
		X:             float64(dst.Min.X),
		Y:             float64(dst.Min.Y),
		DstWidth:      float64(dst.Width()),
		DstHeight:     float64(dst.Height()),
		Interpolation: gg.InterpBilinear,
		Opacity:       opacity,
		BlendMode:     gg.BlendNormal,
	})
}

func (r *SoftwareRenderer) DrawText(s string, x, y float64) {
	if !r.inFrame {
		return
	}
	r.context.SetRGB(0.9, 0.9, 0.9)
	r.context.DrawString(s, x, y)
}

func (r *SoftwareRenderer) EndFrame() (*image.RGBA, error) {
	if !r.inFrame {
		return nil, ErrFrameNotActive
	}
	r.inFrame = false
	frame, ok := r.context.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("renderer: unexpected frame type %T", r.context.Image())
	}
	return frame, nil
}
