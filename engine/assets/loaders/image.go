package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// RGBA_CHANNEL_COUNT is the only pixel layout loaders produce.
const RGBA_CHANNEL_COUNT uint8 = 4

var ErrEmptyImage = errors.New("image has no pixels")

type decodeFunc func(io.Reader) (image.Image, error)

// TGA has no magic number, so codecs are picked by extension instead of
// letting image.Decode sniff the header.
var decoders = map[string]decodeFunc{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

/**
 * @brief Decoded pixels in tightly packed 8-bit RGBA (alpha premultiplied,
 * stride = Width*4). Safe to hand across goroutines; never mutated.
 */
type ImageData struct {
	ChannelCount uint8
	Width        uint32
	Height       uint32
	Pixels       []uint8
}

// ImageLoader decodes any registered codec to RGBA. It holds no state and is
// safe for concurrent use by decode workers.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string) (*ImageData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := decode(bufio.NewReader(file), path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode %s: %w", path, ErrEmptyImage)
	}

	rgba := toRGBA(img)
	return &ImageData{
		ChannelCount: RGBA_CHANNEL_COUNT,
		Width:        uint32(b.Dx()),
		Height:       uint32(b.Dy()),
		Pixels:       rgba.Pix,
	}, nil
}

func decode(r io.Reader, path string) (image.Image, error) {
	if fn, ok := decoders[strings.ToLower(filepath.Ext(path))]; ok {
		return fn(r)
	}
	img, _, err := image.Decode(r)
	return img, err
}

// toRGBA returns img as a zero-origin RGBA image with a tight stride.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == b.Dx()*4 {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
