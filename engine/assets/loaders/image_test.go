package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestImageLoaderPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(2, 1, color.NRGBA{B: 255, A: 255})
	path := filepath.Join(t.TempDir(), "tiny.png")
	writePNG(t, path, img)

	data, err := (&ImageLoader{}).Load(path)
	require.NoError(t, err)
	assert.Equal(t, RGBA_CHANNEL_COUNT, data.ChannelCount)
	assert.EqualValues(t, 3, data.Width)
	assert.EqualValues(t, 2, data.Height)
	require.Len(t, data.Pixels, 3*2*4)

	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[0:4])
	last := (1*3 + 2) * 4
	assert.Equal(t, []uint8{0, 0, 255, 255}, data.Pixels[last:last+4])
}

func TestImageLoaderConvertsGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 200})
	path := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, path, img)

	data, err := (&ImageLoader{}).Load(path)
	require.NoError(t, err)
	require.Len(t, data.Pixels, 2*2*4)
	assert.Equal(t, []uint8{0, 0, 0, 255}, data.Pixels[0:4])
	assert.Equal(t, []uint8{200, 200, 200, 255}, data.Pixels[12:16])
}

func TestImageLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("definitely not a png"), 0644))

	_, err := (&ImageLoader{}).Load(corrupt)
	assert.Error(t, err)

	_, err = (&ImageLoader{}).Load(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestToRGBAKeepsTightImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, src, toRGBA(src))

	sub := src.SubImage(image.Rect(1, 1, 3, 3))
	out := toRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, 2*4, out.Stride)
}
