package assets

import (
	"image"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lightbox/engine/core"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

type stubTexture struct{}

func (stubTexture) Size() (int, int)   { return 4, 2 }
func (stubTexture) Image() image.Image { return image.NewRGBA(image.Rect(0, 0, 4, 2)) }

func TestRegistryAssignsDenseIDs(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, EntityID(0), r.Register("/photos/a.png"))
	assert.Equal(t, EntityID(1), r.Register("/photos/b.png"))
	assert.Equal(t, 2, r.Count())

	path, ok := r.PathOf(1)
	require.True(t, ok)
	assert.Equal(t, "/photos/b.png", path)

	_, ok = r.PathOf(2)
	assert.False(t, ok)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("/photos/a.png")
	id := r.Register("/photos/b.png")

	got, ok := r.Lookup("/photos/b.png")
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = r.Lookup("/photos/c.png")
	assert.False(t, ok)
}

func TestRegistryImages(t *testing.T) {
	r := NewRegistry()
	id := r.Register("/photos/a.png")

	_, ok := r.ImageOf(id)
	assert.False(t, ok)

	r.InsertImage(id, stubTexture{})
	tex, ok := r.ImageOf(id)
	require.True(t, ok)
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, 1, r.LoadedCount())

	// unregistered ids are ignored
	r.InsertImage(7, stubTexture{})
	_, ok = r.ImageOf(7)
	assert.False(t, ok)
	assert.Equal(t, 1, r.LoadedCount())
}
