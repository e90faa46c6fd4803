package assets

import (
	"github.com/cespare/xxhash/v2"

	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/renderer"
)

// EntityID identifies one discovered asset for the lifetime of the process.
type EntityID uint32

/**
 * @brief Maps entity ids to source paths and, once decoded, to textures.
 * Not safe for concurrent use; it is owned by the presentation goroutine.
 * Entries are never removed.
 */
type Registry struct {
	ids    core.IdentifierSequence
	paths  []string
	images map[EntityID]renderer.Texture
	// keyed by xxhash of the path; a bucket holds every id whose path collides
	index map[uint64][]EntityID
}

func NewRegistry() *Registry {
	return &Registry{
		images: make(map[EntityID]renderer.Texture),
		index:  make(map[uint64][]EntityID),
	}
}

// Register assigns the next id to path.
func (r *Registry) Register(path string) EntityID {
	id := EntityID(r.ids.Next())
	r.paths = append(r.paths, path)

	key := xxhash.Sum64String(path)
	r.index[key] = append(r.index[key], id)
	return id
}

func (r *Registry) PathOf(id EntityID) (string, bool) {
	if int(id) >= len(r.paths) {
		return "", false
	}
	return r.paths[id], true
}

func (r *Registry) ImageOf(id EntityID) (renderer.Texture, bool) {
	tex, ok := r.images[id]
	return tex, ok
}

// InsertImage stores tex for id, replacing any previous texture. Ids that were
// never registered are ignored.
func (r *Registry) InsertImage(id EntityID, tex renderer.Texture) {
	if int(id) >= len(r.paths) {
		core.LogWarn("ignoring image for unregistered entity %d", id)
		return
	}
	r.images[id] = tex
}

// Lookup returns the id previously registered for path.
func (r *Registry) Lookup(path string) (EntityID, bool) {
	for _, id := range r.index[xxhash.Sum64String(path)] {
		if r.paths[id] == path {
			return id, true
		}
	}
	return 0, false
}

func (r *Registry) Count() int {
	return len(r.paths)
}

func (r *Registry) LoadedCount() int {
	return len(r.images)
}
