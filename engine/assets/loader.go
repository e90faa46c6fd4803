package assets

import "github.com/spaghettifunk/lightbox/engine/assets/loaders"

// Loader decodes the file at path into RGBA pixels. Implementations are
// called from decode workers and must be safe for concurrent use.
type Loader interface {
	Load(path string) (*loaders.ImageData, error)
}

var _ Loader = (*loaders.ImageLoader)(nil)
