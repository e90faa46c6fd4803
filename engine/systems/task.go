package systems

import "github.com/spaghettifunk/lightbox/engine/assets"

// Request is a message on the decode queue. The set of variants is closed:
// only types in this package implement it.
type Request interface {
	isRequest()
}

// Result is a message on the result queue. Closed like Request.
type Result interface {
	isResult()
}

// LoadRequest asks a worker to decode the file at Path for ID.
type LoadRequest struct {
	ID   assets.EntityID
	Path string
}

func (LoadRequest) isRequest() {}

/**
 * @brief A successfully decoded image. Pixels are tightly packed RGBA and
 * belong to the receiver once the result has been taken off the channel.
 * Failed decodes produce no result at all.
 */
type LoadResult struct {
	ID     assets.EntityID
	Pixels []uint8
	Width  uint32
	Height uint32
}

func (LoadResult) isResult() {}
