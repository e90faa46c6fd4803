package systems

import (
	"cmp"
	"errors"
	"time"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/lightbox/engine/assets"
	"github.com/spaghettifunk/lightbox/engine/containers"
	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/renderer"
)

// Dispatcher is the part of the decode pool the scheduler talks to.
type Dispatcher interface {
	Submit(req Request) error
	Results() <-chan Result
}

type LoadState uint8

const (
	LoadStateUnrequested LoadState = iota
	LoadStateRequested
	LoadStateResolved
	// LoadStateExpired is terminal: the request outlived its TTL and the id
	// is never requested again.
	LoadStateExpired
)

func (s LoadState) String() string {
	switch s {
	case LoadStateUnrequested:
		return "unrequested"
	case LoadStateRequested:
		return "requested"
	case LoadStateResolved:
		return "resolved"
	case LoadStateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

type TaskManagerConfig struct {
	/** @brief Maximum textures created per Update. 0 means no limit. */
	MaxUploadsPerFrame int
	/**
	 * @brief How long a request may stay unresolved before it expires.
	 * 0 keeps failed requests in flight forever.
	 */
	RequestTTL time.Duration
}

type pendingLoad struct {
	seq         uint64
	requestedAt time.Time
}

/**
 * @brief Coordinates image loads for the presentation goroutine. It
 * de-duplicates requests, submits them without blocking and turns finished
 * decodes into textures once per frame. Not safe for concurrent use.
 */
type TaskManager struct {
	config     TaskManagerConfig
	dispatcher Dispatcher

	inFlight map[assets.EntityID]pendingLoad
	resolved map[assets.EntityID]struct{}
	expired  map[assets.EntityID]struct{}
	// requests the dispatcher had no room for, oldest first
	backlog *containers.RingQueue[LoadRequest]
	nextSeq uint64

	now func() time.Time
}

func NewTaskManager(config TaskManagerConfig, dispatcher Dispatcher) *TaskManager {
	if config.MaxUploadsPerFrame < 0 {
		config.MaxUploadsPerFrame = 0
	}
	return &TaskManager{
		config:     config,
		dispatcher: dispatcher,
		inFlight:   make(map[assets.EntityID]pendingLoad),
		resolved:   make(map[assets.EntityID]struct{}),
		expired:    make(map[assets.EntityID]struct{}),
		backlog:    containers.NewRingQueue[LoadRequest](8),
		now:        time.Now,
	}
}

func (tm *TaskManager) State(id assets.EntityID) LoadState {
	if _, ok := tm.resolved[id]; ok {
		return LoadStateResolved
	}
	if _, ok := tm.inFlight[id]; ok {
		return LoadStateRequested
	}
	if _, ok := tm.expired[id]; ok {
		return LoadStateExpired
	}
	return LoadStateUnrequested
}

/**
 * @brief Requests a decode of path for id unless one is already in flight,
 * finished or expired. Never blocks and never reports failure.
 */
func (tm *TaskManager) Load(id assets.EntityID, path string) {
	if tm.State(id) != LoadStateUnrequested {
		return
	}

	tm.inFlight[id] = pendingLoad{seq: tm.nextSeq, requestedAt: tm.now()}
	tm.nextSeq++

	req := LoadRequest{ID: id, Path: path}
	// keep submission order: nothing may overtake what is already parked
	if !tm.backlog.IsEmpty() || !tm.submit(req) {
		tm.backlog.Enqueue(req)
	}
}

// submit reports false when the dispatcher had no room and req must be
// retried later. A closed pool drops req and forgets the id.
func (tm *TaskManager) submit(req LoadRequest) bool {
	err := tm.dispatcher.Submit(req)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrQueueFull):
		return false
	default:
		core.LogWarn("dropping load of %d: %s", req.ID, err.Error())
		delete(tm.inFlight, req.ID)
		return true
	}
}

func (tm *TaskManager) flushBacklog() {
	for !tm.backlog.IsEmpty() {
		req, _ := tm.backlog.Peek()
		// expired while parked
		if _, ok := tm.inFlight[req.ID]; ok && !tm.submit(req) {
			return
		}
		tm.backlog.Dequeue()
	}
}

/**
 * @brief Runs once per frame on the presentation goroutine. Flushes parked
 * requests, then drains every result that is ready (up to the upload
 * budget) into the registry without waiting for more.
 */
func (tm *TaskManager) Update(registry *assets.Registry, factory renderer.TextureFactory) {
	tm.flushBacklog()

	uploads := 0
	results := tm.dispatcher.Results()
drain:
	for tm.config.MaxUploadsPerFrame == 0 || uploads < tm.config.MaxUploadsPerFrame {
		select {
		case res, ok := <-results:
			if !ok {
				break drain
			}
			if tm.apply(res, registry, factory) {
				uploads++
			}
		default:
			break drain
		}
	}

	tm.expire()
}

// apply reports whether a texture creation was attempted.
func (tm *TaskManager) apply(res Result, registry *assets.Registry, factory renderer.TextureFactory) bool {
	switch res := res.(type) {
	case LoadResult:
		if _, ok := tm.expired[res.ID]; ok {
			core.LogDebug("discarding late result for expired image %d", res.ID)
			return false
		}
		tex, err := factory.TextureCreate(res.Pixels, int(res.Width), int(res.Height))
		if err != nil {
			core.LogError("failed to create texture for image %d: %s", res.ID, err.Error())
			return true
		}
		registry.InsertImage(res.ID, tex)
		delete(tm.inFlight, res.ID)
		tm.resolved[res.ID] = struct{}{}
		return true
	default:
		core.LogError("unknown result type %T", res)
		return false
	}
}

func (tm *TaskManager) expire() {
	if tm.config.RequestTTL <= 0 {
		return
	}
	now := tm.now()
	for id, p := range tm.inFlight {
		if now.Sub(p.requestedAt) < tm.config.RequestTTL {
			continue
		}
		core.LogWarn("image %d did not load within %s, giving up", id, tm.config.RequestTTL)
		delete(tm.inFlight, id)
		tm.expired[id] = struct{}{}
	}
}

// IsIdle reports whether no request is waiting for a result.
func (tm *TaskManager) IsIdle() bool {
	return len(tm.inFlight) == 0
}

// InFlight lists pending ids, oldest request first.
func (tm *TaskManager) InFlight() []assets.EntityID {
	ids := make([]assets.EntityID, 0, len(tm.inFlight))
	for id := range tm.inFlight {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b assets.EntityID) int {
		return cmp.Compare(tm.inFlight[a].seq, tm.inFlight[b].seq)
	})
	return ids
}
