package systems

import (
	"errors"
	"image"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lightbox/engine/assets"
	"github.com/spaghettifunk/lightbox/engine/core"
	"github.com/spaghettifunk/lightbox/engine/renderer"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

type fakeDispatcher struct {
	submitted []Request
	results   chan Result
	// errs is consumed one per Submit call; nil entries and an empty slice succeed.
	errs []error
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{results: make(chan Result, 64)}
}

func (d *fakeDispatcher) Submit(req Request) error {
	if len(d.errs) > 0 {
		err := d.errs[0]
		d.errs = d.errs[1:]
		if err != nil {
			return err
		}
	}
	d.submitted = append(d.submitted, req)
	return nil
}

func (d *fakeDispatcher) Results() <-chan Result {
	return d.results
}

func (d *fakeDispatcher) submittedIDs() []assets.EntityID {
	ids := make([]assets.EntityID, 0, len(d.submitted))
	for _, req := range d.submitted {
		ids = append(ids, req.(LoadRequest).ID)
	}
	return ids
}

type fakeTexture struct {
	width, height int
}

func (t *fakeTexture) Size() (int, int) { return t.width, t.height }

func (t *fakeTexture) Image() image.Image {
	return image.NewRGBA(image.Rect(0, 0, t.width, t.height))
}

type fakeFactory struct {
	created int
	err     error
}

func (f *fakeFactory) TextureCreate(pixels []uint8, width, height int) (renderer.Texture, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created++
	return &fakeTexture{width: width, height: height}, nil
}

func newRegistry(t *testing.T, count int) *assets.Registry {
	t.Helper()
	registry := assets.NewRegistry()
	for i := 0; i < count; i++ {
		registry.Register(string(rune('a'+i)) + ".png")
	}
	return registry
}

func loadResult(id assets.EntityID) LoadResult {
	return LoadResult{ID: id, Pixels: make([]uint8, 4), Width: 1, Height: 1}
}

func TestTaskManagerLoadIsIdempotent(t *testing.T) {
	d := newFakeDispatcher()
	tm := NewTaskManager(TaskManagerConfig{}, d)

	tm.Load(0, "a.png")
	tm.Load(0, "a.png")
	tm.Load(0, "a.png")

	assert.Len(t, d.submitted, 1)
	assert.Equal(t, LoadStateRequested, tm.State(0))
	assert.False(t, tm.IsIdle())
}

func TestTaskManagerUpdateResolves(t *testing.T) {
	d := newFakeDispatcher()
	factory := &fakeFactory{}
	registry := newRegistry(t, 2)
	tm := NewTaskManager(TaskManagerConfig{}, d)

	tm.Load(1, "b.png")
	d.results <- loadResult(1)
	tm.Update(registry, factory)

	tex, ok := registry.ImageOf(1)
	require.True(t, ok)
	w, h := tex.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, LoadStateResolved, tm.State(1))
	assert.True(t, tm.IsIdle())

	// a resolved id is never requested again
	tm.Load(1, "b.png")
	assert.Len(t, d.submitted, 1)
}

func TestTaskManagerUpdateNeverBlocks(t *testing.T) {
	d := newFakeDispatcher()
	registry := newRegistry(t, 1)
	tm := NewTaskManager(TaskManagerConfig{}, d)
	tm.Load(0, "a.png")

	done := make(chan struct{})
	go func() {
		tm.Update(registry, &fakeFactory{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Update blocked on an empty result channel")
	}
	assert.Equal(t, LoadStateRequested, tm.State(0))
	_, ok := registry.ImageOf(0)
	assert.False(t, ok)
}

func TestTaskManagerDrainsEveryReadyResult(t *testing.T) {
	d := newFakeDispatcher()
	factory := &fakeFactory{}
	registry := newRegistry(t, 5)
	tm := NewTaskManager(TaskManagerConfig{}, d)

	for id := assets.EntityID(0); id < 5; id++ {
		tm.Load(id, "")
		d.results <- loadResult(id)
	}
	tm.Update(registry, factory)

	assert.Equal(t, 5, factory.created)
	assert.Equal(t, 5, registry.LoadedCount())
	assert.True(t, tm.IsIdle())
}

func TestTaskManagerOrderIndependent(t *testing.T) {
	drain := func(order []assets.EntityID) *assets.Registry {
		d := newFakeDispatcher()
		registry := newRegistry(t, 4)
		tm := NewTaskManager(TaskManagerConfig{}, d)
		for id := assets.EntityID(0); id < 4; id++ {
			tm.Load(id, "")
		}
		for _, id := range order {
			d.results <- LoadResult{ID: id, Pixels: make([]uint8, int(id+1)*4), Width: uint32(id + 1), Height: 1}
		}
		tm.Update(registry, &fakeFactory{})
		assert.True(t, tm.IsIdle())
		return registry
	}

	forward := drain([]assets.EntityID{0, 1, 2, 3})
	reversed := drain([]assets.EntityID{3, 2, 1, 0})

	require.Equal(t, forward.LoadedCount(), reversed.LoadedCount())
	for id := assets.EntityID(0); id < 4; id++ {
		a, ok := forward.ImageOf(id)
		require.True(t, ok)
		b, ok := reversed.ImageOf(id)
		require.True(t, ok)
		assert.Equal(t, a, b)
	}
}

func TestTaskManagerUploadBudget(t *testing.T) {
	d := newFakeDispatcher()
	factory := &fakeFactory{}
	registry := newRegistry(t, 5)
	tm := NewTaskManager(TaskManagerConfig{MaxUploadsPerFrame: 2}, d)

	for id := assets.EntityID(0); id < 5; id++ {
		tm.Load(id, "")
		d.results <- loadResult(id)
	}

	tm.Update(registry, factory)
	assert.Equal(t, 2, registry.LoadedCount())
	tm.Update(registry, factory)
	assert.Equal(t, 4, registry.LoadedCount())
	tm.Update(registry, factory)
	assert.Equal(t, 5, registry.LoadedCount())
	assert.True(t, tm.IsIdle())
}

func TestTaskManagerFailedDecodeStaysRequested(t *testing.T) {
	d := newFakeDispatcher()
	registry := newRegistry(t, 1)
	tm := NewTaskManager(TaskManagerConfig{}, d)

	// a failed decode produces no result, so nothing ever arrives
	tm.Load(0, "a.png")
	for i := 0; i < 3; i++ {
		tm.Update(registry, &fakeFactory{})
		tm.Load(0, "a.png")
	}

	assert.Equal(t, LoadStateRequested, tm.State(0))
	assert.Len(t, d.submitted, 1)
}

func TestTaskManagerFactoryErrorLeavesIDRequested(t *testing.T) {
	d := newFakeDispatcher()
	registry := newRegistry(t, 1)
	tm := NewTaskManager(TaskManagerConfig{}, d)

	tm.Load(0, "a.png")
	d.results <- loadResult(0)
	tm.Update(registry, &fakeFactory{err: errors.New("out of memory")})

	_, ok := registry.ImageOf(0)
	assert.False(t, ok)
	assert.Equal(t, LoadStateRequested, tm.State(0))
}

func TestTaskManagerQueueFullParksRequests(t *testing.T) {
	d := newFakeDispatcher()
	d.errs = []error{ErrQueueFull}
	registry := newRegistry(t, 3)
	tm := NewTaskManager(TaskManagerConfig{}, d)

	tm.Load(0, "a.png") // rejected, parked
	tm.Load(1, "b.png") // parked behind 0 to keep the order
	tm.Load(2, "c.png")

	assert.Empty(t, d.submitted)
	assert.Equal(t, []assets.EntityID{0, 1, 2}, tm.InFlight())

	tm.Update(registry, &fakeFactory{})
	assert.Equal(t, []assets.EntityID{0, 1, 2}, d.submittedIDs())
}

func TestTaskManagerBacklogStopsAtFirstRejection(t *testing.T) {
	d := newFakeDispatcher()
	d.errs = []error{ErrQueueFull, nil, ErrQueueFull}
	registry := newRegistry(t, 3)
	tm := NewTaskManager(TaskManagerConfig{}, d)

	tm.Load(0, "a.png")
	tm.Load(1, "b.png")
	tm.Load(2, "c.png")

	// first flush gets 0 through, then 1 is rejected and 2 must wait behind it
	tm.Update(registry, &fakeFactory{})
	assert.Equal(t, []assets.EntityID{0}, d.submittedIDs())

	tm.Update(registry, &fakeFactory{})
	assert.Equal(t, []assets.EntityID{0, 1, 2}, d.submittedIDs())
}

func TestTaskManagerPoolClosedDropsRequest(t *testing.T) {
	d := newFakeDispatcher()
	d.errs = []error{ErrPoolClosed}
	tm := NewTaskManager(TaskManagerConfig{}, d)

	tm.Load(0, "a.png")

	assert.Equal(t, LoadStateUnrequested, tm.State(0))
	assert.True(t, tm.IsIdle())
}

func TestTaskManagerRequestTTL(t *testing.T) {
	d := newFakeDispatcher()
	factory := &fakeFactory{}
	registry := newRegistry(t, 2)
	tm := NewTaskManager(TaskManagerConfig{RequestTTL: time.Second}, d)

	now := time.Unix(1000, 0)
	tm.now = func() time.Time { return now }

	tm.Load(0, "a.png")
	now = now.Add(500 * time.Millisecond)
	tm.Load(1, "b.png")

	now = now.Add(600 * time.Millisecond)
	tm.Update(registry, factory)
	assert.Equal(t, LoadStateExpired, tm.State(0))
	assert.Equal(t, LoadStateRequested, tm.State(1))
	assert.Equal(t, []assets.EntityID{1}, tm.InFlight())

	// expired ids are terminal and late results are thrown away
	tm.Load(0, "a.png")
	assert.Len(t, d.submitted, 2)
	d.results <- loadResult(0)
	tm.Update(registry, factory)
	_, ok := registry.ImageOf(0)
	assert.False(t, ok)
	assert.Zero(t, factory.created)
}

func TestTaskManagerInFlightOrder(t *testing.T) {
	d := newFakeDispatcher()
	tm := NewTaskManager(TaskManagerConfig{}, d)

	for _, id := range []assets.EntityID{7, 3, 9, 1} {
		tm.Load(id, "")
	}
	assert.Equal(t, []assets.EntityID{7, 3, 9, 1}, tm.InFlight())
}

func TestLoadStateString(t *testing.T) {
	assert.Equal(t, "unrequested", LoadStateUnrequested.String())
	assert.Equal(t, "requested", LoadStateRequested.String())
	assert.Equal(t, "resolved", LoadStateResolved.String())
	assert.Equal(t, "expired", LoadStateExpired.String())
	assert.Equal(t, "unknown", LoadState(42).String())
}
