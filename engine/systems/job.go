package systems

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/lightbox/engine/assets"
	"github.com/spaghettifunk/lightbox/engine/core"
)

var (
	ErrNoWorkers           = fmt.Errorf("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
	ErrPoolClosed          = errors.New("decode pool is shut down")
	ErrQueueFull           = errors.New("decode queue is full")
)

type PoolConfig struct {
	/** @brief Number of long-lived decode goroutines. */
	Workers int
	/** @brief Capacity of the request channel. 0 makes submission succeed only when a worker is waiting. */
	QueueSize int
}

/**
 * @brief A fixed set of goroutines turning LoadRequests into LoadResults
 * off the presentation goroutine. The request and result channels are the
 * only state shared with the rest of the program.
 */
type DecodePool struct {
	loader   assets.Loader
	requests chan Request
	results  chan Result

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mutex        sync.RWMutex
	closed       bool
	shutdownOnce sync.Once
}

func NewDecodePool(ctx context.Context, config PoolConfig, loader assets.Loader) (*DecodePool, error) {
	if config.Workers <= 0 {
		return nil, ErrNoWorkers
	}
	if config.QueueSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	dp := &DecodePool{
		loader:   loader,
		requests: make(chan Request, config.QueueSize),
		results:  make(chan Result, config.QueueSize+config.Workers),
		ctx:      ctx,
		cancel:   cancel,
		group:    group,
	}

	for i := 0; i < config.Workers; i++ {
		dp.group.Go(dp.work)
	}

	return dp, nil
}

func (dp *DecodePool) work() error {
	for {
		select {
		case <-dp.ctx.Done():
			return nil
		case req := <-dp.requests:
			res := dp.process(req)
			if res == nil {
				continue
			}
			select {
			case dp.results <- res:
			case <-dp.ctx.Done():
				return nil
			}
		}
	}
}

// process decodes one request. Any failure is logged and yields no result.
func (dp *DecodePool) process(req Request) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			core.LogError("decoder panicked: %v", r)
			res = nil
		}
	}()

	switch req := req.(type) {
	case LoadRequest:
		data, err := dp.loader.Load(req.Path)
		if err != nil {
			core.LogError("failed to load image %d from %s: %s", req.ID, req.Path, err.Error())
			return nil
		}
		return LoadResult{
			ID:     req.ID,
			Pixels: data.Pixels,
			Width:  data.Width,
			Height: data.Height,
		}
	default:
		core.LogError("unknown request type %T", req)
		return nil
	}
}

/**
 * @brief Hands req to the workers without blocking.
 * @return ErrPoolClosed once the pool is shut down, ErrQueueFull when the
 * request channel has no room. The request is not queued in either case.
 */
func (dp *DecodePool) Submit(req Request) error {
	dp.mutex.RLock()
	defer dp.mutex.RUnlock()

	if dp.closed || dp.ctx.Err() != nil {
		return ErrPoolClosed
	}
	select {
	case dp.requests <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Results is closed after Shutdown returns.
func (dp *DecodePool) Results() <-chan Result {
	return dp.results
}

/**
 * @brief Stops the workers and waits for them. Requests still queued are
 * dropped. Safe to call more than once.
 */
func (dp *DecodePool) Shutdown() error {
	var err error
	dp.shutdownOnce.Do(func() {
		dp.mutex.Lock()
		dp.closed = true
		dp.mutex.Unlock()

		dp.cancel()
		err = dp.group.Wait()
		close(dp.results)
	})
	return err
}
