package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](4)
	for i := 1; i <= 3; i++ {
		rq.Enqueue(i)
	}
	assert.Equal(t, 3, rq.Len())

	front, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, front)

	for i := 1; i <= 3; i++ {
		v, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.True(t, rq.IsEmpty())
}

func TestRingQueueEmpty(t *testing.T) {
	rq := NewRingQueue[string](0)
	assert.Equal(t, 1, rq.Cap())

	_, err := rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueGrowsAcrossWrap(t *testing.T) {
	rq := NewRingQueue[int](3)
	rq.Enqueue(0)
	rq.Enqueue(1)
	rq.Dequeue()
	// write index has wrapped when the queue fills up
	for i := 2; i <= 6; i++ {
		rq.Enqueue(i)
	}
	assert.Equal(t, 6, rq.Len())
	assert.GreaterOrEqual(t, rq.Cap(), 6)

	for i := 1; i <= 6; i++ {
		v, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}
