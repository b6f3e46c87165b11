package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipelined/rack/bridge"
)

func TestQueue(t *testing.T) {
	q := bridge.NewQueue[int](2)

	require.NoError(t, q.Push(1))
	assert.False(t, q.Full())
	require.NoError(t, q.Push(2))
	assert.True(t, q.Full())
	require.ErrorIs(t, q.Push(3), bridge.ErrBusy)

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueueClose(t *testing.T) {
	q := bridge.NewQueue[int](2)
	require.NoError(t, q.Push(1))
	q.Close()

	require.ErrorIs(t, q.Push(2), bridge.ErrDisconnected)
	// entries queued before close remain poppable
	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestSlidingDropsOldest(t *testing.T) {
	s := bridge.NewSliding[int](2)
	s.Offer(1)
	s.Offer(2)
	s.Offer(3)

	v, ok := s.Poll()
	require.True(t, ok)
	assert.Equal(t, 2, v, "oldest entry is evicted to admit the newest")
	v, ok = s.Poll()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = s.Poll()
	assert.False(t, ok)
}

func TestSlidingPollLatest(t *testing.T) {
	s := bridge.NewSliding[int](4)
	_, ok := s.PollLatest()
	assert.False(t, ok)

	s.Offer(1)
	s.Offer(2)
	s.Offer(3)
	v, ok := s.PollLatest()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = s.PollLatest()
	assert.False(t, ok, "PollLatest drains everything it skips")
}
