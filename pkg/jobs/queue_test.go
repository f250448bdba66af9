package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var processed int32
	q := NewQueue("test", func(_ context.Context, job Job) error {
		atomic.AddInt32(&processed, 1)
		return nil
	}, QueueConfig{Workers: 2})

	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{ID: "job", Type: "noop"}))
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&processed) == 5
	}, time.Second, 5*time.Millisecond)
}

func TestQueueDoesNotRetryFailedJobs(t *testing.T) {
	var attempts int32
	q := NewQueue("test", func(_ context.Context, job Job) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("boom")
	}, QueueConfig{Workers: 1})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1", Type: "noop"}))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&attempts) == 1
	}, time.Second, 5*time.Millisecond)
	// Give a would-be retry time to show up.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "early"}))
}

func TestQueueEnqueueSetsTimestamp(t *testing.T) {
	seen := make(chan Job, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		seen <- job
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job-1"}))
	select {
	case job := <-seen:
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}
}
