package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueRunsSubmittedJob(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("audit", func(_ context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Submit("detect", "payload")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	select {
	case job := <-done:
		assert.Equal(t, id, job.ID)
		assert.Equal(t, "detect", job.Type)
		assert.Equal(t, "payload", job.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
	assert.Eventually(t, func() bool {
		status, ok := q.Status(id)
		return ok && status == StatusSucceeded
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueueRetriesThenFails(t *testing.T) {
	var attempts atomic.Int32
	q := NewQueue("audit", func(context.Context, Job) error {
		attempts.Add(1)
		return errors.New("database unavailable")
	}, QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Submit("detect", nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		status, _ := q.Status(id)
		return status == StatusFailed
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestQueueRejectsWhenNotStarted(t *testing.T) {
	q := NewQueue("audit", func(context.Context, Job) error { return nil }, QueueConfig{})

	_, err := q.Submit("detect", nil)
	assert.Error(t, err)

	q.Start(context.Background())
	q.Stop()
	_, err = q.Submit("detect", nil)
	assert.Error(t, err)
}

func TestQueueUnknownStatus(t *testing.T) {
	q := NewQueue("audit", func(context.Context, Job) error { return nil }, QueueConfig{})
	_, ok := q.Status("missing")
	assert.False(t, ok)
}
