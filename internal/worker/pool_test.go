package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestPool(t *testing.T, cfg Config) *Pool {
	t.Helper()
	p, err := NewPool(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return p
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{Workers: 1, QueueSize: 1, TaskTimeout: time.Second}},
		{name: "no workers", cfg: Config{Workers: 0, QueueSize: 1, TaskTimeout: time.Second}, wantErr: true},
		{name: "no queue", cfg: Config{Workers: 1, QueueSize: 0, TaskTimeout: time.Second}, wantErr: true},
		{name: "no timeout", cfg: Config{Workers: 1, QueueSize: 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPool_RunsTasks(t *testing.T) {
	p := newTestPool(t, Config{Workers: 3, QueueSize: 10, TaskTimeout: time.Second})
	p.Start()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func(ctx context.Context) {
			defer wg.Done()
			ran.Add(1)
		}))
	}
	wg.Wait()

	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int32(10), ran.Load())
	assert.Equal(t, int64(10), p.Metrics().CompletedTasks.Load())
}

func TestPool_QueueFull(t *testing.T) {
	p := newTestPool(t, Config{Workers: 1, QueueSize: 1, TaskTimeout: time.Second})
	// Not started: nothing drains the queue.
	require.NoError(t, p.Submit(func(ctx context.Context) {}))
	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrQueueFull)
}

func TestPool_TaskTimeout(t *testing.T) {
	p := newTestPool(t, Config{Workers: 1, QueueSize: 1, TaskTimeout: 20 * time.Millisecond})
	p.Start()
	defer p.Stop(context.Background())

	errCh := make(chan error, 1)
	require.NoError(t, p.Submit(func(ctx context.Context) {
		<-ctx.Done()
		errCh <- ctx.Err()
	}))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("task context never expired")
	}
}

func TestPool_RecoversPanics(t *testing.T) {
	p := newTestPool(t, Config{Workers: 1, QueueSize: 2, TaskTimeout: time.Second})
	p.Start()

	done := make(chan struct{})
	require.NoError(t, p.Submit(func(ctx context.Context) { panic("boom") }))
	require.NoError(t, p.Submit(func(ctx context.Context) { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panic")
	}
	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int64(1), p.Metrics().PanickedTasks.Load())
}

func TestPool_StopDrainsAndRejects(t *testing.T) {
	p := newTestPool(t, Config{Workers: 1, QueueSize: 5, TaskTimeout: time.Second})

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) { ran.Add(1) }))
	}
	p.Start()

	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, int32(5), ran.Load())
	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrStopped)
	assert.NoError(t, p.Stop(context.Background()))
}

func TestPool_StopDeadline(t *testing.T) {
	p := newTestPool(t, Config{Workers: 1, QueueSize: 1, TaskTimeout: time.Minute})
	p.Start()

	started := make(chan struct{})
	require.NoError(t, p.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Stop(ctx), context.DeadlineExceeded)
}
