// Package worker runs background extraction tasks on a bounded pool.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	ErrQueueFull = errors.New("task queue is full")
	ErrStopped   = errors.New("worker pool is stopped")
)

// Task receives a context that expires after the pool's task timeout.
type Task func(ctx context.Context)

type Config struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

func (cfg Config) Validate() error {
	if cfg.Workers < 1 {
		return errors.New("workers must be greater than 0")
	}
	if cfg.QueueSize < 1 {
		return errors.New("queue size must be greater than 0")
	}
	if cfg.TaskTimeout <= 0 {
		return errors.New("task timeout must be greater than 0")
	}
	return nil
}

type Metrics struct {
	ActiveWorkers  atomic.Int64
	PendingTasks   atomic.Int64
	CompletedTasks atomic.Int64
	PanickedTasks  atomic.Int64
}

type Pool struct {
	cfg   Config
	log   *zap.Logger
	tasks chan Task

	// ctx is cancelled only when Stop gives up waiting, so queued tasks
	// still drain during a graceful shutdown.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	stopped bool

	metrics Metrics
}

func NewPool(cfg Config, log *zap.Logger) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worker config: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		cfg:    cfg,
		log:    log,
		tasks:  make(chan Task, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (p *Pool) Start() {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Info("worker pool started",
		zap.Int("workers", p.cfg.Workers),
		zap.Int("queue_size", p.cfg.QueueSize),
		zap.Duration("task_timeout", p.cfg.TaskTimeout))
}

// Submit enqueues t without blocking.
func (p *Pool) Submit(t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrStopped
	}
	select {
	case p.tasks <- t:
		p.metrics.PendingTasks.Add(1)
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new tasks and waits for queued ones to finish. When ctx ends
// first, running tasks see their context cancelled and Stop returns ctx.Err().
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}

func (p *Pool) Metrics() *Metrics {
	return &p.metrics
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for t := range p.tasks {
		p.run(id, t)
	}
}

func (p *Pool) run(id int, t Task) {
	p.metrics.PendingTasks.Add(-1)
	p.metrics.ActiveWorkers.Add(1)
	start := time.Now()

	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.TaskTimeout)
	defer func() {
		cancel()
		p.metrics.ActiveWorkers.Add(-1)
		if r := recover(); r != nil {
			p.metrics.PanickedTasks.Add(1)
			p.log.Error("task panicked",
				zap.Int("worker", id),
				zap.Any("panic", r),
				zap.Duration("elapsed", time.Since(start)))
			return
		}
		p.metrics.CompletedTasks.Add(1)
	}()

	t(ctx)
}
