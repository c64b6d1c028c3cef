package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/fadilmartias/resume-parser/internal/repository"
	"github.com/fadilmartias/resume-parser/internal/testutil"
	"github.com/fadilmartias/resume-parser/internal/worker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// inlineScheduler runs every task before Submit returns.
type inlineScheduler struct {
	timeout time.Duration
}

func (s inlineScheduler) Submit(t worker.Task) error {
	timeout := s.timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	t(ctx)
	return nil
}

// heldScheduler keeps tasks until the test releases them.
type heldScheduler struct {
	mu    sync.Mutex
	tasks []worker.Task
}

func (s *heldScheduler) Submit(t worker.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
	return nil
}

func (s *heldScheduler) runAll() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, t := range tasks {
		t(context.Background())
	}
}

type rejectingScheduler struct {
	err error
}

func (s rejectingScheduler) Submit(worker.Task) error {
	return s.err
}

type fakeExtractor struct {
	resume model.Resume
	err    error
	delay  time.Duration
	panics bool

	mu    sync.Mutex
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, filename string, content []byte) (model.Resume, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.panics {
		panic("extractor exploded")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return model.Resume{}, ctx.Err()
		}
	}
	if f.err != nil {
		return model.Resume{}, f.err
	}
	return f.resume, nil
}

func sampleResume() model.Resume {
	return model.Resume{
		PersonalInfo: model.PersonalInfo{FullName: "Ada Lovelace", Email: "ada@example.com"},
		Skills:       []string{"Python", "SQL", "Go"},
		Projects:     []model.Project{{Name: "Analytical Engine"}},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewTestDB(t)
}

// seedCompletedResume stores a parsing job that already finished.
func seedCompletedResume(t *testing.T, db *gorm.DB, resume model.Resume) *model.ParsingJob {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewParsingJobRepository(db)

	job := &model.ParsingJob{Filename: "cv.pdf", Status: model.StatusPending}
	require.NoError(t, repo.Create(ctx, job))
	moved, err := repo.MarkProcessing(ctx, job.ID)
	require.NoError(t, err)
	require.True(t, moved)
	moved, err = repo.Complete(ctx, job.ID, resume)
	require.NoError(t, err)
	require.True(t, moved)
	return job
}

func newParsingUsecase(t *testing.T, db *gorm.DB, extractor *fakeExtractor, scheduler Scheduler) *ParsingUsecase {
	t.Helper()
	return NewParsingUsecase(repository.NewParsingJobRepository(db), extractor, scheduler, 1<<20, zaptest.NewLogger(t))
}
