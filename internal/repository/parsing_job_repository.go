package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ParsingJobRepository struct {
	db *gorm.DB
}

func NewParsingJobRepository(db *gorm.DB) *ParsingJobRepository {
	return &ParsingJobRepository{db}
}

func (r *ParsingJobRepository) Create(ctx context.Context, job *model.ParsingJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *ParsingJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ParsingJob, error) {
	var job model.ParsingJob
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ParsingJobRepository) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	return transition(ctx, r.db, &model.ParsingJob{}, id,
		[]model.JobStatus{model.StatusPending},
		map[string]any{
			"status":   model.StatusProcessing,
			"progress": model.ProgressProcessing,
		})
}

func (r *ParsingJobRepository) Complete(ctx context.Context, id uuid.UUID, resume model.Resume) (bool, error) {
	return transition(ctx, r.db, &model.ParsingJob{}, id,
		[]model.JobStatus{model.StatusProcessing},
		map[string]any{
			"status":       model.StatusCompleted,
			"progress":     model.ProgressCompleted,
			"result":       datatypes.NewJSONType(resume),
			"demo":         resume.Demo,
			"completed_at": time.Now(),
		})
}

// Fail records a terminal error. Pending jobs may fail directly when they
// could not be scheduled.
func (r *ParsingJobRepository) Fail(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	return transition(ctx, r.db, &model.ParsingJob{}, id,
		[]model.JobStatus{model.StatusPending, model.StatusProcessing},
		map[string]any{
			"status":        model.StatusError,
			"progress":      0,
			"error_message": message,
			"completed_at":  time.Now(),
		})
}

// FailUnfinished moves every non-terminal job to error. Used at startup for
// jobs whose worker died with the previous process.
func (r *ParsingJobRepository) FailUnfinished(ctx context.Context, message string) (int64, error) {
	return failUnfinished(ctx, r.db, &model.ParsingJob{}, message)
}
