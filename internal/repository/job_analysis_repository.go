package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobAnalysisRepository struct {
	db *gorm.DB
}

func NewJobAnalysisRepository(db *gorm.DB) *JobAnalysisRepository {
	return &JobAnalysisRepository{db}
}

func (r *JobAnalysisRepository) Create(ctx context.Context, analysis *model.JobAnalysis) error {
	return r.db.WithContext(ctx).Create(analysis).Error
}

func (r *JobAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.JobAnalysis, error) {
	var a model.JobAnalysis
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *JobAnalysisRepository) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	return transition(ctx, r.db, &model.JobAnalysis{}, id,
		[]model.JobStatus{model.StatusPending},
		map[string]any{
			"status":   model.StatusProcessing,
			"progress": model.ProgressProcessing,
		})
}

// Complete stores the parsed description. embedding may be nil when no
// embedder is configured or embedding failed.
func (r *JobAnalysisRepository) Complete(ctx context.Context, id uuid.UUID, jd model.JobDescription, rawText string, embedding []float32) (bool, error) {
	updates := map[string]any{
		"status":       model.StatusCompleted,
		"progress":     model.ProgressCompleted,
		"result":       datatypes.NewJSONType(jd),
		"raw_text":     rawText,
		"demo":         jd.Demo,
		"completed_at": time.Now(),
	}
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		updates["embedding"] = &v
	}
	return transition(ctx, r.db, &model.JobAnalysis{}, id,
		[]model.JobStatus{model.StatusProcessing}, updates)
}

func (r *JobAnalysisRepository) Fail(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	return transition(ctx, r.db, &model.JobAnalysis{}, id,
		[]model.JobStatus{model.StatusPending, model.StatusProcessing},
		map[string]any{
			"status":        model.StatusError,
			"progress":      0,
			"error_message": message,
			"completed_at":  time.Now(),
		})
}

func (r *JobAnalysisRepository) FailUnfinished(ctx context.Context, message string) (int64, error) {
	return failUnfinished(ctx, r.db, &model.JobAnalysis{}, message)
}

// SearchSimilar ranks completed analyses by L2 distance to embedding.
// Requires PostgreSQL with the pgvector extension.
func (r *JobAnalysisRepository) SearchSimilar(ctx context.Context, embedding []float32, topK int) ([]model.JobAnalysis, error) {
	var analyses []model.JobAnalysis
	vec := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).Raw(`
        SELECT *
        FROM job_analyses
        WHERE status = ? AND embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, model.StatusCompleted, vec, topK).Scan(&analyses).Error

	return analyses, err
}
