package usecase

import (
	"context"
	"fmt"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/fadilmartias/resume-parser/internal/repository"
	"github.com/fadilmartias/resume-parser/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var resumeExtensions = []string{".pdf", ".doc", ".docx"}

// ParsingUsecase owns the résumé parsing lifecycle: submission, background
// extraction and the read path for status and results.
type ParsingUsecase struct {
	repo           *repository.ParsingJobRepository
	extractor      service.ResumeExtractorInterface
	scheduler      Scheduler
	maxUploadBytes int64
	log            *zap.Logger
}

func NewParsingUsecase(repo *repository.ParsingJobRepository, extractor service.ResumeExtractorInterface, scheduler Scheduler, maxUploadBytes int64, log *zap.Logger) *ParsingUsecase {
	return &ParsingUsecase{
		repo:           repo,
		extractor:      extractor,
		scheduler:      scheduler,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// Submit stores a pending job and schedules extraction without waiting for it.
func (uc *ParsingUsecase) Submit(ctx context.Context, filename string, content []byte) (*model.ParsingJob, error) {
	if err := validateUpload(filename, content, uc.maxUploadBytes, resumeExtensions...); err != nil {
		return nil, err
	}

	job := &model.ParsingJob{
		Filename: filename,
		Status:   model.StatusPending,
		Progress: model.ProgressPending,
	}
	if err := uc.repo.Create(ctx, job); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "create parsing job")
	}

	id := job.ID
	err := uc.scheduler.Submit(func(taskCtx context.Context) {
		uc.process(taskCtx, id, filename, content)
	})
	if err != nil {
		uc.log.Warn("could not schedule extraction", zap.String("job_id", id.String()), zap.Error(err))
		if _, ferr := uc.repo.Fail(ctx, id, "could not schedule extraction: "+err.Error()); ferr != nil {
			uc.log.Error("failed to record scheduling failure", zap.String("job_id", id.String()), zap.Error(ferr))
		}
		return nil, busyError(err)
	}

	uc.log.Info("resume submitted", zap.String("job_id", id.String()), zap.String("filename", filename), zap.Int("bytes", len(content)))
	return job, nil
}

// process is the extraction worker for one job. It writes exactly one
// terminal state unless the job already left pending.
func (uc *ParsingUsecase) process(ctx context.Context, id uuid.UUID, filename string, content []byte) {
	log := uc.log.With(zap.String("job_id", id.String()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("extraction panicked", zap.Any("panic", r))
			uc.fail(ctx, id, fmt.Sprintf("internal error during extraction: %v", r))
		}
	}()

	moved, err := uc.repo.MarkProcessing(ctx, id)
	if err != nil {
		log.Error("mark processing failed", zap.Error(err))
		uc.fail(ctx, id, "could not start extraction")
		return
	}
	if !moved {
		log.Warn("job is no longer pending, skipping")
		return
	}

	resume, err := uc.extractor.Extract(ctx, filename, content)
	if err != nil {
		log.Warn("extraction failed", zap.Error(err))
		uc.fail(ctx, id, failureMessage(err))
		return
	}
	resume.Normalize()

	wctx, cancel := detached(ctx)
	defer cancel()
	if _, err := uc.repo.Complete(wctx, id, resume); err != nil {
		log.Error("store result failed", zap.Error(err))
		uc.fail(ctx, id, "could not store extraction result")
		return
	}
	log.Info("resume parsed", zap.Bool("demo", resume.Demo), zap.Int("skills", len(resume.Skills)))
}

func (uc *ParsingUsecase) fail(ctx context.Context, id uuid.UUID, message string) {
	wctx, cancel := detached(ctx)
	defer cancel()
	if _, err := uc.repo.Fail(wctx, id, message); err != nil {
		uc.log.Error("record failure failed", zap.String("job_id", id.String()), zap.Error(err))
	}
}

func (uc *ParsingUsecase) GetStatus(ctx context.Context, rawID string) (*model.ParsingJob, error) {
	id, err := parseID(rawID, "job")
	if err != nil {
		return nil, err
	}
	job, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "job", id)
	}
	return job, nil
}

// GetResult returns the parsed résumé of a completed job. Pending and
// processing jobs yield NotReady; failed jobs yield Failed.
func (uc *ParsingUsecase) GetResult(ctx context.Context, rawID string) (*model.ParsingJob, model.Resume, error) {
	job, err := uc.GetStatus(ctx, rawID)
	if err != nil {
		return nil, model.Resume{}, err
	}
	if err := readyError("job", job.ID, job.Status, job.ErrorMessage); err != nil {
		return job, model.Resume{}, err
	}
	resume := job.Result.Data()
	resume.Normalize()
	return job, resume, nil
}

// RecoverUnfinished fails jobs left pending or processing by a previous
// process. Call it once at startup, before the worker pool accepts tasks.
func (uc *ParsingUsecase) RecoverUnfinished(ctx context.Context) (int64, error) {
	n, err := uc.repo.FailUnfinished(ctx, RestartMessage)
	if err != nil {
		return 0, fmt.Errorf("recover parsing jobs: %w", err)
	}
	if n > 0 {
		uc.log.Warn("failed orphaned parsing jobs", zap.Int64("count", n))
	}
	return n, nil
}
