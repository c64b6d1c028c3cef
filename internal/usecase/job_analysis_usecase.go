package usecase

import (
	"context"
	"fmt"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/dto"
	"github.com/fadilmartias/resume-parser/internal/matcher"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/fadilmartias/resume-parser/internal/repository"
	"github.com/fadilmartias/resume-parser/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var jobDescriptionExtensions = []string{".pdf"}

const maxSimilarJobs = 20

type JobAnalysisUsecase struct {
	repo           *repository.JobAnalysisRepository
	resumes        *ParsingUsecase
	text           TextExtractor
	parser         service.JobParserInterface
	embedder       service.EmbedderInterface
	scheduler      Scheduler
	maxUploadBytes int64
	log            *zap.Logger
}

// NewJobAnalysisUsecase wires the job-description pipeline. embedder may be
// nil, in which case analyses carry no embedding and SimilarJobs is
// unavailable.
func NewJobAnalysisUsecase(
	repo *repository.JobAnalysisRepository,
	resumes *ParsingUsecase,
	text TextExtractor,
	parser service.JobParserInterface,
	embedder service.EmbedderInterface,
	scheduler Scheduler,
	maxUploadBytes int64,
	log *zap.Logger,
) *JobAnalysisUsecase {
	return &JobAnalysisUsecase{
		repo:           repo,
		resumes:        resumes,
		text:           text,
		parser:         parser,
		embedder:       embedder,
		scheduler:      scheduler,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

func (uc *JobAnalysisUsecase) Submit(ctx context.Context, filename string, content []byte) (*model.JobAnalysis, error) {
	if err := validateUpload(filename, content, uc.maxUploadBytes, jobDescriptionExtensions...); err != nil {
		return nil, err
	}

	analysis := &model.JobAnalysis{
		Filename: filename,
		Status:   model.StatusPending,
		Progress: model.ProgressPending,
	}
	if err := uc.repo.Create(ctx, analysis); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "create job analysis")
	}

	id := analysis.ID
	err := uc.scheduler.Submit(func(taskCtx context.Context) {
		uc.process(taskCtx, id, content)
	})
	if err != nil {
		uc.log.Warn("could not schedule job analysis", zap.String("analysis_id", id.String()), zap.Error(err))
		if _, ferr := uc.repo.Fail(ctx, id, "could not schedule analysis: "+err.Error()); ferr != nil {
			uc.log.Error("failed to record scheduling failure", zap.String("analysis_id", id.String()), zap.Error(ferr))
		}
		return nil, busyError(err)
	}

	uc.log.Info("job description submitted", zap.String("analysis_id", id.String()), zap.String("filename", filename))
	return analysis, nil
}

func (uc *JobAnalysisUsecase) process(ctx context.Context, id uuid.UUID, content []byte) {
	log := uc.log.With(zap.String("analysis_id", id.String()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("job analysis panicked", zap.Any("panic", r))
			uc.fail(ctx, id, fmt.Sprintf("internal error during analysis: %v", r))
		}
	}()

	moved, err := uc.repo.MarkProcessing(ctx, id)
	if err != nil {
		log.Error("mark processing failed", zap.Error(err))
		uc.fail(ctx, id, "could not start analysis")
		return
	}
	if !moved {
		log.Warn("analysis is no longer pending, skipping")
		return
	}

	text, err := uc.text.ExtractText(ctx, content)
	if err != nil {
		log.Warn("pdf text extraction failed", zap.Error(err))
		uc.fail(ctx, id, "could not extract text from PDF: "+failureMessage(err))
		return
	}

	jd, err := uc.parser.ParseJobDescription(ctx, text)
	if err != nil {
		log.Warn("job description parsing failed", zap.Error(err))
		uc.fail(ctx, id, failureMessage(err))
		return
	}
	jd.Normalize()

	embedding := uc.embed(ctx, log, text)

	wctx, cancel := detached(ctx)
	defer cancel()
	if _, err := uc.repo.Complete(wctx, id, jd, text, embedding); err != nil {
		log.Error("store analysis failed", zap.Error(err))
		uc.fail(ctx, id, "could not store analysis result")
		return
	}
	log.Info("job description analysed",
		zap.Bool("demo", jd.Demo),
		zap.Int("required_skills", len(jd.RequiredSkills)),
		zap.Bool("embedded", embedding != nil))
}

// embed is best effort: an analysis without an embedding is still usable
// for skill matching.
func (uc *JobAnalysisUsecase) embed(ctx context.Context, log *zap.Logger, text string) []float32 {
	if uc.embedder == nil {
		return nil
	}
	embedding, err := uc.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		log.Warn("embedding failed", zap.Error(err))
		return nil
	}
	if len(embedding) != model.EmbeddingDimensions {
		log.Warn("unexpected embedding size", zap.Int("dimensions", len(embedding)))
		return nil
	}
	return embedding
}

func (uc *JobAnalysisUsecase) fail(ctx context.Context, id uuid.UUID, message string) {
	wctx, cancel := detached(ctx)
	defer cancel()
	if _, err := uc.repo.Fail(wctx, id, message); err != nil {
		uc.log.Error("record failure failed", zap.String("analysis_id", id.String()), zap.Error(err))
	}
}

func (uc *JobAnalysisUsecase) GetStatus(ctx context.Context, rawID string) (*model.JobAnalysis, error) {
	id, err := parseID(rawID, "job analysis")
	if err != nil {
		return nil, err
	}
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "job analysis", id)
	}
	return a, nil
}

func (uc *JobAnalysisUsecase) GetJobDescription(ctx context.Context, rawID string) (*model.JobAnalysis, model.JobDescription, error) {
	a, err := uc.GetStatus(ctx, rawID)
	if err != nil {
		return nil, model.JobDescription{}, err
	}
	if err := readyError("job analysis", a.ID, a.Status, a.ErrorMessage); err != nil {
		return a, model.JobDescription{}, err
	}
	jd := a.Result.Data()
	jd.Normalize()
	return a, jd, nil
}

// AnalyzeSkills matches a parsed résumé against a parsed job description.
// Both must be completed.
func (uc *JobAnalysisUsecase) AnalyzeSkills(ctx context.Context, rawJobID, rawAnalysisID string) (dto.SkillAnalysisDTO, error) {
	job, resume, err := uc.resumes.GetResult(ctx, rawJobID)
	if err != nil {
		return dto.SkillAnalysisDTO{}, err
	}
	analysis, jd, err := uc.GetJobDescription(ctx, rawAnalysisID)
	if err != nil {
		return dto.SkillAnalysisDTO{}, err
	}

	result := matcher.Match(resume.Skills, jd.RequiredSkills, jd.PreferredSkills)

	uc.log.Info("skills analysed",
		zap.String("job_id", job.ID.String()),
		zap.String("analysis_id", analysis.ID.String()),
		zap.Int("overall", result.OverallMatchPercentage))

	return dto.SkillAnalysisDTO{
		ResumeInfo: dto.ResumeInfoDTO{
			JobID:    job.ID,
			Filename: job.Filename,
			Skills:   resume.Skills,
		},
		JobInfo: dto.JobInfoDTO{
			AnalysisID:      analysis.ID,
			JobTitle:        jd.JobTitle,
			Company:         jd.Company,
			RequiredSkills:  jd.RequiredSkills,
			PreferredSkills: jd.PreferredSkills,
		},
		MatchAnalysis:   result,
		Recommendations: matcher.Recommend(result),
	}, nil
}

// SimilarJobs ranks analysed job descriptions by embedding distance to the
// résumé and scores each one with the skill matcher.
func (uc *JobAnalysisUsecase) SimilarJobs(ctx context.Context, rawJobID string, limit int) ([]dto.SimilarJobDTO, error) {
	if uc.embedder == nil {
		return nil, apperror.New(apperror.KindUnavailable, "similar job search needs an embedding provider")
	}
	if limit < 1 || limit > maxSimilarJobs {
		limit = 5
	}

	_, resume, err := uc.resumes.GetResult(ctx, rawJobID)
	if err != nil {
		return nil, err
	}

	embedding, err := uc.embedder.GenerateEmbedding(ctx, resume.ContextText())
	if err != nil {
		return nil, apperror.Upstream(err, "embed resume")
	}

	analyses, err := uc.repo.SearchSimilar(ctx, embedding, limit)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, err, "search similar jobs")
	}

	out := make([]dto.SimilarJobDTO, 0, len(analyses))
	for _, a := range analyses {
		jd := a.Result.Data()
		jd.Normalize()
		out = append(out, dto.SimilarJobDTO{
			AnalysisID:      a.ID,
			JobTitle:        jd.JobTitle,
			Company:         jd.Company,
			RequiredSkills:  jd.RequiredSkills,
			PreferredSkills: jd.PreferredSkills,
			Match:           matcher.Match(resume.Skills, jd.RequiredSkills, jd.PreferredSkills).OverallMatchPercentage,
		})
	}
	return out, nil
}

func (uc *JobAnalysisUsecase) RecoverUnfinished(ctx context.Context) (int64, error) {
	n, err := uc.repo.FailUnfinished(ctx, RestartMessage)
	if err != nil {
		return 0, fmt.Errorf("recover job analyses: %w", err)
	}
	if n > 0 {
		uc.log.Warn("failed orphaned job analyses", zap.Int64("count", n))
	}
	return n, nil
}
