package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/fadilmartias/resume-parser/internal/repository"
	"github.com/fadilmartias/resume-parser/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fakeText struct {
	text string
	err  error
}

func (f fakeText) ExtractText(ctx context.Context, content []byte) (string, error) {
	return f.text, f.err
}

type fakeParser struct {
	jd  model.JobDescription
	err error
}

func (f fakeParser) ParseJobDescription(ctx context.Context, text string) (model.JobDescription, error) {
	return f.jd, f.err
}

type fakeEmbedder struct {
	embedding []float32
	err       error
	calls     int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.embedding, f.err
}

func newJobAnalysisUsecase(t *testing.T, db *gorm.DB, text TextExtractor, parser service.JobParserInterface, embedder service.EmbedderInterface) *JobAnalysisUsecase {
	t.Helper()
	resumes := newParsingUsecase(t, db, &fakeExtractor{}, inlineScheduler{})
	return NewJobAnalysisUsecase(repository.NewJobAnalysisRepository(db), resumes, text, parser, embedder, inlineScheduler{}, 1<<20, zaptest.NewLogger(t))
}

func TestJobAnalysisDemoParser(t *testing.T) {
	db := newTestDB(t)
	text := fakeText{text: "Senior Backend Engineer. Python, Django, PostgreSQL and Docker required."}
	uc := newJobAnalysisUsecase(t, db, text, service.NewDemoJobParser(), nil)
	ctx := context.Background()

	analysis, err := uc.Submit(ctx, "jd.pdf", []byte("%PDF"))
	require.NoError(t, err)

	got, jd, err := uc.GetJobDescription(ctx, analysis.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Demo)
	assert.Equal(t, text.text, got.RawText)
	assert.Nil(t, got.Embedding)
	assert.Equal(t, "Senior Software Engineer", jd.JobTitle)
	assert.Equal(t, []string{"Python", "Django"}, jd.RequiredSkills)
	assert.Equal(t, []string{"SQL", "PostgreSQL", "Docker"}, jd.PreferredSkills)
}

func TestJobAnalysisOnlyAcceptsPDF(t *testing.T) {
	db := newTestDB(t)
	uc := newJobAnalysisUsecase(t, db, fakeText{}, service.NewDemoJobParser(), nil)

	_, err := uc.Submit(context.Background(), "jd.docx", []byte("doc"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestJobAnalysisFailures(t *testing.T) {
	tests := []struct {
		name    string
		text    fakeText
		parser  fakeParser
		message string
	}{
		{
			name:    "no text",
			text:    fakeText{err: errors.New("no text could be extracted")},
			message: "could not extract text from PDF: no text could be extracted",
		},
		{
			name:    "parser fails",
			text:    fakeText{text: "Go developer"},
			parser:  fakeParser{err: apperror.Upstream(errors.New("status 429"), "openai chat completion")},
			message: "openai chat completion: status 429",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			uc := newJobAnalysisUsecase(t, db, tt.text, tt.parser, nil)
			ctx := context.Background()

			analysis, err := uc.Submit(ctx, "jd.pdf", []byte("%PDF"))
			require.NoError(t, err)

			status, err := uc.GetStatus(ctx, analysis.ID.String())
			require.NoError(t, err)
			assert.Equal(t, model.StatusError, status.Status)
			assert.Equal(t, tt.message, status.ErrorMessage)

			_, _, err = uc.GetJobDescription(ctx, analysis.ID.String())
			assert.True(t, apperror.Is(err, apperror.KindFailed))
		})
	}
}

func TestJobAnalysisEmbeddingIsBestEffort(t *testing.T) {
	tests := []struct {
		name     string
		embedder *fakeEmbedder
	}{
		{name: "embedder error", embedder: &fakeEmbedder{err: errors.New("quota exceeded")}},
		{name: "wrong size", embedder: &fakeEmbedder{embedding: []float32{0.1, 0.2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			parser := fakeParser{jd: model.JobDescription{JobTitle: "Go Engineer", RequiredSkills: []string{"Go"}}}
			uc := newJobAnalysisUsecase(t, db, fakeText{text: "Go"}, parser, tt.embedder)
			ctx := context.Background()

			analysis, err := uc.Submit(ctx, "jd.pdf", []byte("%PDF"))
			require.NoError(t, err)

			got, jd, err := uc.GetJobDescription(ctx, analysis.ID.String())
			require.NoError(t, err)
			assert.Equal(t, "Go Engineer", jd.JobTitle)
			assert.Nil(t, got.Embedding)
			assert.Equal(t, 1, tt.embedder.calls)
		})
	}
}

func TestAnalyzeSkills(t *testing.T) {
	db := newTestDB(t)
	resume := model.Resume{Skills: []string{"Python", "SQL"}}
	job := seedCompletedResume(t, db, resume)

	parser := fakeParser{jd: model.JobDescription{
		JobTitle:        "Data Engineer",
		Company:         "Acme",
		RequiredSkills:  []string{"python"},
		PreferredSkills: []string{"sql", "rust"},
	}}
	uc := newJobAnalysisUsecase(t, db, fakeText{text: "jd"}, parser, nil)
	ctx := context.Background()

	analysis, err := uc.Submit(ctx, "jd.pdf", []byte("%PDF"))
	require.NoError(t, err)

	got, err := uc.AnalyzeSkills(ctx, job.ID.String(), analysis.ID.String())
	require.NoError(t, err)

	assert.Equal(t, job.ID, got.ResumeInfo.JobID)
	assert.Equal(t, "Data Engineer", got.JobInfo.JobTitle)
	assert.Equal(t, 100, got.MatchAnalysis.RequiredSkills.MatchPercentage)
	assert.Equal(t, 50, got.MatchAnalysis.PreferredSkills.MatchPercentage)
	assert.Equal(t, 85, got.MatchAnalysis.OverallMatchPercentage)
	assert.Equal(t, []string{"rust"}, got.Recommendations.NiceToHaveSkills)
}

func TestAnalyzeSkillsRequiresBothCompleted(t *testing.T) {
	db := newTestDB(t)
	job := seedCompletedResume(t, db, sampleResume())
	pending := &model.JobAnalysis{Filename: "jd.pdf", Status: model.StatusPending}
	require.NoError(t, repository.NewJobAnalysisRepository(db).Create(context.Background(), pending))

	uc := newJobAnalysisUsecase(t, db, fakeText{}, fakeParser{}, nil)

	_, err := uc.AnalyzeSkills(context.Background(), job.ID.String(), pending.ID.String())
	assert.True(t, apperror.Is(err, apperror.KindNotReady), "got %v", err)

	_, err = uc.AnalyzeSkills(context.Background(), "bogus", pending.ID.String())
	assert.True(t, apperror.Is(err, apperror.KindNotFound), "got %v", err)
}

func TestSimilarJobsNeedsEmbedder(t *testing.T) {
	db := newTestDB(t)
	job := seedCompletedResume(t, db, sampleResume())
	uc := newJobAnalysisUsecase(t, db, fakeText{}, fakeParser{}, nil)

	_, err := uc.SimilarJobs(context.Background(), job.ID.String(), 5)
	assert.True(t, apperror.Is(err, apperror.KindUnavailable))
}

func TestSimilarJobsEmbedderFailure(t *testing.T) {
	db := newTestDB(t)
	job := seedCompletedResume(t, db, sampleResume())
	embedder := &fakeEmbedder{err: errors.New("deadline exceeded")}
	uc := newJobAnalysisUsecase(t, db, fakeText{}, fakeParser{}, embedder)

	_, err := uc.SimilarJobs(context.Background(), job.ID.String(), 5)
	assert.True(t, apperror.Is(err, apperror.KindUpstream))
}

func TestJobAnalysisRecoverUnfinished(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewJobAnalysisRepository(db)
	stuck := &model.JobAnalysis{Filename: "jd.pdf", Status: model.StatusProcessing}
	require.NoError(t, repo.Create(context.Background(), stuck))

	uc := newJobAnalysisUsecase(t, db, fakeText{}, fakeParser{}, nil)
	n, err := uc.RecoverUnfinished(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.FindByID(context.Background(), stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, RestartMessage, got.ErrorMessage)
}
