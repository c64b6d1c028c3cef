package repository

import (
	"context"
	"testing"

	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/fadilmartias/resume-parser/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsingJobTransitions(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewParsingJobRepository(db)
	ctx := context.Background()

	job := &model.ParsingJob{Filename: "cv.pdf", Status: model.StatusPending}
	require.NoError(t, repo.Create(ctx, job))
	require.NotEqual(t, "00000000-0000-0000-0000-000000000000", job.ID.String())

	moved, err := repo.Complete(ctx, job.ID, model.Resume{})
	require.NoError(t, err)
	assert.False(t, moved, "pending job cannot complete without processing")

	moved, err = repo.MarkProcessing(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.MarkProcessing(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = repo.Complete(ctx, job.ID, model.Resume{Skills: []string{"Go"}, Demo: true})
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.Fail(ctx, job.ID, "late failure")
	require.NoError(t, err)
	assert.False(t, moved, "completed job must stay completed")

	got, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, model.ProgressCompleted, got.Progress)
	assert.True(t, got.Demo)
	assert.Empty(t, got.ErrorMessage)
	assert.Equal(t, []string{"Go"}, got.Result.Data().Skills)
}

func TestParsingJobFailIsTerminal(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewParsingJobRepository(db)
	ctx := context.Background()

	job := &model.ParsingJob{Filename: "cv.pdf", Status: model.StatusPending}
	require.NoError(t, repo.Create(ctx, job))

	moved, err := repo.Fail(ctx, job.ID, "queue full")
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.MarkProcessing(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, moved)

	n, err := repo.FailUnfinished(ctx, "restart")
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusError, got.Status)
	assert.Equal(t, "queue full", got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)
}
