package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleForm struct {
	ID      string `json:"resume_job_id" validate:"required,uuid"`
	Message string `json:"message" validate:"required,max=5"`
	Note    string `validate:"omitempty,min=2"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(&sampleForm{ID: "nope", Message: "too long", Note: "x"})
	require.Error(t, err)

	var formErr *FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, map[string]string{
		"resume_job_id": "The field 'resume_job_id' must be a valid UUID.",
		"message":       "The field 'message' must be no longer than 5 characters.",
		"Note":          "The field 'Note' must be at least 2 characters long.",
	}, formErr.Errors)
}

func TestValidateStructValid(t *testing.T) {
	assert.NoError(t, ValidateStruct(&sampleForm{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Message: "hi"}))
}
