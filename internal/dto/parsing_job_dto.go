package dto

import (
	"time"

	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/google/uuid"
)

type UploadResumeDTO struct {
	JobID    uuid.UUID       `json:"job_id"`
	Filename string          `json:"filename"`
	Status   model.JobStatus `json:"status"`
}

type ParsingStatusDTO struct {
	JobID        uuid.UUID       `json:"job_id"`
	Filename     string          `json:"filename"`
	Status       model.JobStatus `json:"status"`
	Progress     int             `json:"progress"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Demo         bool            `json:"demo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

func NewParsingStatusDTO(job *model.ParsingJob) ParsingStatusDTO {
	return ParsingStatusDTO{
		JobID:        job.ID,
		Filename:     job.Filename,
		Status:       job.Status,
		Progress:     job.Progress,
		ErrorMessage: job.ErrorMessage,
		Demo:         job.Demo,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
		CompletedAt:  job.CompletedAt,
	}
}

type ResumeDTO struct {
	JobID      uuid.UUID    `json:"job_id"`
	Filename   string       `json:"filename"`
	ParsedData model.Resume `json:"parsed_data"`
	Demo       bool         `json:"demo"`
}
