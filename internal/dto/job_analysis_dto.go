package dto

import (
	"time"

	"github.com/fadilmartias/resume-parser/internal/matcher"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/google/uuid"
)

type UploadJobDescriptionDTO struct {
	AnalysisID uuid.UUID       `json:"analysis_id"`
	Filename   string          `json:"filename"`
	Status     model.JobStatus `json:"status"`
}

type JobAnalysisStatusDTO struct {
	AnalysisID   uuid.UUID       `json:"analysis_id"`
	Filename     string          `json:"filename"`
	Status       model.JobStatus `json:"status"`
	Progress     int             `json:"progress"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Demo         bool            `json:"demo"`
	CreatedAt    time.Time       `json:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

func NewJobAnalysisStatusDTO(a *model.JobAnalysis) JobAnalysisStatusDTO {
	return JobAnalysisStatusDTO{
		AnalysisID:   a.ID,
		Filename:     a.Filename,
		Status:       a.Status,
		Progress:     a.Progress,
		ErrorMessage: a.ErrorMessage,
		Demo:         a.Demo,
		CreatedAt:    a.CreatedAt,
		CompletedAt:  a.CompletedAt,
	}
}

type JobDescriptionDTO struct {
	AnalysisID uuid.UUID            `json:"analysis_id"`
	Filename   string               `json:"filename"`
	JobData    model.JobDescription `json:"job_data"`
	TextLength int                  `json:"text_length"`
	Demo       bool                 `json:"demo"`
}

type ResumeInfoDTO struct {
	JobID    uuid.UUID `json:"job_id"`
	Filename string    `json:"filename"`
	Skills   []string  `json:"skills"`
}

type JobInfoDTO struct {
	AnalysisID      uuid.UUID `json:"analysis_id"`
	JobTitle        string    `json:"job_title"`
	Company         string    `json:"company"`
	RequiredSkills  []string  `json:"required_skills"`
	PreferredSkills []string  `json:"preferred_skills"`
}

type SkillAnalysisDTO struct {
	ResumeInfo      ResumeInfoDTO           `json:"resume_info"`
	JobInfo         JobInfoDTO              `json:"job_info"`
	MatchAnalysis   matcher.Result          `json:"match_analysis"`
	Recommendations matcher.Recommendations `json:"recommendations"`
}

type SimilarJobDTO struct {
	AnalysisID      uuid.UUID `json:"analysis_id"`
	JobTitle        string    `json:"job_title"`
	Company         string    `json:"company"`
	RequiredSkills  []string  `json:"required_skills"`
	PreferredSkills []string  `json:"preferred_skills"`
	Match           int       `json:"overall_match_percentage"`
}
