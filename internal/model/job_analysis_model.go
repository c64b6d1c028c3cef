package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmbeddingDimensions must match the vector column size below.
const EmbeddingDimensions = 3072

// JobAnalysis tracks one job-description upload through extraction.
type JobAnalysis struct {
	ID           uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string                             `gorm:"type:varchar(255);not null" json:"filename"`
	Status       JobStatus                          `gorm:"type:varchar(20);not null;index" json:"status"`
	Progress     int                                `gorm:"not null;default:0" json:"progress"`
	Result       datatypes.JSONType[JobDescription] `json:"result"`
	RawText      string                             `gorm:"type:text" json:"-"`
	ErrorMessage string                             `gorm:"type:text" json:"error_message"`
	Demo         bool                               `gorm:"not null;default:false" json:"demo"`
	Embedding    *pgvector.Vector                   `gorm:"type:vector(3072)" json:"-"`
	CompletedAt  *time.Time                         `json:"completed_at"`
	CreatedAt    time.Time                          `json:"created_at"`
	UpdatedAt    time.Time                          `json:"updated_at"`
}

func (j *JobAnalysis) TableName() string {
	return "job_analyses"
}

func (j *JobAnalysis) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
