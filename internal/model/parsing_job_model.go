package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ParsingJob tracks one résumé upload through extraction.
type ParsingJob struct {
	ID           uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	Filename     string                     `gorm:"type:varchar(255);not null" json:"filename"`
	Status       JobStatus                  `gorm:"type:varchar(20);not null;index" json:"status"`
	Progress     int                        `gorm:"not null;default:0" json:"progress"`
	Result       datatypes.JSONType[Resume] `json:"result"`
	ErrorMessage string                     `gorm:"type:text" json:"error_message"`
	Demo         bool                       `gorm:"not null;default:false" json:"demo"`
	CompletedAt  *time.Time                 `json:"completed_at"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

func (j *ParsingJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
