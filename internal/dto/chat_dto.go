package dto

import (
	"time"

	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/google/uuid"
)

type ChatRequest struct {
	SessionID   string `json:"session_id" validate:"omitempty,max=64"`
	ResumeJobID string `json:"resume_job_id" validate:"required,uuid"`
	Message     string `json:"message" validate:"required,max=4000"`
}

type ChatSessionCreatedDTO struct {
	SessionID string `json:"session_id"`
}

type ChatReplyDTO struct {
	SessionID         string    `json:"session_id"`
	Response          string    `json:"response"`
	MessageOrder      int       `json:"message_order"`
	UserMessageCount  int       `json:"user_message_count"`
	RemainingMessages int       `json:"remaining_messages"`
	Timestamp         time.Time `json:"timestamp"`
}

type ChatHistoryDTO struct {
	SessionID   string              `json:"session_id"`
	ResumeJobID uuid.UUID           `json:"resume_job_id"`
	Messages    []model.ChatMessage `json:"messages"`
}

type SuggestedQuestionsDTO struct {
	JobID     uuid.UUID `json:"job_id"`
	Questions []string  `json:"questions"`
}
