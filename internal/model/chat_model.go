package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatSession binds a conversation to exactly one parsed résumé.
type ChatSession struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	SessionID   string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"session_id"`
	ResumeJobID uuid.UUID `gorm:"type:uuid;not null;index" json:"resume_job_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChatMessage is one transcript turn; MessageOrder is unique per session.
type ChatMessage struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SessionID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_chat_session_order" json:"session_id"`
	Role         ChatRole  `gorm:"type:varchar(20);not null" json:"role"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	MessageOrder int       `gorm:"not null;uniqueIndex:idx_chat_session_order" json:"order"`
	Timestamp    time.Time `gorm:"not null" json:"timestamp"`
}

// ChatSessionSummary is the listing row for a session.
type ChatSessionSummary struct {
	SessionID        string     `json:"session_id"`
	ResumeJobID      uuid.UUID  `json:"resume_job_id"`
	CreatedAt        time.Time  `json:"created_at"`
	MessageCount     int64      `json:"message_count"`
	UserMessageCount int64      `json:"user_message_count"`
	LastMessageTime  *time.Time `json:"last_message_time"`
}
