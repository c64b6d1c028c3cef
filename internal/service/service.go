package service

import (
	"context"

	"github.com/fadilmartias/resume-parser/internal/model"
)

// ResumeExtractorInterface turns an uploaded résumé file into a Resume.
type ResumeExtractorInterface interface {
	Extract(ctx context.Context, filename string, content []byte) (model.Resume, error)
}

// ChatServiceInterface answers one user turn. history holds the turns that
// came before message, oldest first.
type ChatServiceInterface interface {
	Reply(ctx context.Context, resume model.Resume, history []model.ChatMessage, message string) (string, error)
}

type JobParserInterface interface {
	ParseJobDescription(ctx context.Context, text string) (model.JobDescription, error)
}

type EmbedderInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}
