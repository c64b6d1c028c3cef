package service

import (
	"context"
	"strings"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/config"
	"github.com/fadilmartias/resume-parser/internal/logger"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAIService talks to an OpenAI compatible /chat/completions endpoint.
type OpenAIService struct {
	client      *resty.Client
	model       string
	maxTokens   int
	temperature float64
	log         *zap.Logger
}

func NewOpenAIService(cfg *config.OpenAIConfig, log *zap.Logger) *OpenAIService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")

	return &OpenAIService{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		log:         log,
	}
}

func (s *OpenAIService) Reply(ctx context.Context, resume model.Resume, history []model.ChatMessage, message string) (string, error) {
	messages := make([]chatCompletionMessage, 0, len(history)+2)
	messages = append(messages, chatCompletionMessage{Role: "system", Content: chatSystemPrompt(resume)})
	for _, m := range history {
		messages = append(messages, chatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, chatCompletionMessage{Role: "user", Content: message})

	return s.complete(ctx, messages, s.temperature, s.maxTokens)
}

func (s *OpenAIService) ParseJobDescription(ctx context.Context, text string) (model.JobDescription, error) {
	content, err := s.complete(ctx, []chatCompletionMessage{
		{Role: "system", Content: jobParserSystemPrompt},
		{Role: "user", Content: jobDescriptionPrompt(text)},
	}, 0.3, 1500)
	if err != nil {
		return model.JobDescription{}, err
	}

	jd, err := parseJobDescriptionJSON(content)
	if err != nil {
		s.log.Warn("unparseable job description from openai", zap.String("content", logger.TruncateForLog(content, 300)))
		return model.JobDescription{}, apperror.Upstream(err, "openai job description parse failed")
	}
	return jd, nil
}

func (s *OpenAIService) complete(ctx context.Context, messages []chatCompletionMessage, temperature float64, maxTokens int) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":       s.model,
			"messages":    messages,
			"temperature": temperature,
			"max_tokens":  maxTokens,
		}).
		Post("/chat/completions")
	if err := checkResponse("openai chat completion", resp, err); err != nil {
		return "", err
	}

	text := strings.TrimSpace(gjson.Get(resp.String(), "choices.0.message.content").String())
	if text == "" {
		return "", apperror.Upstream(nil, "openai returned an empty completion")
	}
	s.log.Debug("openai completion",
		zap.String("model", s.model),
		zap.Int64("total_tokens", gjson.Get(resp.String(), "usage.total_tokens").Int()))
	return text, nil
}
