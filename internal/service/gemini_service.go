package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/config"
	"github.com/fadilmartias/resume-parser/internal/logger"
	"github.com/fadilmartias/resume-parser/internal/model"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const maxEmbeddingChars = 10000

var errCircuitOpen = errors.New("circuit breaker open")

// GeminiService wraps the genai client with retries, exponential backoff and
// a consecutive-failure circuit breaker. It serves chat replies, job
// description parsing and embeddings.
type GeminiService struct {
	Client            *genai.Client
	Model             string
	EmbeddingModel    string
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	consecutiveErrors atomic.Int32
	circuitBreakerMax int32
	log               *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, log *zap.Logger) (*GeminiService, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGeminiService(client, cfg, log), nil
}

func newGeminiService(client *genai.Client, cfg *config.GeminiConfig, log *zap.Logger) *GeminiService {
	return &GeminiService{
		Client:            client,
		Model:             cfg.Model,
		EmbeddingModel:    cfg.EmbeddingModel,
		MaxRetries:        cfg.MaxRetries,
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
		RequestTimeout:    cfg.RequestTimeout,
		circuitBreakerMax: 5,
		log:               log,
	}
}

func (s *GeminiService) Reply(ctx context.Context, resume model.Resume, history []model.ChatMessage, message string) (string, error) {
	result, err := s.GenerateContent(ctx, chatContents(history, message), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemPrompt(resume), genai.RoleUser),
		Temperature:       genai.Ptr(float32(0.7)),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Text()), nil
}

// chatContents maps the transcript onto Gemini roles and appends message as
// the final user turn.
func chatContents(history []model.ChatMessage, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

func (s *GeminiService) ParseJobDescription(ctx context.Context, text string) (model.JobDescription, error) {
	result, err := s.GenerateContent(ctx, genai.Text(jobDescriptionPrompt(text)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(jobParserSystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(float32(0.1)),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return model.JobDescription{}, err
	}

	content := result.Text()
	jd, err := parseJobDescriptionJSON(content)
	if err != nil {
		s.log.Warn("unparseable job description from gemini", zap.String("content", logger.TruncateForLog(content, 300)))
		return model.JobDescription{}, apperror.Upstream(err, "gemini job description parse failed")
	}
	return jd, nil
}

func (s *GeminiService) GenerateContent(ctx context.Context, contents []*genai.Content, genConfig *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if len(contents) == 0 {
		return nil, fmt.Errorf("contents cannot be empty")
	}

	var result *genai.GenerateContentResponse
	err := s.withRetry(ctx, "GenerateContent", func(ctx context.Context) error {
		resp, err := s.Client.Models.GenerateContent(ctx, s.Model, contents, genConfig)
		if err != nil {
			return err
		}
		if err := validateGenerateResponse(resp); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
		result = resp
		return nil
	})
	return result, err
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	if len(trimmed) > maxEmbeddingChars {
		s.log.Debug("truncating embedding input", zap.Int("length", len(trimmed)))
		trimmed = trimmed[:maxEmbeddingChars]
	}

	content := []*genai.Content{genai.NewContentFromText(trimmed, genai.RoleUser)}

	var embedding []float32
	err := s.withRetry(ctx, "GenerateEmbedding", func(ctx context.Context) error {
		resp, err := s.Client.Models.EmbedContent(ctx, s.EmbeddingModel, content, nil)
		if err != nil {
			return err
		}
		values, err := validateEmbeddingResponse(resp)
		if err != nil {
			return fmt.Errorf("invalid embedding response: %w", err)
		}
		embedding = values
		return nil
	})
	return embedding, err
}

// withRetry runs call until it succeeds, fails with a non-retryable error or
// runs out of attempts. Every failure it returns is an Upstream error.
func (s *GeminiService) withRetry(ctx context.Context, op string, call func(ctx context.Context) error) error {
	if n := s.consecutiveErrors.Load(); n >= s.circuitBreakerMax {
		return apperror.Wrap(apperror.KindUnavailable, errCircuitOpen, "gemini %s: %d consecutive errors", op, n)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.log.Info("retrying gemini call",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", s.MaxRetries),
				zap.Duration("delay", delay))

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				s.consecutiveErrors.Add(1)
				return apperror.Upstream(timeoutCtx.Err(), "gemini %s timed out during retry", op)
			}
		}

		err := call(timeoutCtx)
		if err == nil {
			s.consecutiveErrors.Store(0)
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			s.consecutiveErrors.Add(1)
			s.log.Warn("non-retryable gemini error", zap.String("op", op), zap.Error(err))
			return apperror.Upstream(err, "gemini %s failed", op)
		}
		s.log.Warn("retryable gemini error", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.consecutiveErrors.Add(1)
	return apperror.Upstream(lastErr, "gemini %s: max retries (%d) exceeded", op, s.MaxRetries)
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	// Trim a fixed eighth so parallel callers drift apart from the nominal schedule.
	return delay - delay/8
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code, ok := apiErrorCode(err); ok {
		switch code {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}

	msg := err.Error()
	for _, s := range []string{"connection refused", "connection reset", "timeout", "temporary failure", "EOF"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// apiErrorCode accepts genai.APIError by value or by pointer.
func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	switch {
	case resp == nil:
		return fmt.Errorf("response is nil")
	case len(resp.Candidates) == 0:
		return fmt.Errorf("no candidates in response")
	case resp.Candidates[0].Content == nil:
		return fmt.Errorf("candidate content is nil")
	case len(resp.Candidates[0].Content.Parts) == 0:
		return fmt.Errorf("no parts in content")
	}
	return nil
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if len(values) == 0 {
		return nil, fmt.Errorf("embedding vector is empty")
	}
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("invalid embedding value at index %d: %v", i, v)
		}
	}
	return values, nil
}

func (s *GeminiService) ResetCircuitBreaker() {
	s.consecutiveErrors.Store(0)
	s.log.Info("gemini circuit breaker reset")
}

func (s *GeminiService) CircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	n := s.consecutiveErrors.Load()
	return int(n), n >= s.circuitBreakerMax
}
