package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/config"
	"github.com/fadilmartias/resume-parser/internal/logger"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	predictionCompleted = "completed"
	predictionFailed    = "failed"
)

// VLMRunService extracts résumés through the VLM.run document API:
// upload the file, request a document.resume prediction, then poll it.
type VLMRunService struct {
	client       *resty.Client
	domain       string
	pollInterval time.Duration
	log          *zap.Logger
}

func NewVLMRunService(cfg *config.VLMRunConfig, log *zap.Logger) *VLMRunService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &VLMRunService{
		client:       client,
		domain:       cfg.Domain,
		pollInterval: cfg.PollInterval,
		log:          log,
	}
}

func (s *VLMRunService) Extract(ctx context.Context, filename string, content []byte) (model.Resume, error) {
	fileID, err := s.upload(ctx, filename, content)
	if err != nil {
		return model.Resume{}, err
	}
	s.log.Debug("vlm.run file uploaded", zap.String("file_id", fileID), zap.String("filename", filename))

	prediction, err := s.generate(ctx, fileID)
	if err != nil {
		return model.Resume{}, err
	}

	prediction, err = s.wait(ctx, prediction)
	if err != nil {
		return model.Resume{}, err
	}

	resume, ok := NormalizeResume(prediction.Get("response"))
	if !ok {
		s.log.Warn("vlm.run returned no usable resume fields",
			zap.String("prediction_id", prediction.Get("id").String()),
			zap.String("response", logger.TruncateForLog(prediction.Get("response").Raw, 500)))
		return model.Resume{}, apperror.Upstream(nil, "resume extraction returned no content")
	}
	return resume, nil
}

func (s *VLMRunService) upload(ctx context.Context, filename string, content []byte) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(content)).
		SetFormData(map[string]string{"purpose": "assistants"}).
		Post("/files")
	if err := checkResponse("upload file", resp, err); err != nil {
		return "", err
	}

	id := gjson.Get(resp.String(), "id").String()
	if id == "" {
		return "", apperror.Upstream(nil, "vlm.run upload response has no file id")
	}
	return id, nil
}

func (s *VLMRunService) generate(ctx context.Context, fileID string) (gjson.Result, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"file_id": fileID,
			"domain":  s.domain,
		}).
		Post("/document/generate")
	if err := checkResponse("generate", resp, err); err != nil {
		return gjson.Result{}, err
	}

	body := gjson.Parse(resp.String())
	if body.Get("id").String() == "" {
		return gjson.Result{}, apperror.Upstream(nil, "vlm.run generate response has no prediction id")
	}
	return body, nil
}

// wait polls the prediction until it settles or ctx ends.
func (s *VLMRunService) wait(ctx context.Context, prediction gjson.Result) (gjson.Result, error) {
	id := prediction.Get("id").String()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		switch status := prediction.Get("status").String(); status {
		case predictionCompleted:
			return prediction, nil
		case predictionFailed:
			msg := prediction.Get("message").String()
			if msg == "" {
				msg = "no reason given"
			}
			return gjson.Result{}, apperror.Upstream(nil, "vlm.run prediction %s failed: %s", id, msg)
		default:
			s.log.Debug("vlm.run prediction pending", zap.String("prediction_id", id), zap.String("status", status))
		}

		select {
		case <-ctx.Done():
			return gjson.Result{}, apperror.Upstream(ctx.Err(), "vlm.run prediction %s did not finish in time", id)
		case <-ticker.C:
		}

		resp, err := s.client.R().
			SetContext(ctx).
			SetPathParam("id", id).
			Get("/predictions/{id}")
		if err := checkResponse("poll prediction", resp, err); err != nil {
			return gjson.Result{}, err
		}
		prediction = gjson.Parse(resp.String())
	}
}

// checkResponse turns transport errors and non-2xx replies into Upstream
// errors. Unreachable hosts additionally carry ErrUnreachable.
func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return apperror.Upstream(err, "%s timed out", op)
		}
		if IsUnreachable(err) {
			return apperror.Upstream(fmt.Errorf("%w: %w", ErrUnreachable, err), "%s request failed", op)
		}
		return apperror.Upstream(err, "%s request failed", op)
	}
	if resp.IsError() {
		return apperror.Upstream(
			fmt.Errorf("status %d: %s", resp.StatusCode(), logger.TruncateForLog(resp.String(), 200)),
			"%s rejected", op)
	}
	if resp.StatusCode() == http.StatusNoContent {
		return apperror.Upstream(nil, "%s returned an empty body", op)
	}
	return nil
}
