package handler

import (
	"time"

	"github.com/fadilmartias/resume-parser/internal/dto"
	"github.com/fadilmartias/resume-parser/internal/middleware"
	"github.com/fadilmartias/resume-parser/internal/usecase"
	"github.com/fadilmartias/resume-parser/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ResumeHandler struct {
	uc             *usecase.ParsingUsecase
	maxUploadBytes int64
	uploadRate     int
}

func NewResumeHandler(uc *usecase.ParsingUsecase, maxUploadBytes int64, uploadRate int) *ResumeHandler {
	return &ResumeHandler{uc: uc, maxUploadBytes: maxUploadBytes, uploadRate: uploadRate}
}

func (h *ResumeHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/upload-resume", middleware.RateLimiter(h.uploadRate, time.Minute), h.Upload)
	app.Get("/parsing-status/:job_id", h.Status)
	app.Get("/resume/:job_id", h.Result)
}

func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	filename, content, err := readUpload(c, h.maxUploadBytes)
	if err != nil {
		return util.HandleError(c, err)
	}

	job, err := h.uc.Submit(c.UserContext(), filename, content)
	if err != nil {
		return util.HandleError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Resume uploaded, parsing started",
		Data: dto.UploadResumeDTO{
			JobID:    job.ID,
			Filename: job.Filename,
			Status:   job.Status,
		},
	})
}

func (h *ResumeHandler) Status(c *fiber.Ctx) error {
	job, err := h.uc.GetStatus(c.UserContext(), c.Params("job_id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get parsing status",
		Data:    dto.NewParsingStatusDTO(job),
	})
}

func (h *ResumeHandler) Result(c *fiber.Ctx) error {
	job, resume, err := h.uc.GetResult(c.UserContext(), c.Params("job_id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get parsed resume",
		Data: dto.ResumeDTO{
			JobID:      job.ID,
			Filename:   job.Filename,
			ParsedData: resume,
			Demo:       job.Demo,
		},
	})
}
