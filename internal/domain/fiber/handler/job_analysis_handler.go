package handler

import (
	"time"

	"github.com/fadilmartias/resume-parser/internal/dto"
	"github.com/fadilmartias/resume-parser/internal/middleware"
	"github.com/fadilmartias/resume-parser/internal/usecase"
	"github.com/fadilmartias/resume-parser/internal/util"
	"github.com/gofiber/fiber/v2"
)

type JobAnalysisHandler struct {
	uc             *usecase.JobAnalysisUsecase
	maxUploadBytes int64
	uploadRate     int
}

func NewJobAnalysisHandler(uc *usecase.JobAnalysisUsecase, maxUploadBytes int64, uploadRate int) *JobAnalysisHandler {
	return &JobAnalysisHandler{uc: uc, maxUploadBytes: maxUploadBytes, uploadRate: uploadRate}
}

func (h *JobAnalysisHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/upload-job-description", middleware.RateLimiter(h.uploadRate, time.Minute), h.Upload)
	app.Get("/job-analysis-status/:analysis_id", h.Status)
	app.Get("/job-description/:analysis_id", h.Result)
	app.Post("/analyze-skills/:job_id/:analysis_id", h.AnalyzeSkills)
	app.Get("/resume/:job_id/similar-jobs", h.SimilarJobs)
}

func (h *JobAnalysisHandler) Upload(c *fiber.Ctx) error {
	filename, content, err := readUpload(c, h.maxUploadBytes)
	if err != nil {
		return util.HandleError(c, err)
	}

	analysis, err := h.uc.Submit(c.UserContext(), filename, content)
	if err != nil {
		return util.HandleError(c, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Job description uploaded, analysis started",
		Data: dto.UploadJobDescriptionDTO{
			AnalysisID: analysis.ID,
			Filename:   analysis.Filename,
			Status:     analysis.Status,
		},
	})
}

func (h *JobAnalysisHandler) Status(c *fiber.Ctx) error {
	analysis, err := h.uc.GetStatus(c.UserContext(), c.Params("analysis_id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get analysis status",
		Data:    dto.NewJobAnalysisStatusDTO(analysis),
	})
}

func (h *JobAnalysisHandler) Result(c *fiber.Ctx) error {
	analysis, jd, err := h.uc.GetJobDescription(c.UserContext(), c.Params("analysis_id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job description",
		Data: dto.JobDescriptionDTO{
			AnalysisID: analysis.ID,
			Filename:   analysis.Filename,
			JobData:    jd,
			TextLength: len(analysis.RawText),
			Demo:       analysis.Demo,
		},
	})
}

func (h *JobAnalysisHandler) AnalyzeSkills(c *fiber.Ctx) error {
	result, err := h.uc.AnalyzeSkills(c.UserContext(), c.Params("job_id"), c.Params("analysis_id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success analyze skills",
		Data:    result,
	})
}

func (h *JobAnalysisHandler) SimilarJobs(c *fiber.Ctx) error {
	jobs, err := h.uc.SimilarJobs(c.UserContext(), c.Params("job_id"), c.QueryInt("limit", 5))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get similar jobs",
		Data:    jobs,
	})
}
