package handler

import (
	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/dto"
	"github.com/fadilmartias/resume-parser/internal/usecase"
	"github.com/fadilmartias/resume-parser/internal/util"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	uc *usecase.ChatUsecase
}

func NewChatHandler(uc *usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/chat/sessions", h.CreateSession)
	app.Post("/chat", h.PostMessage)
	app.Get("/chat-sessions", h.ListSessions)
	app.Get("/chat-history/:session_id", h.History)
	app.Get("/resume/:job_id/suggested-questions", h.SuggestedQuestions)
}

func (h *ChatHandler) CreateSession(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Chat session created",
		Data:    dto.ChatSessionCreatedDTO{SessionID: h.uc.CreateSession(c.UserContext())},
	})
}

func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return util.HandleError(c, apperror.Validation("invalid request body"))
	}
	if err := util.ValidateStruct(&req); err != nil {
		return util.HandleError(c, err)
	}

	reply, err := h.uc.PostMessage(c.UserContext(), req)
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success send message",
		Data:    reply,
	})
}

func (h *ChatHandler) ListSessions(c *fiber.Ctx) error {
	sessions, page, err := h.uc.ListSessions(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get chat sessions",
		Data:       sessions,
		Pagination: page,
	})
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	history, err := h.uc.GetHistory(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get chat history",
		Data:    history,
	})
}

func (h *ChatHandler) SuggestedQuestions(c *fiber.Ctx) error {
	questions, err := h.uc.SuggestedQuestions(c.UserContext(), c.Params("job_id"))
	if err != nil {
		return util.HandleError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get suggested questions",
		Data:    questions,
	})
}
