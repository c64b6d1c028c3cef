package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/dto"
	"github.com/fadilmartias/resume-parser/internal/model"
	"github.com/fadilmartias/resume-parser/internal/repository"
	"github.com/fadilmartias/resume-parser/internal/response"
	"github.com/fadilmartias/resume-parser/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxSuggestedQuestions = 6

var baseSuggestedQuestions = []string{
	"What are the strongest points of this resume?",
	"What skills should I add to be more competitive?",
	"How can I improve my experience section?",
	"What are some good interview questions I should prepare for?",
	"How does my background compare to industry standards?",
}

// sessionLocks hands out one mutex per chat session. Entries are reference
// counted and removed when the last holder unlocks.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (s *sessionLocks) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

type ChatUsecase struct {
	repo         *repository.ChatRepository
	resumes      *ParsingUsecase
	chat         service.ChatServiceInterface
	maxUserTurns int
	locks        *sessionLocks
	log          *zap.Logger
}

func NewChatUsecase(repo *repository.ChatRepository, resumes *ParsingUsecase, chat service.ChatServiceInterface, maxUserTurns int, log *zap.Logger) *ChatUsecase {
	if maxUserTurns < 1 {
		maxUserTurns = 10
	}
	return &ChatUsecase{
		repo:         repo,
		resumes:      resumes,
		chat:         chat,
		maxUserTurns: maxUserTurns,
		locks:        newSessionLocks(),
		log:          log,
	}
}

// CreateSession reserves an id. The session row is written with its first
// message.
func (uc *ChatUsecase) CreateSession(ctx context.Context) string {
	return uuid.NewString()
}

// PostMessage appends a user turn, asks the chat collaborator for a reply and
// appends it. The user turn stays in the transcript even when the reply fails.
func (uc *ChatUsecase) PostMessage(ctx context.Context, req dto.ChatRequest) (dto.ChatReplyDTO, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return dto.ChatReplyDTO{}, apperror.Validation("message must not be empty")
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	job, resume, err := uc.resumes.GetResult(ctx, req.ResumeJobID)
	if err != nil {
		return dto.ChatReplyDTO{}, err
	}

	unlock := uc.locks.lock(sessionID)
	defer unlock()

	log := uc.log.With(zap.String("session_id", sessionID), zap.String("job_id", job.ID.String()))

	session, err := uc.repo.FindSession(ctx, sessionID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		session = &model.ChatSession{SessionID: sessionID, ResumeJobID: job.ID}
		if err := uc.repo.CreateSession(ctx, session); err != nil {
			return dto.ChatReplyDTO{}, apperror.Wrap(apperror.KindInternal, err, "create chat session")
		}
		log.Info("chat session started")
	case err != nil:
		return dto.ChatReplyDTO{}, apperror.Wrap(apperror.KindInternal, err, "load chat session")
	case session.ResumeJobID != job.ID:
		return dto.ChatReplyDTO{}, apperror.Validation("session %s belongs to another resume", sessionID)
	}

	userTurns, err := uc.repo.CountUserMessages(ctx, sessionID)
	if err != nil {
		return dto.ChatReplyDTO{}, apperror.Wrap(apperror.KindInternal, err, "count chat messages")
	}
	if userTurns >= int64(uc.maxUserTurns) {
		return dto.ChatReplyDTO{}, apperror.SessionFull("session %s reached the limit of %d messages", sessionID, uc.maxUserTurns)
	}

	history, err := uc.repo.History(ctx, sessionID)
	if err != nil {
		return dto.ChatReplyDTO{}, apperror.Wrap(apperror.KindInternal, err, "load chat history")
	}
	lastOrder := 0
	if n := len(history); n > 0 {
		lastOrder = history[n-1].MessageOrder
	}

	userMsg := &model.ChatMessage{
		SessionID:    sessionID,
		Role:         model.RoleUser,
		Content:      message,
		MessageOrder: lastOrder + 1,
		Timestamp:    time.Now().UTC(),
	}
	if err := uc.repo.AppendMessage(ctx, userMsg); err != nil {
		return dto.ChatReplyDTO{}, apperror.Wrap(apperror.KindInternal, err, "store user message")
	}
	userTurns++

	reply, err := uc.chat.Reply(ctx, resume, history, message)
	if err != nil {
		log.Warn("chat reply failed", zap.Error(err))
		if apperror.KindOf(err) != apperror.KindInternal {
			return dto.ChatReplyDTO{}, err
		}
		return dto.ChatReplyDTO{}, apperror.Upstream(err, "chat provider did not answer")
	}

	wctx, cancel := detached(ctx)
	defer cancel()

	assistantMsg := &model.ChatMessage{
		SessionID:    sessionID,
		Role:         model.RoleAssistant,
		Content:      reply,
		MessageOrder: userMsg.MessageOrder + 1,
		Timestamp:    time.Now().UTC(),
	}
	if err := uc.repo.AppendMessage(wctx, assistantMsg); err != nil {
		return dto.ChatReplyDTO{}, apperror.Wrap(apperror.KindInternal, err, "store assistant message")
	}
	if err := uc.repo.TouchSession(wctx, sessionID); err != nil {
		log.Warn("touch session failed", zap.Error(err))
	}

	log.Debug("chat turn stored", zap.Int("order", assistantMsg.MessageOrder), zap.Int64("user_turns", userTurns))

	return dto.ChatReplyDTO{
		SessionID:         sessionID,
		Response:          reply,
		MessageOrder:      assistantMsg.MessageOrder,
		UserMessageCount:  int(userTurns),
		RemainingMessages: uc.maxUserTurns - int(userTurns),
		Timestamp:         assistantMsg.Timestamp,
	}, nil
}

func (uc *ChatUsecase) ListSessions(ctx context.Context, page, pageSize int) ([]model.ChatSessionSummary, *response.Pagination, error) {
	page, pageSize = response.ClampPage(page, pageSize)
	sessions, total, err := uc.repo.ListSessions(ctx, response.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, nil, apperror.Wrap(apperror.KindInternal, err, "list chat sessions")
	}
	return sessions, response.NewPagination(page, pageSize, total, len(sessions)), nil
}

func (uc *ChatUsecase) GetHistory(ctx context.Context, sessionID string) (dto.ChatHistoryDTO, error) {
	sessionID = strings.TrimSpace(sessionID)
	session, err := uc.repo.FindSession(ctx, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ChatHistoryDTO{}, apperror.NotFound("chat session %s not found", sessionID)
	}
	if err != nil {
		return dto.ChatHistoryDTO{}, apperror.Wrap(apperror.KindInternal, err, "load chat session")
	}
	msgs, err := uc.repo.History(ctx, sessionID)
	if err != nil {
		return dto.ChatHistoryDTO{}, apperror.Wrap(apperror.KindInternal, err, "load chat history")
	}
	return dto.ChatHistoryDTO{
		SessionID:   session.SessionID,
		ResumeJobID: session.ResumeJobID,
		Messages:    msgs,
	}, nil
}

func (uc *ChatUsecase) SuggestedQuestions(ctx context.Context, rawJobID string) (dto.SuggestedQuestionsDTO, error) {
	job, resume, err := uc.resumes.GetResult(ctx, rawJobID)
	if err != nil {
		return dto.SuggestedQuestionsDTO{}, err
	}
	return dto.SuggestedQuestionsDTO{JobID: job.ID, Questions: suggestQuestions(resume)}, nil
}

func suggestQuestions(r model.Resume) []string {
	out := append([]string(nil), baseSuggestedQuestions...)
	if len(r.Certifications) == 0 {
		out = append(out, "What certifications would benefit my career?")
	}
	if len(r.Projects) < 3 {
		out = append(out, "What projects should I build to strengthen my portfolio?")
	}
	if strings.TrimSpace(r.PersonalInfo.GitHub) == "" {
		out = append(out, "How important is having a GitHub profile?")
	}
	if len(out) > maxSuggestedQuestions {
		out = out[:maxSuggestedQuestions]
	}
	return out
}
