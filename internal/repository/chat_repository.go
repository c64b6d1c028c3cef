package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/resume-parser/internal/model"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db}
}

func (r *ChatRepository) FindSession(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	var s model.ChatSession
	err := r.db.WithContext(ctx).First(&s, "session_id = ?", sessionID).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ChatRepository) CreateSession(ctx context.Context, s *model.ChatSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ChatRepository) TouchSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatSession{}).
		Where("session_id = ?", sessionID).
		Update("updated_at", time.Now()).Error
}

func (r *ChatRepository) CountUserMessages(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("session_id = ? AND role = ?", sessionID, model.RoleUser).
		Count(&n).Error
	return n, err
}

func (r *ChatRepository) AppendMessage(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *ChatRepository) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("message_order ASC").
		Find(&msgs).Error
	return msgs, err
}

type messageCounts struct {
	SessionID        string
	MessageCount     int64
	UserMessageCount int64
}

// ListSessions returns one page of session summaries, newest first, plus the
// total number of sessions.
func (r *ChatRepository) ListSessions(ctx context.Context, offset, limit int) ([]model.ChatSessionSummary, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.ChatSession{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.ChatSession
	err := db.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	if len(sessions) == 0 {
		return []model.ChatSessionSummary{}, total, nil
	}

	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.SessionID)
	}

	var counts []messageCounts
	err = db.Model(&model.ChatMessage{}).
		Select("session_id, COUNT(*) AS message_count, SUM(CASE WHEN role = ? THEN 1 ELSE 0 END) AS user_message_count", model.RoleUser).
		Where("session_id IN ?", ids).
		Group("session_id").
		Scan(&counts).Error
	if err != nil {
		return nil, 0, err
	}
	bySession := make(map[string]messageCounts, len(counts))
	for _, c := range counts {
		bySession[c.SessionID] = c
	}

	// Latest message per session in one query; scanning real rows keeps the
	// timestamp column typed on every driver.
	var lastMessages []model.ChatMessage
	err = db.Where("session_id IN ?", ids).
		Where("message_order = (SELECT MAX(m.message_order) FROM chat_messages m WHERE m.session_id = chat_messages.session_id)").
		Find(&lastMessages).Error
	if err != nil {
		return nil, 0, err
	}
	lastAt := make(map[string]time.Time, len(lastMessages))
	for _, m := range lastMessages {
		lastAt[m.SessionID] = m.Timestamp
	}

	out := make([]model.ChatSessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summary := model.ChatSessionSummary{
			SessionID:        s.SessionID,
			ResumeJobID:      s.ResumeJobID,
			CreatedAt:        s.CreatedAt,
			MessageCount:     bySession[s.SessionID].MessageCount,
			UserMessageCount: bySession[s.SessionID].UserMessageCount,
		}
		if ts, ok := lastAt[s.SessionID]; ok {
			summary.LastMessageTime = &ts
		}
		out = append(out, summary)
	}
	return out, total, nil
}
