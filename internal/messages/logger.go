package messages

import (
	"context"
	"fmt"

	"github.com/Mirxa893/zola/internal/schema"
	"github.com/Mirxa893/zola/internal/store"
)

// UserEntry is the inbound user turn to persist.
type UserEntry struct {
	UserID          string
	ChatID          string
	Content         string
	Attachments     []schema.Attachment
	Model           string
	IsAuthenticated bool
}

type AssistantMessage struct {
	Role    schema.Role `json:"role"`
	Content string      `json:"content"`
	Sender  string      `json:"sender"`
}

// AssistantEntry is the outbound assistant turn to persist.
type AssistantEntry struct {
	ChatID   string
	UserID   string
	Messages []AssistantMessage
}

type Inserter interface {
	Insert(ctx context.Context, m store.Message) error
}

// Quota is consulted before a user message is stored.
type Quota interface {
	Allow(ctx context.Context, userID string, authenticated bool) error
}

// Logger persists both sides of a conversation turn.
type Logger struct {
	msgs  Inserter
	quota Quota
}

func NewLogger(msgs Inserter, quota Quota) *Logger {
	return &Logger{msgs: msgs, quota: quota}
}

// LogUserMessage charges the user's daily quota and stores the message.
// Quota errors are returned unwrapped so callers can match them.
func (l *Logger) LogUserMessage(ctx context.Context, e UserEntry) error {
	if l.quota != nil {
		if err := l.quota.Allow(ctx, e.UserID, e.IsAuthenticated); err != nil {
			return err
		}
	}
	var attachments any
	if len(e.Attachments) > 0 {
		attachments = e.Attachments
	}
	err := l.msgs.Insert(ctx, store.Message{
		ChatID:      e.ChatID,
		UserID:      e.UserID,
		Role:        string(schema.RoleUser),
		Content:     e.Content,
		Attachments: attachments,
		Model:       e.Model,
	})
	if err != nil {
		return fmt.Errorf("insert user message: %w", err)
	}
	return nil
}

func (l *Logger) LogAssistantMessage(ctx context.Context, e AssistantEntry) error {
	for _, m := range e.Messages {
		err := l.msgs.Insert(ctx, store.Message{
			ChatID:  e.ChatID,
			UserID:  e.UserID,
			Role:    string(m.Role),
			Content: m.Content,
		})
		if err != nil {
			return fmt.Errorf("insert assistant message: %w", err)
		}
	}
	return nil
}
