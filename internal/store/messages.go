package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Message struct {
	ChatID      string
	UserID      string
	Role        string
	Content     string
	Attachments any
	Model       string
}

type MessagesRepo struct{ pool *pgxpool.Pool }

func (r *MessagesRepo) Insert(ctx context.Context, m Message) error {
	var attachments []byte
	if m.Attachments != nil {
		b, err := json.Marshal(m.Attachments)
		if err != nil {
			return err
		}
		attachments = b
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO messages(id, chat_id, user_id, role, content, experimental_attachments, model)
VALUES($1,$2,NULLIF($3,''),$4,$5,$6::jsonb,NULLIF($7,''))
`, uuid.NewString(), m.ChatID, m.UserID, m.Role, m.Content, attachments, m.Model)
	return err
}
