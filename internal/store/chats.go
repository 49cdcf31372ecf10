package store

import (
	"context"
	"fmt"
	"time"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

// AddMessage stores msg, creating its chat between participants on first use.
func (s *Store) AddMessage(ctx context.Context, participants []string, msg *models.ChatMessage) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO chats (id, participant_ids, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at`,
		msg.ChatID, participants, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("upsert chat: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO chat_messages (id, chat_id, sender_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.ChatID, msg.SenderID, msg.Text, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return tx.Commit(ctx)
}

// ListMessages returns a chat's messages, oldest first.
func (s *Store) ListMessages(ctx context.Context, chatID string) ([]models.ChatMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, chat_id, sender_id, text, created_at
		FROM chat_messages WHERE chat_id = $1
		ORDER BY created_at, id`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ListChats returns the user's chats with their last message, most recent first.
func (s *Store) ListChats(ctx context.Context, userID string) ([]models.Chat, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.participant_ids, c.updated_at,
			m.id::text, m.sender_id, m.text, m.created_at
		FROM chats c
		LEFT JOIN LATERAL (
			SELECT id, sender_id, text, created_at FROM chat_messages
			WHERE chat_id = c.id ORDER BY created_at DESC, id DESC LIMIT 1
		) m ON true
		WHERE $1 = ANY (c.participant_ids)
		ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []models.Chat{}
	for rows.Next() {
		var (
			c                   models.Chat
			msgID, sender, text *string
			sentAt              *time.Time
		)
		if err := rows.Scan(&c.ID, &c.ParticipantIDs, &c.UpdatedAt, &msgID, &sender, &text, &sentAt); err != nil {
			return nil, err
		}
		if msgID != nil {
			c.LastMessage = &models.ChatMessage{
				ID:        *msgID,
				ChatID:    c.ID,
				SenderID:  *sender,
				Text:      *text,
				Timestamp: *sentAt,
			}
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
