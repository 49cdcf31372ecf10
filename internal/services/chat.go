package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/8gymsport-prog/penjualan/internal/models"
	"github.com/8gymsport-prog/penjualan/internal/telemetry"
)

const msgSelfChat = "Tidak dapat mengirim pesan ke diri sendiri."

type ChatService struct {
	chats    ChatRepository
	users    UserRepository
	notifier Notifier
	now      clock
}

func NewChatService(chats ChatRepository, users UserRepository, notifier Notifier) *ChatService {
	return &ChatService{chats: chats, users: users, notifier: notifier, now: time.Now}
}

// SetNotifier replaces the realtime notifier. The hub needs the service to
// exist before it can be built, so it is attached afterwards.
func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

// ChatID is the same for both participants regardless of argument order.
func ChatID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

func participants(a, b string) []string {
	if b < a {
		return []string{b, a}
	}
	return []string{a, b}
}

func (s *ChatService) Send(ctx context.Context, from, to string, in models.MessageInput) (*models.ChatMessage, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if from == to {
		return nil, models.NewValidationError("to", msgSelfChat)
	}
	if _, err := s.users.GetUser(ctx, to); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		ID:        uuid.NewString(),
		ChatID:    ChatID(from, to),
		SenderID:  from,
		Text:      strings.TrimSpace(in.Text),
		Timestamp: s.now().UTC(),
	}
	if err := s.chats.AddMessage(ctx, participants(from, to), msg); err != nil {
		slog.Error("Failed to send message", "chat_id", msg.ChatID, "error", err)
		return nil, err
	}
	telemetry.ChatMessages.Inc()

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, participants(from, to), *msg); err != nil {
			slog.Warn("Failed to notify chat participants", "chat_id", msg.ChatID, "error", err)
		}
	}
	return msg, nil
}

func (s *ChatService) Messages(ctx context.Context, userID, peerID string) ([]models.ChatMessage, error) {
	msgs, err := s.chats.ListMessages(ctx, ChatID(userID, peerID))
	if err != nil {
		slog.Error("Failed to list messages", "user_id", userID, "peer_id", peerID, "error", err)
		return nil, err
	}
	return msgs, nil
}

func (s *ChatService) Chats(ctx context.Context, userID string) ([]models.Chat, error) {
	chats, err := s.chats.ListChats(ctx, userID)
	if err != nil {
		slog.Error("Failed to list chats", "user_id", userID, "error", err)
		return nil, err
	}
	return chats, nil
}
