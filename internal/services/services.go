package services

import (
	"context"
	"time"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersExcept(ctx context.Context, id string) ([]models.User, error)
	UpdateUsername(ctx context.Context, id, username string) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	SaveAvatar(ctx context.Context, a *models.Avatar, photoURL string) (*models.User, error)
	GetAvatar(ctx context.Context, userID string) (*models.Avatar, error)
}

type ProductRepository interface {
	ListProducts(ctx context.Context, userID string) ([]models.Product, error)
	GetProduct(ctx context.Context, userID, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, userID, id string) error
}

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	ClearTransactions(ctx context.Context, userID string, rng models.DateRange) (int64, error)
	ListTransactions(ctx context.Context, userID string, rng models.DateRange) ([]models.Transaction, error)
}

type ChatRepository interface {
	AddMessage(ctx context.Context, participants []string, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, chatID string) ([]models.ChatMessage, error)
	ListChats(ctx context.Context, userID string) ([]models.Chat, error)
}

// SummaryCache keeps computed summaries per user and range. Key is resolved
// once per read; an Invalidate after that makes the key unreachable.
type SummaryCache interface {
	Key(ctx context.Context, userID string, rng models.DateRange) (string, error)
	Get(ctx context.Context, key string) (*models.SalesSummary, error)
	Set(ctx context.Context, key string, summary *models.SalesSummary) error
	Invalidate(ctx context.Context, userID string) error
}

// Notifier delivers a stored chat message to connected participants.
type Notifier interface {
	Notify(ctx context.Context, recipients []string, msg models.ChatMessage) error
}

type clock func() time.Time
