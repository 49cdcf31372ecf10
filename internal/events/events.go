package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TransactionRecorded Type = "transaction.recorded"
	TransactionUpdated  Type = "transaction.updated"
	TransactionDeleted  Type = "transaction.deleted"
	TransactionsCleared Type = "transactions.cleared"
)

type Event struct {
	Type          Type            `json:"type"`
	UserID        string          `json:"userId"`
	TransactionID string          `json:"transactionId,omitempty"`
	ReceiptCode   string          `json:"receiptCode,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Count         int64           `json:"count,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	slog.Debug("Event", "type", e.Type, "user_id", e.UserID, "transaction_id", e.TransactionID)
	return nil
}

func (LogPublisher) Close() error { return nil }
