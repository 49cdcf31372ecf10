package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/8gymsport-prog/penjualan/internal/events"
	"github.com/8gymsport-prog/penjualan/internal/models"
	"github.com/8gymsport-prog/penjualan/internal/reports"
	"github.com/8gymsport-prog/penjualan/internal/telemetry"
)

type SalesService struct {
	txs       TransactionRepository
	products  ProductRepository
	summaries SummaryCache
	events    events.Publisher
	now       clock
}

// NewSalesService wires the sales use cases. summaries may be nil, in which
// case every summary is computed from storage.
func NewSalesService(txs TransactionRepository, products ProductRepository, summaries SummaryCache, publisher events.Publisher) *SalesService {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &SalesService{
		txs:       txs,
		products:  products,
		summaries: summaries,
		events:    publisher,
		now:       time.Now,
	}
}

func newReceiptCode() string {
	return "TRX-" + ulid.Make().String()
}

// priced resolves the catalog product and returns the snapshot it is sold at.
func (s *SalesService) priced(ctx context.Context, userID string, in models.TransactionInput) (*models.Product, decimal.Decimal, error) {
	if err := in.Validate(); err != nil {
		return nil, decimal.Zero, err
	}

	p, err := s.products.GetProduct(ctx, userID, in.ProductID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, decimal.Zero, models.NewValidationError("productId", models.MsgProductRequired)
	}
	if err != nil {
		slog.Error("Failed to load product", "user_id", userID, "product_id", in.ProductID, "error", err)
		return nil, decimal.Zero, err
	}

	total := p.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
	if err := models.CheckPayments(in.Payments, total); err != nil {
		return nil, decimal.Zero, err
	}
	return p, total, nil
}

func (s *SalesService) Record(ctx context.Context, userID string, in models.TransactionInput) (*models.Transaction, error) {
	p, total, err := s.priced(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	t := &models.Transaction{
		ID:          uuid.NewString(),
		ReceiptCode: newReceiptCode(),
		UserID:      userID,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    in.Quantity,
		Price:       p.Price,
		Total:       total,
		Payments:    in.Payments,
		Timestamp:   s.now().UTC(),
	}
	if err := s.txs.CreateTransaction(ctx, t); err != nil {
		slog.Error("Failed to record transaction", "user_id", userID, "error", err)
		return nil, err
	}

	telemetry.TransactionsRecorded.WithLabelValues("catalog").Inc()
	s.changed(ctx, events.TransactionRecorded, t, 0)
	return t, nil
}

func (s *SalesService) QuickSale(ctx context.Context, userID string, in models.QuickSaleInput) (*models.Transaction, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	total := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
	t := &models.Transaction{
		ID:          uuid.NewString(),
		ReceiptCode: newReceiptCode(),
		UserID:      userID,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Total:       total,
		Payments:    []models.Payment{{Method: in.PaymentMethod, Amount: total}},
		Timestamp:   s.now().UTC(),
	}
	if err := s.txs.CreateTransaction(ctx, t); err != nil {
		slog.Error("Failed to record quick sale", "user_id", userID, "error", err)
		return nil, err
	}

	telemetry.TransactionsRecorded.WithLabelValues("quick").Inc()
	s.changed(ctx, events.TransactionRecorded, t, 0)
	return t, nil
}

// Update re-prices an existing transaction from the current catalog.
func (s *SalesService) Update(ctx context.Context, userID, id string, in models.TransactionInput) (*models.Transaction, error) {
	existing, err := s.txs.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	p, total, err := s.priced(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	existing.ProductID = p.ID
	existing.ProductName = p.Name
	existing.Quantity = in.Quantity
	existing.Price = p.Price
	existing.Total = total
	existing.Payments = in.Payments

	if err := s.txs.UpdateTransaction(ctx, existing); err != nil {
		slog.Error("Failed to update transaction", "user_id", userID, "transaction_id", id, "error", err)
		return nil, err
	}

	s.changed(ctx, events.TransactionUpdated, existing, 0)
	return existing, nil
}

func (s *SalesService) Delete(ctx context.Context, userID, id string) error {
	if err := s.txs.DeleteTransaction(ctx, userID, id); err != nil {
		slog.Error("Failed to delete transaction", "user_id", userID, "transaction_id", id, "error", err)
		return err
	}
	s.changed(ctx, events.TransactionDeleted, &models.Transaction{ID: id, UserID: userID}, 0)
	return nil
}

// Clear removes every transaction in rng and returns how many were removed.
func (s *SalesService) Clear(ctx context.Context, userID string, rng models.DateRange) (int64, error) {
	n, err := s.txs.ClearTransactions(ctx, userID, rng)
	if err != nil {
		slog.Error("Failed to clear transactions", "user_id", userID, "error", err)
		return 0, err
	}
	slog.Info("Transactions cleared", "user_id", userID, "count", n)
	s.changed(ctx, events.TransactionsCleared, &models.Transaction{UserID: userID}, n)
	return n, nil
}

func (s *SalesService) List(ctx context.Context, userID string, rng models.DateRange) ([]models.Transaction, error) {
	txs, err := s.txs.ListTransactions(ctx, userID, rng)
	if err != nil {
		slog.Error("Failed to list transactions", "user_id", userID, "error", err)
		return nil, err
	}
	return txs, nil
}

func (s *SalesService) Summary(ctx context.Context, userID string, rng models.DateRange) (*models.SalesSummary, error) {
	var key string
	if s.summaries != nil {
		k, err := s.summaries.Key(ctx, userID, rng)
		if err != nil {
			slog.Warn("Failed to resolve summary cache key", "user_id", userID, "error", err)
		} else {
			key = k
			if cached, err := s.summaries.Get(ctx, key); err == nil {
				return cached, nil
			}
		}
	}

	txs, err := s.List(ctx, userID, rng)
	if err != nil {
		return nil, err
	}
	summary := reports.Summarize(txs)

	if key != "" {
		if err := s.summaries.Set(ctx, key, &summary); err != nil {
			slog.Warn("Failed to cache summary", "user_id", userID, "error", err)
		}
	}
	return &summary, nil
}

// changed drops cached summaries and publishes the event. Neither failure
// undoes the write that already happened.
func (s *SalesService) changed(ctx context.Context, typ events.Type, t *models.Transaction, count int64) {
	if s.summaries != nil {
		if err := s.summaries.Invalidate(ctx, t.UserID); err != nil {
			slog.Warn("Failed to invalidate summary cache", "user_id", t.UserID, "error", err)
		}
	}

	err := s.events.Publish(ctx, events.Event{
		Type:          typ,
		UserID:        t.UserID,
		TransactionID: t.ID,
		ReceiptCode:   t.ReceiptCode,
		Total:         t.Total,
		Count:         count,
		OccurredAt:    s.now().UTC(),
	})
	if err != nil {
		slog.Warn("Failed to publish event", "type", typ, "user_id", t.UserID, "error", err)
	}
}
