package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

const transactionColumns = `id::text, receipt_code, user_id, product_id, product_name, quantity,
	price::text, total::text, payments, created_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		t            models.Transaction
		price, total string
		payments     []byte
	)
	err := row.Scan(&t.ID, &t.ReceiptCode, &t.UserID, &t.ProductID, &t.ProductName, &t.Quantity,
		&price, &total, &payments, &t.Timestamp)
	if err != nil {
		return nil, err
	}

	if t.Price, err = parseDecimal(price); err != nil {
		return nil, err
	}
	if t.Total, err = parseDecimal(total); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payments, &t.Payments); err != nil {
		return nil, fmt.Errorf("decode payments of %s: %w", t.ID, err)
	}
	return &t, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	payments, err := json.Marshal(t.Payments)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO transactions (id, receipt_code, user_id, product_id, product_name, quantity,
			price, total, payments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9, $10)`,
		t.ID, t.ReceiptCode, t.UserID, t.ProductID, t.ProductName, t.Quantity,
		t.Price.String(), t.Total.String(), payments, t.Timestamp)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	t, err := scanTransaction(s.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id::text = $2`, userID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	payments, err := json.Marshal(t.Payments)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE transactions
		SET product_id = $3, product_name = $4, quantity = $5,
			price = $6::numeric, total = $7::numeric, payments = $8
		WHERE user_id = $1 AND id::text = $2`,
		t.UserID, t.ID, t.ProductID, t.ProductName, t.Quantity,
		t.Price.String(), t.Total.String(), payments)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1 AND id::text = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) ClearTransactions(ctx context.Context, userID string, rng models.DateRange) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`,
		userID, rng.From, rng.To)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListTransactions returns the user's transactions in rng, newest first.
func (s *Store) ListTransactions(ctx context.Context, userID string, rng models.DateRange) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC, id`,
		userID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}
