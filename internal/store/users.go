package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

const userColumns = `id, email, username, photo_url, role, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PhotoURL, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// CreateUser inserts u unless a user with the same id exists, and returns the stored row.
func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, username, photo_url, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING ` + userColumns

	stored, err := scanUser(s.pool.QueryRow(ctx, query,
		u.ID, u.Email, u.Username, u.PhotoURL, string(u.Role), u.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

func (s *Store) listUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.listUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY username, id`)
}

func (s *Store) ListUsersExcept(ctx context.Context, id string) ([]models.User, error) {
	return s.listUsers(ctx, `SELECT `+userColumns+` FROM users WHERE id <> $1 ORDER BY username, id`, id)
}

func (s *Store) UpdateUsername(ctx context.Context, id, username string) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`UPDATE users SET username = $2 WHERE id = $1 RETURNING `+userColumns, id, username))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`UPDATE users SET role = $2 WHERE id = $1 RETURNING `+userColumns, id, string(role)))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SaveAvatar stores the photo and points the user's photo URL at it.
func (s *Store) SaveAvatar(ctx context.Context, a *models.Avatar, photoURL string) (*models.User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO user_avatars (user_id, content_type, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		a.UserID, a.ContentType, a.Data, a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}

	u, err := scanUser(tx.QueryRow(ctx,
		`UPDATE users SET photo_url = $2 WHERE id = $1 RETURNING `+userColumns, a.UserID, photoURL))
	if err != nil {
		return nil, notFound(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) GetAvatar(ctx context.Context, userID string) (*models.Avatar, error) {
	var a models.Avatar
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, content_type, data, updated_at FROM user_avatars WHERE user_id = $1`, userID).
		Scan(&a.UserID, &a.ContentType, &a.Data, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
