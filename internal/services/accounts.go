package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

const (
	msgSelfRole   = "Anda tidak dapat mengubah role akun Anda sendiri."
	msgSelfDelete = "Anda tidak dapat menghapus akun Anda sendiri."
)

var photoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

type AccountService struct {
	users         UserRepository
	maxPhotoBytes int64
	now           clock
}

func NewAccountService(users UserRepository, maxPhotoBytes int64) *AccountService {
	return &AccountService{users: users, maxPhotoBytes: maxPhotoBytes, now: time.Now}
}

// EnsureProfile returns the user's profile, creating it on first sight.
func (s *AccountService) EnsureProfile(ctx context.Context, id, email string) (*models.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		slog.Error("Failed to load profile", "user_id", id, "error", err)
		return nil, err
	}

	u, err = s.users.CreateUser(ctx, &models.User{
		ID:        id,
		Email:     email,
		Username:  defaultUsername(id, email),
		Role:      models.RoleUser,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to create profile", "user_id", id, "error", err)
		return nil, err
	}
	slog.Info("Profile created", "user_id", id)
	return u, nil
}

func defaultUsername(id, email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimSpace(local)
	if utf8.RuneCountInString(local) >= 2 {
		return local
	}
	if len(id) > 6 {
		id = id[:6]
	}
	return "user-" + id
}

func (s *AccountService) Profile(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *AccountService) UpdateUsername(ctx context.Context, id string, in models.UsernameInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.UpdateUsername(ctx, id, strings.TrimSpace(in.Username))
	if err != nil {
		slog.Error("Failed to update username", "user_id", id, "error", err)
		return nil, err
	}
	return u, nil
}

// UpdatePhoto stores a new avatar. The declared content type is only used
// when the bytes themselves are not recognised.
func (s *AccountService) UpdatePhoto(ctx context.Context, id, contentType string, data []byte) (*models.User, error) {
	if len(data) == 0 {
		return nil, models.NewValidationError("photo", models.MsgPhotoFormat)
	}
	if s.maxPhotoBytes > 0 && int64(len(data)) > s.maxPhotoBytes {
		return nil, models.NewValidationError("photo", models.MsgPhotoSize)
	}

	detected := http.DetectContentType(data)
	if detected == "application/octet-stream" && contentType != "" {
		detected = contentType
	}
	detected, _, _ = strings.Cut(detected, ";")
	if !photoTypes[detected] {
		return nil, models.NewValidationError("photo", models.MsgPhotoFormat)
	}

	now := s.now().UTC()
	avatar := &models.Avatar{UserID: id, ContentType: detected, Data: data, UpdatedAt: now}
	photoURL := fmt.Sprintf("/api/users/%s/photo?v=%d", id, now.Unix())

	u, err := s.users.SaveAvatar(ctx, avatar, photoURL)
	if err != nil {
		slog.Error("Failed to save photo", "user_id", id, "error", err)
		return nil, err
	}
	return u, nil
}

func (s *AccountService) Photo(ctx context.Context, id string) (*models.Avatar, error) {
	return s.users.GetAvatar(ctx, id)
}

// Contacts lists every other user, for starting a chat.
func (s *AccountService) Contacts(ctx context.Context, id string) ([]models.User, error) {
	users, err := s.users.ListUsersExcept(ctx, id)
	if err != nil {
		slog.Error("Failed to list contacts", "user_id", id, "error", err)
		return nil, err
	}
	return users, nil
}

func (s *AccountService) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := s.users.GetUser(ctx, actorID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrForbidden
	}
	if err != nil {
		return err
	}
	if actor.Role != models.RoleSuperadmin {
		return models.ErrForbidden
	}
	return nil
}

func (s *AccountService) ListUsers(ctx context.Context, actorID string) ([]models.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

func (s *AccountService) ChangeRole(ctx context.Context, actorID, targetID string, in models.RoleInput) (*models.User, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if actorID == targetID {
		return nil, &models.SelfActionError{Message: msgSelfRole}
	}
	return s.SetRole(ctx, targetID, in)
}

// SetRole changes a role without an acting admin. It backs the operator CLI.
func (s *AccountService) SetRole(ctx context.Context, targetID string, in models.RoleInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.UpdateRole(ctx, targetID, in.Role)
	if err != nil {
		slog.Error("Failed to update role", "user_id", targetID, "error", err)
		return nil, err
	}
	slog.Info("Role changed", "user_id", targetID, "role", in.Role)
	return u, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if actorID == targetID {
		return &models.SelfActionError{Message: msgSelfDelete}
	}
	if err := s.users.DeleteUser(ctx, targetID); err != nil {
		slog.Error("Failed to delete user", "user_id", targetID, "error", err)
		return err
	}
	slog.Info("User deleted", "user_id", targetID, "by", actorID)
	return nil
}
