package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("data tidak ditemukan")
	ErrForbidden  = errors.New("aksi ditolak")
	ErrSelfAction = errors.New("aksi pada akun sendiri ditolak")
)

// ValidationError maps input fields to user-facing messages.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, " ")
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// SelfActionError carries the message shown when an admin targets their own account.
type SelfActionError struct {
	Message string
}

func (e *SelfActionError) Error() string { return e.Message }

func (e *SelfActionError) Is(target error) bool { return target == ErrSelfAction }
