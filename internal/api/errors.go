package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

const (
	msgInternal    = "Terjadi kesalahan pada server."
	msgBadRequest  = "Format permintaan tidak valid."
	msgNotFound    = "Data tidak ditemukan."
	msgForbidden   = "Anda tidak memiliki akses untuk aksi ini."
	msgTooLarge    = "Permintaan terlalu besar."
	maxRequestBody = 1 << 20
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode error", "error", err)
	}
}

// writeError maps service errors to a status and a user-facing message.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr     *models.ValidationError
		selfErr  *models.SelfActionError
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.As(err, &selfErr):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: selfErr.Message})
	case errors.Is(err, models.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: msgForbidden})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msgNotFound})
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: msgTooLarge})
	default:
		slog.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, err)
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return false
	}
	return true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
