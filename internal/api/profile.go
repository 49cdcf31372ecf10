package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.UsernameInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.Accounts.UpdateUsername(r.Context(), currentUser(r).ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UploadPhoto accepts either a raw image body or a multipart form with a
// "photo" file.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.readPhoto(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error:  models.MsgPhotoSize,
				Fields: map[string]string{"photo": models.MsgPhotoSize},
			})
			return
		}
		writeError(w, err)
		return
	}

	user, err := h.Accounts.UpdatePhoto(r.Context(), currentUser(r).ID, contentType, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) readPhoto(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	limit := h.opts.MaxAvatarBytes
	if limit <= 0 {
		limit = maxRequestBody
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)
		if err := r.ParseMultipartForm(limit); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, "", err
			}
			return nil, "", models.NewValidationError("photo", models.MsgPhotoFormat)
		}
		file, header, err := r.FormFile("photo")
		if err != nil {
			return nil, "", models.NewValidationError("photo", models.MsgPhotoFormat)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, header.Header.Get("Content-Type"), nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	return data, r.Header.Get("Content-Type"), nil
}

func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	avatar, err := h.Accounts.Photo(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", avatar.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Last-Modified", avatar.UpdatedAt.UTC().Format(http.TimeFormat))
	w.Write(avatar.Data)
}
