package api

import (
	"net/http"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Accounts.ListUsers(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

func (h *Handler) AdminChangeRole(w http.ResponseWriter, r *http.Request) {
	var in models.RoleInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.Accounts.ChangeRole(r.Context(), currentUser(r).ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.DeleteUser(r.Context(), currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
