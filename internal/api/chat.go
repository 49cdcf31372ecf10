package api

import (
	"net/http"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	users, err := h.Accounts.Contacts(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Chats.Chats(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(chats))
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Chats.Messages(r.Context(), currentUser(r).ID, r.PathValue("peer"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(msgs))
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var in models.MessageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	msg, err := h.Chats.Send(r.Context(), currentUser(r).ID, r.PathValue("peer"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
