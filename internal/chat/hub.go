package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/8gymsport-prog/penjualan/internal/auth"
	"github.com/8gymsport-prog/penjualan/internal/models"
	"github.com/8gymsport-prog/penjualan/internal/telemetry"
)

const (
	FrameSend    = "send"
	FrameMessage = "message"
	FrameError   = "error"

	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second
	sendTimeout = 10 * time.Second
	maxFrame    = 8192
)

// Sender stores a message and triggers its delivery.
type Sender interface {
	Send(ctx context.Context, from, to string, in models.MessageInput) (*models.ChatMessage, error)
}

// Frame is the envelope of every websocket message in both directions.
type Frame struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

type sendData struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// Hub tracks the websocket connections of this instance. A user may have
// several connections open at once.
type Hub struct {
	sender   Sender
	upgrader websocket.Upgrader
	origins  []string

	clientsMu sync.RWMutex
	clients   map[string]map[*Client]struct{}
}

func NewHub(sender Sender) *Hub {
	h := &Hub{
		sender:  sender,
		clients: make(map[string]map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetAllowedOrigins restricts browser connections to the given origins. The
// list uses the CORS syntax: "*" allows every origin and a single "*" inside
// an entry matches any substring. An empty list allows every origin.
func (h *Hub) SetAllowedOrigins(origins []string) {
	h.origins = make([]string, 0, len(origins))
	for _, o := range origins {
		h.origins = append(h.origins, strings.ToLower(strings.TrimSpace(o)))
	}
}

// checkOrigin accepts requests without an Origin header, which only
// non-browser clients send.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := strings.ToLower(r.Header.Get("Origin"))
	if origin == "" || len(h.origins) == 0 {
		return true
	}
	for _, allowed := range h.origins {
		if originMatches(allowed, origin) {
			return true
		}
	}
	return false
}

func originMatches(pattern, origin string) bool {
	if pattern == "*" || pattern == origin {
		return true
	}
	prefix, suffix, ok := strings.Cut(pattern, "*")
	if !ok {
		return false
	}
	return len(origin) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(origin, prefix) &&
		strings.HasSuffix(origin, suffix)
}

// ServeWS upgrades an authenticated request to a chat connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "Unauthorized"}`, http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade websocket", "user_id", id.UserID, "error", err)
		return
	}

	client := &Client{
		UserID: id.UserID,
		conn:   conn,
		send:   make(chan []byte, 256),
		hub:    h,
	}
	h.register(client)

	go client.writePump()
	go client.readPump()

	slog.Info("Chat connection opened", "user_id", id.UserID)
}

func (h *Hub) register(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	telemetry.ChatConnections.Inc()
}

func (h *Hub) unregister(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.send)
	telemetry.ChatConnections.Dec()
}

// Connected reports how many connections userID has on this instance.
func (h *Hub) Connected(userID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[userID])
}

// Deliver pushes msg to the local connections of every recipient.
func (h *Hub) Deliver(recipients []string, msg models.ChatMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal chat message", "message_id", msg.ID, "error", err)
		return
	}
	frame, err := json.Marshal(Frame{Type: FrameMessage, Data: data})
	if err != nil {
		slog.Error("Failed to marshal chat frame", "message_id", msg.ID, "error", err)
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for _, userID := range recipients {
		for c := range h.clients[userID] {
			c.enqueue(frame)
		}
	}
}

// Notify delivers locally. It is used when no relay is configured.
func (h *Hub) Notify(_ context.Context, recipients []string, msg models.ChatMessage) error {
	h.Deliver(recipients, msg)
	return nil
}

func (h *Hub) handleFrame(c *Client, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.sendError("Format pesan tidak valid.")
		return
	}

	switch frame.Type {
	case FrameSend:
		var data sendData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			c.sendError("Format pesan tidak valid.")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if _, err := h.sender.Send(ctx, c.UserID, data.To, models.MessageInput{Text: data.Text}); err != nil {
			c.sendError(sendErrorMessage(err))
		}
	default:
		c.sendError("Tipe pesan tidak dikenal.")
	}
}

func sendErrorMessage(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, models.ErrNotFound):
		return "Pengguna tidak ditemukan."
	default:
		return "Gagal mengirim pesan."
	}
}
