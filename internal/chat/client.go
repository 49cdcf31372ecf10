package chat

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection of a user.
type Client struct {
	UserID string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	closeOnce sync.Once
}

// readPump pumps frames from the connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxFrame)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("Websocket error", "user_id", c.UserID, "error", err)
			}
			break
		}

		c.hub.handleFrame(c, message)
	}
}

// writePump pumps queued frames to the connection and keeps it alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}

// enqueue must be called with the hub's read lock held, so send is not
// closed underneath it.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
		slog.Warn("Client send buffer full", "user_id", c.UserID)
	}
}

func (c *Client) sendError(message string) {
	frame, err := json.Marshal(Frame{Type: FrameError, Error: message})
	if err != nil {
		return
	}

	c.hub.clientsMu.RLock()
	defer c.hub.clientsMu.RUnlock()
	if _, ok := c.hub.clients[c.UserID][c]; ok {
		c.enqueue(frame)
	}
}
