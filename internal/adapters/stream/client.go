package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/factorycore/internal/application/common"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
	// Maximum action size accepted from a peer
	maxMessageSize = 4096
)

// Client is one websocket connection
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	remote  string
	limiter *rate.Limiter
}

func newClient(hub *Hub, conn *websocket.Conn, remote string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, hub.sendBuffer),
		remote:  remote,
		limiter: rate.NewLimiter(hub.actionRate, hub.actionBurst),
	}
}

// readPump decodes actions from the peer until the connection closes
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := common.WithLogger(context.Background(), c.hub.logger)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Log(common.LevelWarning, fmt.Sprintf("[Stream] Read error from %s: %v", c.remote, err), nil)
			}
			return
		}

		reply := c.handle(ctx, message)
		payload, err := json.Marshal(envelope{Type: "reply", Data: reply})
		if err != nil {
			c.hub.logger.Log(common.LevelError, fmt.Sprintf("[Stream] Failed to encode reply: %v", err), nil)
			continue
		}
		c.hub.deliver(c, payload)
	}
}

func (c *Client) handle(ctx context.Context, message []byte) Reply {
	var action Action
	if err := json.Unmarshal(message, &action); err != nil {
		return Reply{OK: false, Error: fmt.Sprintf("malformed action: %v", err)}
	}
	if !c.limiter.Allow() {
		return Reply{ID: action.ID, OK: false, Error: "rate limit exceeded"}
	}
	mediator := c.hub.currentMediator()
	if mediator == nil {
		return Reply{ID: action.ID, OK: false, Error: "actions are disabled"}
	}
	return dispatch(ctx, mediator, action)
}

// writePump forwards queued messages and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
