package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/timeglimpse/timeglimpse/internal/api"
	"github.com/timeglimpse/timeglimpse/internal/document"
	"github.com/timeglimpse/timeglimpse/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// Client is one websocket session bound to a row. It keeps its own engine,
// so hover state and view survive between messages.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	service  *api.Service
	engine   *engine.Engine
	send     chan []byte
	RowID    string
	ClientID string
	Subject  string
}

func NewClient(hub *Hub, conn *websocket.Conn, service *api.Service, rowID, clientID, subject string) *Client {
	c := &Client{
		hub:      hub,
		conn:     conn,
		service:  service,
		send:     make(chan []byte, 256),
		RowID:    rowID,
		ClientID: clientID,
		Subject:  subject,
	}
	service.Do(func(m *document.Model) {
		c.engine = engine.NewEngine(m, rowID, service.Options())
	})
	return c
}

// Close detaches the client's engine from the model.
func (c *Client) Close() {
	c.service.Do(func(*document.Model) {
		c.engine.Close()
	})
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			c.Send(newMessage(TypeError, ErrorPayload{Error: "invalid message"}))
			continue
		}

		for _, reply := range c.handle(&msg) {
			c.Send(reply)
		}
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ClientID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	msg.RowID = c.RowID
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

// handle applies one client message to the engine and returns the replies.
// A message that changes what is visible is followed by a fresh frame.
func (c *Client) handle(msg *Message) []*Message {
	var replies []*Message
	c.service.Do(func(*document.Model) {
		switch msg.Type {
		case TypePointerMove:
			var p PointerPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				replies = append(replies, newMessage(TypeError, ErrorPayload{Error: "invalid pointer payload"}))
				return
			}
			c.engine.PointerMove(p.X, p.Y)
			replies = append(replies, c.selectionMessage())

		case TypePointerExit:
			c.engine.PointerExit()
			replies = append(replies, c.selectionMessage())

		case TypeViewSet:
			var v ViewPayload
			if err := json.Unmarshal(msg.Payload, &v); err != nil {
				replies = append(replies, newMessage(TypeError, ErrorPayload{Error: "invalid view payload"}))
				return
			}
			if err := v.View.Validate(); err != nil {
				replies = append(replies, newMessage(TypeError, ErrorPayload{Error: err.Error()}))
				return
			}
			c.engine.SetView(v.View)

		case TypeRender:
			replies = append(replies, newMessage(TypeFrame, c.engine.Frame()))
			return

		default:
			slog.Warn("unknown message type", "type", msg.Type, "client", c.ClientID)
			replies = append(replies, newMessage(TypeError, ErrorPayload{Error: "unknown message type"}))
			return
		}

		if c.engine.RedrawPending() {
			replies = append(replies, newMessage(TypeFrame, c.engine.Frame()))
		}
	})
	return replies
}

func (c *Client) selectionMessage() *Message {
	var p SelectionPayload
	if sel, ok := c.engine.Selection(); ok {
		p.Selection = &sel
	}
	return newMessage(TypeSelection, p)
}
