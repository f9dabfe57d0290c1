package session

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Hub tracks live sessions by row so they can be counted and closed on
// shutdown.
type Hub struct {
	mu   sync.RWMutex
	rows map[string]map[string]*Client // rowID -> clientID -> client
}

func NewHub() *Hub {
	return &Hub{rows: make(map[string]map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	clients, ok := h.rows[client.RowID]
	if !ok {
		clients = make(map[string]*Client)
		h.rows[client.RowID] = clients
	}
	clients[client.ClientID] = client
	h.mu.Unlock()

	client.Send(newMessage(TypeWelcome, WelcomePayload{ClientID: client.ClientID, RowID: client.RowID}))
	slog.Info("session opened", "client", client.ClientID, "row", client.RowID, "subject", client.Subject)
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	clients, ok := h.rows[client.RowID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(clients, client.ClientID)
	if len(clients) == 0 {
		delete(h.rows, client.RowID)
	}
	close(client.send)
	h.mu.Unlock()

	client.Close()
	slog.Info("session closed", "client", client.ClientID, "row", client.RowID)
}

// Count returns the number of sessions open on a row.
func (h *Hub) Count(rowID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rows[rowID])
}

// Stop closes every open connection. Read pumps then unregister their
// clients.
func (h *Hub) Stop() {
	h.mu.RLock()
	var conns []*websocket.Conn
	for _, clients := range h.rows {
		for _, c := range clients {
			if c.conn != nil {
				conns = append(conns, c.conn)
			}
		}
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
