package session

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/timeglimpse/timeglimpse/internal/api"
	"github.com/timeglimpse/timeglimpse/internal/auth"
	"github.com/timeglimpse/timeglimpse/internal/document"
	"github.com/timeglimpse/timeglimpse/internal/typeid"
)

// Handler upgrades /ws/rows/{rowId} requests into row sessions.
type Handler struct {
	hub            *Hub
	service        *api.Service
	originPatterns []string
}

func NewHandler(hub *Hub, service *api.Service, origins []string) *Handler {
	return &Handler{hub: hub, service: service, originPatterns: OriginPatterns(origins)}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rowID := mux.Vars(r)["rowId"]

	var found bool
	h.service.Do(func(m *document.Model) {
		_, found = m.Row(rowID)
	})
	if !found {
		http.Error(w, "row not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	subject := auth.SubjectFromContext(r.Context())
	client := NewClient(h.hub, conn, h.service, rowID, typeid.NewSessionID(), subject)

	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// OriginPatterns reduces allowed origins to the host patterns the websocket
// handshake checks against.
func OriginPatterns(origins []string) []string {
	var patterns []string
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			patterns = append(patterns, o)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
