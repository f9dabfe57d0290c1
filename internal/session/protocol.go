package session

import (
	"encoding/json"

	"github.com/timeglimpse/timeglimpse/internal/engine"
)

type Message struct {
	Type     string          `json:"type"`
	RowID    string          `json:"rowId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ViewPayload struct {
	View engine.View `json:"view"`
}

type SelectionPayload struct {
	Selection *engine.Selection `json:"selection"`
}

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	RowID    string `json:"rowId"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Client to server
	TypePointerMove = "pointer.move"
	TypePointerExit = "pointer.exit"
	TypeViewSet     = "view.set"
	TypeRender      = "render"

	// Server to client
	TypeSelection = "selection"
	TypeFrame     = "frame"
)

func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}
