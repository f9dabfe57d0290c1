package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/timeglimpse/timeglimpse/internal/engine"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type renderRequest struct {
	View engine.View `json:"view"`
}

type pickRequest struct {
	View engine.View `json:"view"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
}

type pickResponse struct {
	Selection *engine.Selection `json:"selection"`
}

// Register mounts the row endpoints on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/rows", h.ListRows).Methods("GET")
	r.HandleFunc("/rows/{rowId}/render", h.Render).Methods("POST")
	r.HandleFunc("/rows/{rowId}/pick", h.Pick).Methods("POST")
}

func (h *Handler) ListRows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Rows())
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	rowID := mux.Vars(r)["rowId"]

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	frame, err := h.service.Render(rowID, req.View)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, frame)
}

func (h *Handler) Pick(w http.ResponseWriter, r *http.Request) {
	rowID := mux.Vars(r)["rowId"]

	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sel, err := h.service.Pick(rowID, req.View, req.X, req.Y)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pickResponse{Selection: sel})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRowNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "row not found"})
	case errors.Is(err, engine.ErrInvalidView):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// writeJSON encodes before writing the header so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
