package server

import (
	"encoding/json"
	"net/http"

	"jungle-server/internal/network"
	"jungle-server/internal/rooms"
)

// DebugHandler предоставляет доступ к внутреннему состоянию комнат
type DebugHandler struct {
	Rooms *rooms.Registry
	Hub   *network.Broadcaster
}

func NewDebugHandler(reg *rooms.Registry, hub *network.Broadcaster) *DebugHandler {
	return &DebugHandler{Rooms: reg, Hub: hub}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/rooms", h.handleRooms)
	mux.HandleFunc("GET /debug/stats", h.handleStats)
}

// /debug/rooms - места, strict-партия и доска каждой комнаты
func (h *DebugHandler) handleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Rooms.Snapshots())
}

// /debug/stats - счетчики комнат и соединений
func (h *DebugHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	type Stats struct {
		Rooms       int `json:"rooms"`
		Connections int `json:"connections"`
	}
	writeJSON(w, Stats{
		Rooms:       h.Rooms.Len(),
		Connections: h.Hub.SubscriberCount(),
	})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	_ = json.NewEncoder(w).Encode(data)
}
