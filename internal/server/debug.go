package server

import (
	"encoding/json"
	"net/http"

	"zombieland-server/internal/engine"
)

// DebugHandler отдает последнюю опубликованную сводку мира
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/world", h.handleWorld)
	mux.HandleFunc("/debug/players", h.handlePlayers)
	mux.HandleFunc("/debug/stats", h.handleStats)
}

// /debug/world - сводка целиком
func (h *DebugHandler) handleWorld(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Summary())
}

// /debug/players?name=alice - игроки, опционально один по имени
func (h *DebugHandler) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players := h.Service.Summary().Players

	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, players)
		return
	}
	for _, p := range players {
		if p.Name == name {
			writeJSON(w, p)
			return
		}
	}
	http.Error(w, "Player not found", http.StatusNotFound)
}

// /debug/stats - счетчики сервиса
func (h *DebugHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	type Stats struct {
		Tick      uint32 `json:"tick"`
		Players   int    `json:"players"`
		Overruns  uint64 `json:"overruns"`
		Observers int    `json:"observers"`
	}

	sum := h.Service.Summary()
	writeJSON(w, Stats{
		Tick:      sum.Tick,
		Players:   len(sum.Players),
		Overruns:  h.Service.Overruns(),
		Observers: h.Service.Hub.SubscriberCount(),
	})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локальной страницы наблюдателя)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	_ = json.NewEncoder(w).Encode(data)
}
