package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"jungle-server/internal/domain"
	"jungle-server/internal/network"
	"jungle-server/internal/rooms"
	"jungle-server/internal/version"
	"jungle-server/pkg/api"
	"jungle-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Config - параметры HTTP/WS сервера.
type Config struct {
	Port string
	// Strict включает серверную проверку ходов (см. rooms.Config.Strict).
	Strict bool
	// AllowedOrigins - белый список Origin для /ws. Пустой - разрешены все.
	AllowedOrigins []string
}

func NewConfig() Config {
	return Config{Port: "3001"}
}

type Server struct {
	cfg   Config
	Rooms *rooms.Registry
	Hub   *network.Broadcaster

	handlers map[domain.EventType]HandlerFunc
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	log      *logrus.Entry
}

func New(cfg Config, reg *rooms.Registry) *Server {
	s := &Server{
		cfg:   cfg,
		Rooms: reg,
		Hub:   network.NewBroadcaster(),
		log:   logger.Component("server"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.registerHandlers()
	return s
}

// Handler собирает все роуты. Отдельно от Run, чтобы тесты могли
// поднять его через httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /create-room", s.handleCreateRoom)
	mux.HandleFunc("GET /room/{roomId}", s.handleGetRoom)
	mux.HandleFunc("GET /rooms", s.handleListRooms)

	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)

	debugHandler := NewDebugHandler(s.Rooms, s.Hub)
	debugHandler.RegisterRoutes(mux)

	// Preflight для браузерного клиента с другого origin
	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return enableCORS(mux)
}

// Run запускает HTTP сервер и блокируется до Shutdown.
func (s *Server) Run() error {
	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.WithFields(logrus.Fields{
		"port":   s.cfg.Port,
		"strict": s.cfg.Strict,
	}).Info("Jungle server running")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown перестает принимать соединения и ждет активные HTTP-запросы.
// Websocket-соединения (hijacked) закрываются вместе с процессом.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	// Не-браузерные клиенты (бот) Origin не шлют
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	s.log.WithField("origin", origin).Warn("Origin rejected")
	return false
}

// --- HTTP API комнат ---

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	room := s.Rooms.Create()
	writeJSON(w, api.CreateRoomResponse{RoomID: room.ID})
}

// GET /room/{roomId}: отсутствие комнаты - это {"room": null}, а не 404.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	info, ok := s.Rooms.Info(r.PathValue("roomId"))
	if !ok {
		writeJSON(w, api.GetRoomResponse{})
		return
	}
	writeJSON(w, api.GetRoomResponse{Room: &api.RoomView{
		ReadyPlayers: info.ReadyPlayers,
		OpponentName: info.OpponentName,
	}})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.ListRoomsResponse{Rooms: s.Rooms.List()})
}

// --- Служебные ---

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Upgrade error")
		return
	}

	client := NewClient(s, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Info())
}
