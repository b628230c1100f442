package rooms

import (
	"sort"
	"sync"

	"jungle-server/internal/engine"
	"jungle-server/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Config - параметры реестра комнат.
type Config struct {
	// Strict включает серверную проверку ходов по авторитетной сессии.
	Strict bool
	Engine engine.Config
}

// Registry - реестр комнат процесса.
//
// Дисциплина блокировок: вставка, удаление и смена членства идут под
// mu.Lock; чтения под mu.RLock. Внутри всегда берется Room.mu, никогда наоборот.
type Registry struct {
	cfg Config

	mu     sync.RWMutex
	rooms  map[string]*Room
	byConn map[ConnID]*Room // одно соединение - не больше одной комнаты

	log *logrus.Entry
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:    cfg,
		rooms:  make(map[string]*Room),
		byConn: make(map[ConnID]*Room),
		log:    logger.Component("rooms"),
	}
}

// Create заводит пустую комнату со свежим UUID.
func (reg *Registry) Create() *Room {
	room := newRoom(uuid.NewString(), reg.cfg.Strict, reg.cfg.Engine)

	reg.mu.Lock()
	reg.rooms[room.ID] = room
	reg.mu.Unlock()

	reg.log.WithField("room_id", room.ID).Info("Room created")
	return room
}

func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	return room, ok
}

// RoomOf возвращает комнату, в которой сидит соединение.
func (reg *Registry) RoomOf(conn ConnID) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.byConn[conn]
	return room, ok
}

// List возвращает id всех комнат по возрастанию.
func (reg *Registry) List() []string {
	reg.mu.RLock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	reg.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Join сажает соединение в комнату.
// Ошибки: ErrRoomNotFound, ErrRoomFull, ErrAlreadySeated.
func (reg *Registry) Join(roomID string, conn ConnID, name string) (Player, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	log := reg.log.WithFields(logrus.Fields{"room_id": roomID, "conn": conn})

	if _, seated := reg.byConn[conn]; seated {
		log.Debug("Join rejected: already seated")
		return Player{}, ErrAlreadySeated
	}
	room, ok := reg.rooms[roomID]
	if !ok {
		log.Debug("Join rejected: no such room")
		return Player{}, ErrRoomNotFound
	}

	p, err := room.join(conn, name)
	if err != nil {
		log.Info("Join rejected: room is full")
		return Player{}, err
	}
	reg.byConn[conn] = room

	log.WithFields(logrus.Fields{"name": p.Name, "seat": p.Seat.String()}).Info("Player joined")
	return p, nil
}

// LeaveResult описывает последствия ухода игрока.
type LeaveResult struct {
	Player    Player
	Remaining []Player
	Deleted   bool
}

// Leave убирает соединение из его комнаты. Опустевшая комната удаляется
// из реестра сразу, без таймаутов. false - соединение нигде не сидело.
func (reg *Registry) Leave(conn ConnID) (LeaveResult, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.byConn[conn]
	if !ok {
		return LeaveResult{}, false
	}
	delete(reg.byConn, conn)

	left, _ := room.leave(conn)
	res := LeaveResult{Player: left, Remaining: room.Players()}

	log := reg.log.WithFields(logrus.Fields{"room_id": room.ID, "name": left.Name})
	log.Info("Player left")

	if len(res.Remaining) == 0 {
		delete(reg.rooms, room.ID)
		res.Deleted = true
		log.Info("Room deleted")
	}
	return res, true
}

// CountPlayers: 0 для отсутствующей комнаты.
func (reg *Registry) CountPlayers(roomID string) int {
	room, ok := reg.Get(roomID)
	if !ok {
		return 0
	}
	return room.CountPlayers()
}

// Info - публичное состояние комнаты для GET /room/{id}.
type Info struct {
	ReadyPlayers int
	// OpponentName заполнено только когда в комнате ровно один игрок
	OpponentName string
}

// Info: только что созданная комната без игроков отдает ReadyPlayers=0,
// а не отсутствие. Она живет до ухода последнего вошедшего.
func (reg *Registry) Info(roomID string) (Info, bool) {
	room, ok := reg.Get(roomID)
	if !ok {
		return Info{}, false
	}
	players := room.Players()
	info := Info{ReadyPlayers: len(players)}
	if len(players) == 1 {
		info.OpponentName = players[0].Name
	}
	return info, true
}

// Snapshot - состояние комнаты для debug.
type Snapshot struct {
	ID        string     `json:"id"`
	Players   []Player   `json:"players"`
	Strict    bool       `json:"strict"`
	Game      *GameState `json:"game,omitempty"`
	CreatedAt string     `json:"createdAt"`
}

// Snapshots возвращает состояние всех комнат в порядке List.
func (reg *Registry) Snapshots() []Snapshot {
	ids := reg.List()
	out := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		room, ok := reg.Get(id)
		if !ok {
			continue
		}
		snap := Snapshot{
			ID:        room.ID,
			Players:   room.Players(),
			Strict:    room.IsStrict(),
			CreatedAt: room.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if g, ok := room.Game(); ok {
			snap.Game = &g
		}
		out = append(out, snap)
	}
	return out
}
