package rooms

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"jungle-server/internal/domain"
	"jungle-server/internal/engine"
)

// Capacity - комната всегда на двоих.
const Capacity = 2

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrRoomNotFull   = errors.New("room is waiting for a second player")
	ErrAlreadySeated = errors.New("connection already seated in a room")
	ErrNotSeated     = errors.New("connection is not seated in this room")
	ErrNotYourTurn   = errors.New("not your turn")
)

// ConnID - идентификатор websocket-соединения.
type ConnID string

// Player - легкая запись об игроке в комнате.
type Player struct {
	Conn   ConnID       `json:"-"`
	Name   string       `json:"name"`
	RoomID string       `json:"roomId"`
	Seat   domain.Owner `json:"seat"`
}

// Room - пара игроков одной партии.
//
// Порядок мест: seats[0] - хост (черные), seats[1] - гость (белые).
// Все поля под mu. Членство меняет только Registry (под своим локом).
type Room struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	seats  []*Player
	strict bool
	cfg    engine.Config

	// session != nil только в strict-режиме после PLAY
	session *engine.Session
}

func newRoom(id string, strict bool, cfg engine.Config) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		seats:     make([]*Player, 0, Capacity),
		strict:    strict,
		cfg:       cfg,
	}
}

// seatOwner: первое место - черные, второе - белые.
func seatOwner(i int) domain.Owner {
	if i == 0 {
		return domain.Black
	}
	return domain.White
}

// --- Членство (вызывается из Registry) ---

func (r *Room) join(conn ConnID, name string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.seats) >= Capacity {
		return Player{}, ErrRoomFull
	}
	p := &Player{Conn: conn, Name: name, RoomID: r.ID, Seat: seatOwner(len(r.seats))}
	r.seats = append(r.seats, p)
	return *p, nil
}

// leave убирает игрока и пересаживает оставшихся: оставшийся становится хостом.
// Партия в strict-режиме сбрасывается, новая начнется со следующего PLAY.
func (r *Room) leave(conn ConnID) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(conn)
	if idx < 0 {
		return Player{}, false
	}
	left := *r.seats[idx]
	r.seats = append(r.seats[:idx], r.seats[idx+1:]...)
	r.reseat()
	r.session = nil
	return left, true
}

func (r *Room) indexOf(conn ConnID) int {
	for i, p := range r.seats {
		if p.Conn == conn {
			return i
		}
	}
	return -1
}

func (r *Room) reseat() {
	for i, p := range r.seats {
		p.Seat = seatOwner(i)
	}
}

// --- Запросы ---

func (r *Room) CountPlayers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seats)
}

// Players возвращает копии записей в порядке мест.
func (r *Room) Players() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Player, len(r.seats))
	for i, p := range r.seats {
		out[i] = *p
	}
	return out
}

// Peers возвращает всех, кроме conn.
func (r *Room) Peers(conn ConnID) []Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Player
	for _, p := range r.seats {
		if p.Conn != conn {
			out = append(out, *p)
		}
	}
	return out
}

func (r *Room) IsStrict() bool { return r.strict }

// --- Партия (strict) ---

// StartGame обрабатывает PLAY от conn. Комната должна быть полной.
// Отправитель PLAY становится хостом и играет черными.
// В strict-режиме комната заводит свою авторитетную сессию.
func (r *Room) StartGame(conn ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(conn)
	if idx < 0 {
		return ErrNotSeated
	}
	if len(r.seats) < Capacity {
		return ErrRoomNotFull
	}

	if idx != 0 {
		r.seats[0], r.seats[idx] = r.seats[idx], r.seats[0]
		r.reseat()
	}

	if !r.strict {
		return nil
	}
	r.session = engine.NewSession(r.cfg)
	return r.session.Start()
}

// ApplyMove проверяет ход отправителя по авторитетной сессии.
// Вне strict-режима всегда nil: сервер ходы не проверяет.
func (r *Room) ApplyMove(conn ConnID, from, to domain.Square) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.strict {
		return nil
	}

	idx := r.indexOf(conn)
	if idx < 0 {
		return ErrNotSeated
	}
	if r.session == nil {
		return engine.ErrNotPlaying
	}
	if seat := r.seats[idx].Seat; seat != r.session.Turn() {
		return fmt.Errorf("%s moved on %s's turn: %w", seat, r.session.Turn(), ErrNotYourTurn)
	}
	return r.session.Apply(from, to)
}

// GameState - снимок авторитетной партии для debug.
type GameState struct {
	Status string       `json:"status"`
	Turn   domain.Owner `json:"turn"`
	Winner domain.Owner `json:"winner"`
	Moves  int          `json:"moves"`
	Board  [][]string   `json:"board"`
}

// Game возвращает снимок strict-сессии; false, если партии нет.
func (r *Room) Game() (GameState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return GameState{}, false
	}
	b := r.session.Board()
	return GameState{
		Status: r.session.Status().String(),
		Turn:   r.session.Turn(),
		Winner: r.session.Winner(),
		Moves:  len(r.session.History()),
		Board:  b.Codes(),
	}, true
}
