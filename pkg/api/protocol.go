package api

import (
	"encoding/json"
	"fmt"

	"jungle-server/internal/domain"
)

// Envelope это корневой объект кадра websocket в обе стороны.
//
//	{"event": "MOVE", "payload": {...}}
//
// Структура Payload зависит от Event (см. domain.EventType).
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope упаковывает payload в кадр. payload == nil дает кадр без данных.
func NewEnvelope(event domain.EventType, payload any) (Envelope, error) {
	env := Envelope{Event: event.String()}
	if payload == nil {
		return env, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	env.Payload = raw
	return env, nil
}

// --- КЛИЕНТ -> СЕРВЕР ---

// Delta - клетка доски в формате клиента.
type Delta struct {
	Row int `json:"row" validate:"min=0,max=8"`
	Col int `json:"col" validate:"min=0,max=6"`
}

func (d Delta) Square() domain.Square {
	return domain.Square{Row: d.Row, Col: d.Col}
}

func DeltaOf(sq domain.Square) Delta {
	return Delta{Row: sq.Row, Col: sq.Col}
}

// RoomPayload - запрос на вход в комнату (ROOM).
// Пустое PlayerName означает "сгенерируй имя за меня".
type RoomPayload struct {
	RoomID     string `json:"roomId" validate:"required,max=64"`
	PlayerName string `json:"playerName" validate:"max=32"`
}

// MovePayload - ход (MOVE). В обычном режиме сервер пересылает его
// сопернику как есть, не проверяя ни правила, ни клетки.
type MovePayload struct {
	RoomID   string `json:"roomId" validate:"required,max=64"`
	MoveFrom Delta  `json:"moveFrom"`
	MoveTo   Delta  `json:"moveTo"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// JoinedPayload подтверждает вход в комнату тому, кто вошел (JOINED).
// Seat - "B" для хоста (первого вошедшего), "W" для второго.
type JoinedPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Seat       string `json:"seat"`
}

// Коды ошибок в ErrorPayload.
const (
	CodeRoomNotFound = "ROOM_NOT_FOUND"
	CodeRoomFull     = "ROOM_FULL"
	CodeIllegalMove  = "ILLEGAL_MOVE"
	CodeBadPayload   = "BAD_PAYLOAD"
)

// ErrorPayload - отказ на запрос клиента (ERROR).
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// PLAYER_JOINED несет голую строку (имя соперника), PLAY от сервера - голый
// bool canPlay, PLAYER_DISCONNECT - без данных. Отдельных структур для них нет.

// --- HTTP ---

// CreateRoomResponse - ответ POST /create-room.
type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

// RoomView - публичное состояние комнаты.
// OpponentName заполнено только когда в комнате ровно один игрок.
type RoomView struct {
	ReadyPlayers int    `json:"readyPlayers"`
	OpponentName string `json:"opponentName,omitempty"`
}

// GetRoomResponse - ответ GET /room/{roomId}. Room == nil сериализуется
// в {"room": null}, это штатный ответ, а не ошибка.
type GetRoomResponse struct {
	Room *RoomView `json:"room"`
}

// ListRoomsResponse - ответ GET /rooms.
type ListRoomsResponse struct {
	Rooms []string `json:"rooms"`
}
