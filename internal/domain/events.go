package domain

import "strings"

// EventType - внутренний числовой идентификатор события протокола комнаты.
type EventType uint8

const (
	EventUnknown EventType = iota
	EventRoom
	EventJoined
	EventPlayerJoined
	EventPlay
	EventMove
	EventPlayerDisconnect
	EventError
)

// Маппинг для конвертации JSON -> Domain
var eventStringToType = map[string]EventType{
	"ROOM":              EventRoom,
	"JOINED":            EventJoined,
	"PLAYER_JOINED":     EventPlayerJoined,
	"PLAY":              EventPlay,
	"MOVE":              EventMove,
	"PLAYER_DISCONNECT": EventPlayerDisconnect,
	"ERROR":             EventError,
}

// Маппинг для логов и исходящих сообщений Domain -> String
var eventTypeToString = map[EventType]string{
	EventRoom:             "ROOM",
	EventJoined:           "JOINED",
	EventPlayerJoined:     "PLAYER_JOINED",
	EventPlay:             "PLAY",
	EventMove:             "MOVE",
	EventPlayerDisconnect: "PLAYER_DISCONNECT",
	EventError:            "ERROR",
}

// ParseEvent конвертирует имя события из JSON в EventType.
func ParseEvent(s string) EventType {
	// Делаем нечувствительным к регистру: socket.io клиенты шлют "move"
	upper := strings.ToUpper(s)
	if val, ok := eventStringToType[upper]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer
func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}
