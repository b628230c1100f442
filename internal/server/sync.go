package server

import (
	"errors"
	"strings"

	"jungle-server/internal/domain"
	"jungle-server/internal/rooms"
	"jungle-server/pkg/api"
	"jungle-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// handleRoom - ROOM {roomId, playerName}: посадить соединение в комнату.
// Отказ (нет комнаты, полна) - штатный исход: никаких PLAYER_JOINED.
func (s *Server) handleRoom(ctx Context, p api.RoomPayload) error {
	name := strings.TrimSpace(p.PlayerName)
	if name == "" {
		name = utils.GenerateName()
	}

	player, err := s.Rooms.Join(p.RoomID, ctx.Conn, name)
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		s.sendError(ctx.Conn, api.CodeRoomNotFound, "room "+p.RoomID+" does not exist")
		return nil
	case errors.Is(err, rooms.ErrRoomFull):
		s.sendError(ctx.Conn, api.CodeRoomFull, "room "+p.RoomID+" is full")
		return nil
	case errors.Is(err, rooms.ErrAlreadySeated):
		s.sendError(ctx.Conn, api.CodeBadPayload, "connection already joined a room")
		return nil
	case err != nil:
		return err
	}

	s.send(ctx.Conn, domain.EventJoined, api.JoinedPayload{
		RoomID:     player.RoomID,
		PlayerName: player.Name,
		Seat:       player.Seat.String(),
	})

	room, ok := s.Rooms.Get(p.RoomID)
	if !ok {
		return nil
	}
	for _, peer := range room.Peers(ctx.Conn) {
		s.send(peer.Conn, domain.EventPlayerJoined, player.Name)
	}
	return nil
}

// handlePlay - хост начинает партию. Соседу уходит PLAY true,
// только если комната полная.
func (s *Server) handlePlay(ctx Context) error {
	room, ok := s.Rooms.RoomOf(ctx.Conn)
	if !ok {
		ctx.Log.Debug("PLAY from a connection outside any room")
		return nil
	}

	if err := room.StartGame(ctx.Conn); err != nil {
		if errors.Is(err, rooms.ErrRoomNotFull) {
			ctx.Log.Debug("PLAY ignored: waiting for opponent")
			return nil
		}
		return err
	}

	ctx.Log.WithField("room_id", room.ID).Info("Game started")
	for _, peer := range room.Peers(ctx.Conn) {
		s.send(peer.Conn, domain.EventPlay, true)
	}
	return nil
}

// handleMove пересылает ход соседу без изменений.
// В strict-режиме ход сначала проверяется авторитетной сессией комнаты,
// клетки вне доски дают BAD_PAYLOAD.
func (s *Server) handleMove(ctx Context, p api.MovePayload) error {
	room, ok := s.Rooms.RoomOf(ctx.Conn)
	if !ok || room.ID != p.RoomID {
		s.sendError(ctx.Conn, api.CodeRoomNotFound, "not seated in room "+p.RoomID)
		return nil
	}

	if room.IsStrict() {
		if err := p.ValidateSquares(); err != nil {
			return err
		}
	}

	from, to := p.MoveFrom.Square(), p.MoveTo.Square()
	if err := room.ApplyMove(ctx.Conn, from, to); err != nil {
		ctx.Log.WithFields(logrus.Fields{
			"room_id": room.ID,
			"from":    from.String(),
			"to":      to.String(),
		}).WithError(err).Info("Move rejected")
		s.sendError(ctx.Conn, api.CodeIllegalMove, err.Error())
		return nil
	}

	for _, peer := range room.Peers(ctx.Conn) {
		s.Hub.SendTo(peer.Conn, api.Envelope{
			Event:   domain.EventMove.String(),
			Payload: ctx.Raw,
		})
	}
	return nil
}

// disconnect - уход соединения: освобождаем место и сообщаем соседу.
func (s *Server) disconnect(conn rooms.ConnID) {
	res, ok := s.Rooms.Leave(conn)
	if !ok {
		return
	}
	for _, peer := range res.Remaining {
		s.send(peer.Conn, domain.EventPlayerDisconnect, nil)
	}
}
