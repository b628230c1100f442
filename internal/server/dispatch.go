package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"jungle-server/internal/domain"
	"jungle-server/internal/rooms"
	"jungle-server/pkg/api"

	"github.com/sirupsen/logrus"
)

// Context передает хендлеру данные о соединении.
type Context struct {
	Conn rooms.ConnID
	// Raw - payload как пришел, для пересылки соседу без изменений
	Raw json.RawMessage
	Log *logrus.Entry
}

// HandlerFunc - контракт для любого события протокола (ROOM, PLAY, MOVE).
// Ошибка с api.ErrInvalidPayload превращается в ERROR BAD_PAYLOAD,
// остальные только логируются.
type HandlerFunc func(ctx Context, payload json.RawMessage) error

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) error

// EmptyHandlerFunc - хендлер, которому НЕ нужны данные (PLAY)
type EmptyHandlerFunc func(ctx Context) error

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Она берет на себя Unmarshal и Validate.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) error {
		var payload T

		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("%w: %v", api.ErrInvalidPayload, err)
		}

		// Проверяем, реализует ли структура T интерфейс Validator
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return err
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для событий без данных.
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) error {
		return handler(ctx)
	}
}

func (s *Server) registerHandlers() {
	s.handlers = map[domain.EventType]HandlerFunc{
		domain.EventRoom: WithPayload(s.handleRoom),
		domain.EventPlay: WithEmptyPayload(s.handlePlay),
		domain.EventMove: WithPayload(s.handleMove),
	}
}

func (s *Server) dispatch(c *Client, env api.Envelope) {
	event := domain.ParseEvent(env.Event)
	log := c.log.WithField("event", env.Event)

	handler, ok := s.handlers[event]
	if !ok {
		log.Debug("Unsupported event")
		s.sendError(c.ID, api.CodeBadPayload, "unsupported event "+env.Event)
		return
	}

	ctx := Context{Conn: c.ID, Raw: env.Payload, Log: log}
	if err := handler(ctx, env.Payload); err != nil {
		if errors.Is(err, api.ErrInvalidPayload) {
			log.WithError(err).Debug("Payload rejected")
			s.sendError(c.ID, api.CodeBadPayload, err.Error())
			return
		}
		log.WithError(err).Warn("Handler failed")
	}
}

// send упаковывает payload и кладет кадр в ящик получателя.
func (s *Server) send(to rooms.ConnID, event domain.EventType, payload any) {
	env, err := api.NewEnvelope(event, payload)
	if err != nil {
		s.log.WithError(err).Error("Failed to build frame")
		return
	}
	s.Hub.SendTo(to, env)
}

func (s *Server) sendError(to rooms.ConnID, code, message string) {
	s.send(to, domain.EventError, api.ErrorPayload{Code: code, Message: message})
}
