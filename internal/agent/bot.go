package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jungle-server/internal/domain"
	"jungle-server/internal/engine"
	"jungle-server/pkg/api"
	"jungle-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

var ErrJoinRejected = errors.New("join rejected")

// Bot - "Игрок-компьютер" (Headless Agent).
// Это ВНЕШНИЙ клиент: он подключается к /ws так же, как браузер,
// и ведет свою локальную копию партии (engine.Session).
//
// Жизненный цикл:
//  1. Run -> Dial, отправка ROOM.
//  2. Хост (место "B") ждет PLAYER_JOINED, шлет PLAY и делает первый ход.
//     Гость (место "W") ждет PLAY с canPlay=true.
//  3. На каждый MOVE соперника бот применяет его у себя и отвечает своим ходом.
//  4. Партия окончена -> Run возвращает nil.
type Bot struct {
	URL    string
	RoomID string
	Name   string
	Policy engine.OpponentProvider

	cfg     Config
	conn    *websocket.Conn
	side    domain.Owner
	session *engine.Session
	log     *logrus.Entry

	// Счетчики читаются после возврата Run
	plies   int
	desyncs int
}

func NewBot(url, roomID, name string, policy engine.OpponentProvider, cfg Config) *Bot {
	return &Bot{
		URL:    url,
		RoomID: roomID,
		Name:   name,
		Policy: policy,
		cfg:    cfg,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "bot",
			"room_id":   roomID,
		}),
	}
}

// Side возвращает место бота. Валидно после JOINED.
func (b *Bot) Side() domain.Owner { return b.side }

// Plies - сколько ходов (своих и чужих) применено к локальной партии.
func (b *Bot) Plies() int { return b.plies }

// Desyncs - сколько присланных ходов соперника локальная партия отвергла.
func (b *Bot) Desyncs() int { return b.desyncs }

// Board возвращает доску локальной партии; false, если партии нет.
func (b *Bot) Board() (domain.Board, bool) {
	if b.session == nil {
		return domain.Board{}, false
	}
	return b.session.Board(), true
}

// Run подключается к серверу и играет одну партию.
// Возвращает nil, когда партия закончилась, или ошибку соединения/входа.
func (b *Bot) Run(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, b.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", b.URL, err)
	}
	b.conn = conn
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := b.send(ctx, domain.EventRoom, api.RoomPayload{RoomID: b.RoomID, PlayerName: b.Name}); err != nil {
		return err
	}

	for {
		var env api.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		done, err := b.handle(ctx, env)
		if err != nil {
			return err
		}
		if done {
			b.log.WithField("winner", b.session.Winner().String()).Info("Game over")
			return nil
		}
	}
}

func (b *Bot) handle(ctx context.Context, env api.Envelope) (bool, error) {
	switch domain.ParseEvent(env.Event) {
	case domain.EventJoined:
		var p api.JoinedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, fmt.Errorf("decode JOINED: %w", err)
		}
		b.side = domain.ParseOwner(p.Seat)
		b.Name = p.PlayerName
		b.log.WithField("seat", p.Seat).Info("Joined room")

	case domain.EventPlayerJoined:
		var name string
		_ = json.Unmarshal(env.Payload, &name)
		b.log.WithField("opponent", name).Info("Opponent joined")
		if b.side == domain.Black {
			if err := b.send(ctx, domain.EventPlay, nil); err != nil {
				return false, err
			}
			b.startGame()
			return b.play(ctx)
		}

	case domain.EventPlay:
		var canPlay bool
		_ = json.Unmarshal(env.Payload, &canPlay)
		if canPlay {
			b.startGame()
		}

	case domain.EventMove:
		return b.onOpponentMove(ctx, env.Payload)

	case domain.EventPlayerDisconnect:
		// Оставшийся игрок становится хостом и ждет нового соперника
		b.log.Info("Opponent disconnected")
		b.side = domain.Black
		b.session = nil

	case domain.EventError:
		var p api.ErrorPayload
		_ = json.Unmarshal(env.Payload, &p)
		switch p.Code {
		case api.CodeRoomNotFound, api.CodeRoomFull:
			return false, fmt.Errorf("%w: %s", ErrJoinRejected, p.Code)
		default:
			b.log.WithFields(logrus.Fields{"code": p.Code, "message": p.Message}).Warn("Server error")
		}
	}
	return false, nil
}

func (b *Bot) startGame() {
	b.session = engine.NewSession(engine.NewConfig())
	_ = b.session.Start()
	b.log.WithField("side", b.side.String()).Info("Game started")
}

func (b *Bot) onOpponentMove(ctx context.Context, raw json.RawMessage) (bool, error) {
	if b.session == nil {
		return false, nil
	}

	var p api.MovePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		b.log.WithError(err).Warn("Bad MOVE payload")
		return false, nil
	}
	if err := b.session.Apply(p.MoveFrom.Square(), p.MoveTo.Square()); err != nil {
		// Сервер не проверяет ходы: рассинхрон возможен, бот просто ждет дальше
		b.desyncs++
		b.log.WithError(err).Warn("Relayed move rejected locally")
		return false, nil
	}
	b.plies++
	if b.session.Status() == engine.StatusEnded {
		return true, nil
	}
	return b.play(ctx)
}

// play делает ход, если сейчас очередь бота.
func (b *Bot) play(ctx context.Context) (bool, error) {
	if b.session == nil || b.session.Turn() != b.side {
		return false, nil
	}

	if b.cfg.Delay > 0 {
		select {
		case <-time.After(b.cfg.Delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	m, ok := b.Policy.NextMove(b.session.Board(), b.side)
	if !ok {
		b.log.Warn("Policy has no move")
		return false, nil
	}
	if err := b.session.Apply(m.From, m.To); err != nil {
		b.log.WithError(err).Warn("Policy chose an illegal move")
		return false, nil
	}
	b.plies++

	payload := api.MovePayload{
		RoomID:   b.RoomID,
		MoveFrom: api.DeltaOf(m.From),
		MoveTo:   api.DeltaOf(m.To),
	}
	if err := b.send(ctx, domain.EventMove, payload); err != nil {
		return false, err
	}
	return b.session.Status() == engine.StatusEnded, nil
}

func (b *Bot) send(ctx context.Context, event domain.EventType, payload any) error {
	env, err := api.NewEnvelope(event, payload)
	if err != nil {
		return err
	}
	if err := wsjson.Write(ctx, b.conn, env); err != nil {
		return fmt.Errorf("write %s: %w", event, err)
	}
	return nil
}
