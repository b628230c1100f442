package engine

import (
	"errors"
	"fmt"

	"jungle-server/internal/domain"
	"jungle-server/internal/systems"
	"jungle-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotReady     = errors.New("game already started")
	ErrNotPlaying   = errors.New("game is not in progress")
	ErrIllegalMove  = errors.New("illegal move")
	ErrNoOpponent   = errors.New("session has no opponent provider")
	ErrOpponentMove = errors.New("opponent provider returned no legal move")
)

// Status - состояние партии.
type Status uint8

const (
	StatusReady Status = iota
	StatusPlaying
	// StatusPaused объявлен, но ни один переход в него не ведет.
	StatusPaused
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MoveResult - то, что видит вызывающий после Move: новый статус, чей ход,
// победитель и ответный ход компьютера (только в локальном режиме).
type MoveResult struct {
	Applied bool
	Status  Status
	Turn    domain.Owner
	Winner  domain.Owner
	Reply   *systems.Move
}

// Session - одна партия: доска, очередь хода, статус и история досок.
//
// Session не потокобезопасна. В сетевом режиме ее владелец (комната или
// клиент) сериализует вызовы сам.
type Session struct {
	cfg Config

	board   domain.Board
	turn    domain.Owner
	status  Status
	winner  domain.Owner
	history []domain.Board

	// opponent == nil в сетевом режиме
	opponent OpponentProvider

	log *logrus.Entry
}

// NewSession создает сессию для сетевой игры: оба хода (свой и соперника)
// подаются через Move.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:    cfg,
		board:  domain.EmptyBoard(),
		turn:   domain.NoOwner,
		status: StatusReady,
		log:    logger.Component("session"),
	}
}

// NewLocalSession создает одиночную игру против OpponentProvider.
func NewLocalSession(cfg Config, opponent OpponentProvider) *Session {
	s := NewSession(cfg)
	s.opponent = opponent
	return s
}

// Start: Ready -> Playing. Ставит стартовую расстановку, первыми ходят черные.
func (s *Session) Start() error {
	if s.status != StatusReady {
		return fmt.Errorf("start in status %s: %w", s.status, ErrNotReady)
	}
	s.board = domain.InitialBoard()
	s.turn = domain.Black
	s.status = StatusPlaying
	s.log.Debug("Game started")

	// Компьютер за черных открывает партию сам
	if s.opponent != nil && s.turn == s.cfg.OpponentSide {
		if _, err := s.PlayOpponent(); err != nil {
			s.log.WithError(err).Warn("Opponent failed to open the game")
		}
	}
	return nil
}

// --- Запросы ---

// Board возвращает копию текущей доски.
func (s *Session) Board() domain.Board { return s.board }

func (s *Session) Turn() domain.Owner   { return s.turn }
func (s *Session) Status() Status       { return s.status }
func (s *Session) Winner() domain.Owner { return s.winner }
func (s *Session) IsLocal() bool        { return s.opponent != nil }

// History возвращает копию истории (доски ДО каждого принятого хода).
func (s *Session) History() []domain.Board {
	out := make([]domain.Board, len(s.history))
	copy(out, s.history)
	return out
}

// PieceAt возвращает содержимое клетки; вне доски - пустая суша.
func (s *Session) PieceAt(sq domain.Square) domain.Piece {
	if !sq.InBounds() {
		return domain.Land()
	}
	return s.board.At(sq)
}

// CanSelect: идет игра, на клетке фигура стороны, чей ход, и у нее есть ход.
func (s *Session) CanSelect(sq domain.Square) bool {
	if s.status != StatusPlaying {
		return false
	}
	return systems.CanSelect(&s.board, s.turn, sq)
}

// Moves возвращает ходы для выбранной клетки; пусто, если ее нельзя выбрать.
func (s *Session) Moves(sq domain.Square) []domain.Square {
	if s.status != StatusPlaying {
		return nil
	}
	return systems.LegalMoves(&s.board, s.turn, sq)
}

func (s *Session) IsRiver(sq domain.Square) bool                   { return domain.IsRiver(sq) }
func (s *Session) IsTrap(sq domain.Square, owner domain.Owner) bool { return domain.IsTrap(sq, owner) }
func (s *Session) IsDen(sq domain.Square, owner domain.Owner) bool  { return domain.IsDen(sq, owner) }
func (s *Session) IsLand(sq domain.Square) bool                    { return domain.IsLand(sq) }

// --- Ходы ---

// Apply проверяет и применяет ход стороны, чей сейчас ход.
// Возвращает ErrNotPlaying или ErrIllegalMove, не меняя состояние.
func (s *Session) Apply(from, to domain.Square) error {
	if s.status != StatusPlaying {
		return ErrNotPlaying
	}
	if !systems.IsLegalMove(&s.board, s.turn, from, to) {
		return fmt.Errorf("%s %v->%v: %w", s.turn, from, to, ErrIllegalMove)
	}

	out := systems.ApplyMove(s.board, from, to)
	s.pushHistory(out.Previous)
	s.board = out.Next

	if out.Winner != domain.NoOwner {
		s.winner = out.Winner
		s.status = StatusEnded
		s.log.WithField("winner", s.winner.String()).Info("Game ended")
		return nil
	}

	s.turn = s.turn.Opponent()
	return nil
}

// Move - интерактивный ход. Недопустимый ход - не ошибка, а no-op
// (Applied=false). В локальном режиме человек ходит только за свою сторону,
// после его хода сразу выполняется ответ компьютера.
func (s *Session) Move(from, to domain.Square) MoveResult {
	if s.opponent != nil && s.turn == s.cfg.OpponentSide {
		s.log.WithField("side", s.turn.String()).Debug("Move ignored: opponent's turn")
		return s.result(false, nil)
	}
	if err := s.Apply(from, to); err != nil {
		s.log.WithError(err).Debug("Move ignored")
		return s.result(false, nil)
	}

	if s.opponent == nil || s.status != StatusPlaying || s.turn != s.cfg.OpponentSide {
		return s.result(true, nil)
	}

	reply, err := s.PlayOpponent()
	if err != nil {
		s.log.WithError(err).Warn("Opponent failed to move")
		return s.result(true, nil)
	}
	return s.result(true, &reply)
}

// PlayOpponent запрашивает ход у OpponentProvider и применяет его.
// Ход провайдера проверяется так же, как ход человека.
func (s *Session) PlayOpponent() (systems.Move, error) {
	if s.opponent == nil {
		return systems.Move{}, ErrNoOpponent
	}
	if s.status != StatusPlaying {
		return systems.Move{}, ErrNotPlaying
	}

	m, ok := s.opponent.NextMove(s.board, s.turn)
	if !ok {
		return systems.Move{}, ErrOpponentMove
	}
	if err := s.Apply(m.From, m.To); err != nil {
		return systems.Move{}, fmt.Errorf("%w: %v", ErrOpponentMove, err)
	}
	return m, nil
}

func (s *Session) pushHistory(b domain.Board) {
	s.history = append(s.history, b)
	if limit := s.cfg.HistoryLimit; limit > 0 && len(s.history) > limit {
		s.history = s.history[len(s.history)-limit:]
	}
}

func (s *Session) result(applied bool, reply *systems.Move) MoveResult {
	return MoveResult{
		Applied: applied,
		Status:  s.status,
		Turn:    s.turn,
		Winner:  s.winner,
		Reply:   reply,
	}
}
