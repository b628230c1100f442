package engine

import (
	"jungle-server/internal/domain"
	"jungle-server/internal/systems"
)

// OpponentProvider выбирает ход за компьютерного соперника.
// Любая политика, возвращающая один допустимый ход, подходит.
// Второе значение false означает "хода нет".
type OpponentProvider interface {
	NextMove(board domain.Board, side domain.Owner) (systems.Move, bool)
}

// OpponentFunc позволяет использовать обычную функцию как OpponentProvider.
type OpponentFunc func(board domain.Board, side domain.Owner) (systems.Move, bool)

func (f OpponentFunc) NextMove(board domain.Board, side domain.Owner) (systems.Move, bool) {
	return f(board, side)
}
