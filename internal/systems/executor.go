package systems

import (
	"jungle-server/internal/domain"
	"jungle-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MoveOutcome - результат применения хода.
type MoveOutcome struct {
	Previous domain.Board
	Next     domain.Board
	Captured domain.Piece // фигура соперника, снятая с клетки назначения (если была)
	Winner   domain.Owner // NoOwner, если партия продолжается
}

// ApplyMove применяет ход к копии доски. Легальность НЕ проверяется:
// вызывающий обязан сначала свериться с LegalMoves.
//
// Клетка from возвращается к своему рельефу (суша, река, пустая ловушка),
// на клетку to ставится фигура, затирая прежнее содержимое.
func ApplyMove(b domain.Board, from, to domain.Square) MoveOutcome {
	next := b
	piece := b.At(from)
	captured := b.At(to)

	next.Set(from, domain.TerrainAt(from))
	next.Set(to, piece)

	out := MoveOutcome{
		Previous: b,
		Next:     next,
		Winner:   Winner(&next),
	}
	if captured.IsAnimal() {
		out.Captured = captured
		logger.Log.WithFields(logrus.Fields{
			"component": "executor",
			"attacker":  piece.String(),
			"defender":  captured.String(),
			"square":    to.String(),
		}).Debug("Piece captured")
	}
	return out
}

// Winner проверяет оба логова. Если в логове стоит не его пустой маркер,
// побеждает владелец стоящей там фигуры. Сначала проверяется логово черных.
func Winner(b *domain.Board) domain.Owner {
	for _, owner := range []domain.Owner{domain.Black, domain.White} {
		den := domain.DenOf(owner)
		p := b.At(den)
		if p == domain.Den(owner) {
			continue
		}
		if p.IsAnimal() {
			return p.Owner()
		}
		return owner.Opponent()
	}
	return domain.NoOwner
}
