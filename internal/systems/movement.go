package systems

import (
	"jungle-server/internal/domain"
)

// MoveClass - класс передвижения животного.
type MoveClass uint8

const (
	// ClassLand - шаг на одну клетку, река запрещена.
	ClassLand MoveClass = iota
	// ClassLeap - как Land, но через реку прыгает по прямой (Lion, Tiger).
	ClassLeap
	// ClassSwim - шаг на одну клетку, река разрешена (Mouse).
	ClassSwim
)

// ClassOf возвращает класс передвижения для вида животного.
func ClassOf(kind domain.AnimalKind) MoveClass {
	switch kind {
	case domain.Lion, domain.Tiger:
		return ClassLeap
	case domain.Mouse:
		return ClassSwim
	default:
		return ClassLand
	}
}

// Move - пара клеток "откуда/куда".
type Move struct {
	From domain.Square `json:"from"`
	To   domain.Square `json:"to"`
}

// Порядок направлений: вверх, вниз, влево, вправо.
var directions = [4]struct{ dRow, dCol int }{
	{-1, 0},
	{1, 0},
	{0, -1},
	{0, 1},
}

// LegalMoves возвращает все допустимые клетки назначения для фигуры на from.
// Не меняет доску. Если на from нет фигуры игрока player, возвращает nil.
func LegalMoves(b *domain.Board, player domain.Owner, from domain.Square) []domain.Square {
	if !from.InBounds() {
		return nil
	}
	piece := b.At(from)
	if !piece.IsAnimal() || piece.Owner() != player {
		return nil
	}

	class := ClassOf(piece.Kind())
	var moves []domain.Square

	for _, d := range directions {
		to := from.Shift(d.dRow, d.dCol)

		switch class {
		case ClassSwim:
			if canSwimTo(b, player, from, to) {
				moves = append(moves, to)
			}

		case ClassLeap:
			if domain.IsRiver(to) {
				landing, ok := leapLanding(b, from, d.dRow, d.dCol)
				if !ok {
					// Мышь на пути: в этом направлении хода нет вообще
					continue
				}
				to = landing
			}
			if canWalkTo(b, player, from, to) {
				moves = append(moves, to)
			}

		default:
			if canWalkTo(b, player, from, to) {
				moves = append(moves, to)
			}
		}
	}

	return moves
}

// leapLanding проходит реку по прямой от from и возвращает первую клетку
// суши за ней. Возвращает false, если на пути через реку стоит любая мышь.
func leapLanding(b *domain.Board, from domain.Square, dRow, dCol int) (domain.Square, bool) {
	cur := from.Shift(dRow, dCol)
	for domain.IsRiver(cur) {
		if p := b.At(cur); p.IsAnimal() && p.Kind() == domain.Mouse {
			return domain.Square{}, false
		}
		cur = cur.Shift(dRow, dCol)
	}
	return cur, true
}

// canWalkTo - общие ограничения для Land и Leap.
func canWalkTo(b *domain.Board, player domain.Owner, from, to domain.Square) bool {
	if !to.InBounds() || domain.IsRiver(to) || domain.IsDen(to, player) || from == to {
		return false
	}
	return canEnter(b, player, from, to)
}

// canSwimTo - то же, что canWalkTo, но река разрешена.
func canSwimTo(b *domain.Board, player domain.Owner, from, to domain.Square) bool {
	if !to.InBounds() || domain.IsDen(to, player) || from == to {
		return false
	}
	return canEnter(b, player, from, to)
}

// IsLegalMove проверяет, что to входит в LegalMoves для from.
func IsLegalMove(b *domain.Board, player domain.Owner, from, to domain.Square) bool {
	for _, sq := range LegalMoves(b, player, from) {
		if sq == to {
			return true
		}
	}
	return false
}

// CanSelect: клетку можно выбрать, если на ней фигура игрока и у нее есть ход.
func CanSelect(b *domain.Board, player domain.Owner, from domain.Square) bool {
	return len(LegalMoves(b, player, from)) > 0
}

// AllMoves перечисляет все допустимые ходы стороны player.
func AllMoves(b *domain.Board, player domain.Owner) []Move {
	var out []Move
	for _, from := range b.Pieces(player) {
		for _, to := range LegalMoves(b, player, from) {
			out = append(out, Move{From: from, To: to})
		}
	}
	return out
}
