package systems

import (
	"jungle-server/internal/domain"
)

// canEnter - финальная проверка клетки назначения (после проверок рельефа).
//
// Порядок правил:
//  1. пустая клетка (суша, река, пустая ловушка/логово) - можно;
//  2. своя фигура - нельзя;
//  3. фигура соперника в СВОЕЙ ловушке - можно при любом ранге;
//  4. сравнение рангов с исключением слон/мышь.
func canEnter(b *domain.Board, player domain.Owner, from, to domain.Square) bool {
	defender := b.At(to)
	if defender.IsEmpty() {
		return true
	}
	if defender.Owner() == player {
		return false
	}
	if domain.IsTrap(to, player) {
		return true
	}

	attacker := b.At(from)
	return CanCapture(attacker.Kind(), defender.Kind(), domain.IsRiver(from))
}

// CanCapture сравнивает ранги атакующего и защитника вне ловушки.
// attackerInRiver учитывается только для мыши: из реки слона не бьют.
func CanCapture(attacker, defender domain.AnimalKind, attackerInRiver bool) bool {
	if attacker.Rank() >= defender.Rank() {
		// Слон никогда не бьет мышь
		return !(attacker == domain.Elephant && defender == domain.Mouse)
	}
	if attacker == domain.Mouse && defender == domain.Elephant {
		return !attackerInRiver
	}
	return false
}
