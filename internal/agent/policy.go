package agent

import (
	"math/rand"
	"sync"

	"jungle-server/internal/domain"
	"jungle-server/internal/engine"
	"jungle-server/internal/systems"
)

var (
	_ engine.OpponentProvider = (*RandomPolicy)(nil)
	_ engine.OpponentProvider = (*GreedyPolicy)(nil)
)

// RandomPolicy выбирает равновероятно среди всех допустимых ходов.
type RandomPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPolicy) NextMove(b domain.Board, side domain.Owner) (systems.Move, bool) {
	moves := systems.AllMoves(&b, side)
	if len(moves) == 0 {
		return systems.Move{}, false
	}
	return moves[p.intn(len(moves))], true
}

func (p *RandomPolicy) intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

// GreedyPolicy смотрит на один ход вперед:
//  1. вход в логово соперника (сразу победа);
//  2. взятие самой старшей фигуры;
//  3. иначе случайный ход.
type GreedyPolicy struct {
	fallback *RandomPolicy
}

func NewGreedyPolicy(seed int64) *GreedyPolicy {
	return &GreedyPolicy{fallback: NewRandomPolicy(seed)}
}

func (p *GreedyPolicy) NextMove(b domain.Board, side domain.Owner) (systems.Move, bool) {
	moves := systems.AllMoves(&b, side)
	if len(moves) == 0 {
		return systems.Move{}, false
	}

	den := domain.DenOf(side.Opponent())
	best, bestRank := -1, -1
	for i, m := range moves {
		if m.To == den {
			return m, true
		}
		if target := b.At(m.To); target.IsAnimal() && target.Kind().Rank() > bestRank {
			best, bestRank = i, target.Kind().Rank()
		}
	}
	if best >= 0 {
		return moves[best], true
	}

	return moves[p.fallback.intn(len(moves))], true
}
