package agent

import (
	"errors"
	"fmt"
	"sync"

	"jungle-server/internal/domain"
	"jungle-server/internal/engine"
	"jungle-server/internal/systems"
	"jungle-server/pkg/logger"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"
)

var ErrNoChooseFunc = errors.New("lua script does not define function choose(moves, side)")

var _ engine.OpponentProvider = (*LuaPolicy)(nil)

// LuaPolicy отдает выбор хода пользовательскому скрипту.
//
// Скрипт обязан объявить глобальную функцию
//
//	function choose(moves, side) ... return index end
//
// moves - массив таблиц {fromRow, fromCol, toRow, toCol, piece, capture, den},
// side - "B" или "W". Функция возвращает индекс хода (с единицы, как принято в Lua).
// Любой другой результат трактуется как "хода нет".
type LuaPolicy struct {
	mu     sync.Mutex // LState не потокобезопасен
	state  *lua.LState
	choose *lua.LFunction
	log    *logrus.Entry
}

// NewLuaPolicy загружает скрипт из строки.
func NewLuaPolicy(script string) (*LuaPolicy, error) {
	return newLuaPolicy(func(L *lua.LState) error { return L.DoString(script) })
}

// LoadLuaPolicy загружает скрипт из файла.
func LoadLuaPolicy(path string) (*LuaPolicy, error) {
	return newLuaPolicy(func(L *lua.LState) error { return L.DoFile(path) })
}

func newLuaPolicy(load func(*lua.LState) error) (*LuaPolicy, error) {
	L := lua.NewState()
	if err := load(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("load lua policy: %w", err)
	}

	fn, ok := L.GetGlobal("choose").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoChooseFunc
	}

	return &LuaPolicy{
		state:  L,
		choose: fn,
		log:    logger.Component("lua_policy"),
	}, nil
}

func (p *LuaPolicy) NextMove(b domain.Board, side domain.Owner) (systems.Move, bool) {
	moves := systems.AllMoves(&b, side)
	if len(moves) == 0 {
		return systems.Move{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	L := p.state
	arg := p.movesTable(&b, side, moves)
	if err := L.CallByParam(lua.P{Fn: p.choose, NRet: 1, Protect: true}, arg, lua.LString(side.String())); err != nil {
		p.log.WithError(err).Warn("choose() failed")
		return systems.Move{}, false
	}
	ret := L.Get(-1)
	L.Pop(1)

	n, ok := ret.(lua.LNumber)
	idx := int(n)
	if !ok || idx < 1 || idx > len(moves) {
		p.log.WithField("result", ret.String()).Warn("choose() returned no valid index")
		return systems.Move{}, false
	}
	return moves[idx-1], true
}

func (p *LuaPolicy) movesTable(b *domain.Board, side domain.Owner, moves []systems.Move) *lua.LTable {
	L := p.state
	den := domain.DenOf(side.Opponent())

	tbl := L.CreateTable(len(moves), 0)
	for _, m := range moves {
		mt := L.CreateTable(0, 7)
		mt.RawSetString("fromRow", lua.LNumber(m.From.Row))
		mt.RawSetString("fromCol", lua.LNumber(m.From.Col))
		mt.RawSetString("toRow", lua.LNumber(m.To.Row))
		mt.RawSetString("toCol", lua.LNumber(m.To.Col))
		mt.RawSetString("piece", lua.LString(b.At(m.From).Kind().String()))
		if target := b.At(m.To); target.IsAnimal() {
			mt.RawSetString("capture", lua.LString(target.Kind().String()))
		}
		mt.RawSetString("den", lua.LBool(m.To == den))
		tbl.Append(mt)
	}
	return tbl
}

// Close освобождает Lua VM.
func (p *LuaPolicy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Close()
}
