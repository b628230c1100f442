package engine

import (
	"errors"
	"testing"

	"jungle-server/internal/domain"
	"jungle-server/internal/systems"
)

func sq(r, c int) domain.Square { return domain.Square{Row: r, Col: c} }

// firstMove - детерминированный соперник: первый ход из AllMoves.
var firstMove = OpponentFunc(func(b domain.Board, side domain.Owner) (systems.Move, bool) {
	moves := systems.AllMoves(&b, side)
	if len(moves) == 0 {
		return systems.Move{}, false
	}
	return moves[0], true
})

var noMove = OpponentFunc(func(domain.Board, domain.Owner) (systems.Move, bool) {
	return systems.Move{}, false
})

func TestSessionBeforeStart(t *testing.T) {
	s := NewSession(NewConfig())

	if s.Status() != StatusReady {
		t.Fatalf("Expected Ready, got %s", s.Status())
	}
	if s.Turn() != domain.NoOwner {
		t.Errorf("Expected no turn before start, got %s", s.Turn())
	}
	if s.CanSelect(sq(8, 0)) {
		t.Error("Nothing should be selectable before start")
	}
	if len(s.Moves(sq(8, 0))) != 0 {
		t.Error("Expected no moves before start")
	}

	res := s.Move(sq(8, 0), sq(7, 0))
	if res.Applied {
		t.Error("Move before start must be ignored")
	}
	if err := s.Apply(sq(8, 0), sq(7, 0)); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Expected ErrNotPlaying, got %v", err)
	}
}

func TestSessionStart(t *testing.T) {
	s := NewSession(NewConfig())
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if s.Status() != StatusPlaying {
		t.Errorf("Expected Playing, got %s", s.Status())
	}
	if s.Turn() != domain.Black {
		t.Errorf("Black moves first, got %s", s.Turn())
	}
	if s.Board() != domain.InitialBoard() {
		t.Error("Board after start must be the initial layout")
	}
	if len(s.History()) != 0 {
		t.Errorf("Expected empty history, got %d", len(s.History()))
	}

	if err := s.Start(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Second Start must fail with ErrNotReady, got %v", err)
	}
}

func TestSessionQueries(t *testing.T) {
	s := NewSession(NewConfig())
	_ = s.Start()

	if !s.CanSelect(sq(8, 0)) {
		t.Error("Black tiger should be selectable")
	}
	if s.CanSelect(sq(0, 6)) {
		t.Error("White tiger is not selectable on Black's turn")
	}

	moves := s.Moves(sq(8, 0))
	want := []domain.Square{sq(7, 0), sq(8, 1)}
	if len(moves) != len(want) {
		t.Fatalf("Expected %v, got %v", want, moves)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("Move %d: expected %v, got %v", i, want[i], moves[i])
		}
	}

	if !s.PieceAt(sq(8, 0)).Is(domain.Black, domain.Tiger) {
		t.Errorf("Expected Black tiger at (8,0), got %s", s.PieceAt(sq(8, 0)))
	}
	if s.PieceAt(sq(-1, 0)) != domain.Land() {
		t.Error("Off-board square should read as land")
	}

	if !s.IsRiver(sq(4, 1)) || !s.IsTrap(sq(7, 3), domain.Black) ||
		!s.IsDen(sq(0, 3), domain.White) || !s.IsLand(sq(4, 3)) {
		t.Error("Terrain predicates disagree with board geometry")
	}
}

func TestSessionApply(t *testing.T) {
	s := NewSession(NewConfig())
	_ = s.Start()
	start := s.Board()

	// Ход не в свою очередь
	if err := s.Apply(sq(2, 0), sq(3, 0)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("Expected ErrIllegalMove, got %v", err)
	}
	if s.Board() != start || s.Turn() != domain.Black {
		t.Fatal("Rejected move must not change state")
	}

	if err := s.Apply(sq(8, 0), sq(7, 0)); err != nil {
		t.Fatalf("Legal move rejected: %v", err)
	}
	if s.Turn() != domain.White {
		t.Errorf("Turn must flip to White, got %s", s.Turn())
	}
	if !s.PieceAt(sq(7, 0)).Is(domain.Black, domain.Tiger) {
		t.Error("Tiger did not arrive at (7,0)")
	}
	if s.PieceAt(sq(8, 0)) != domain.Land() {
		t.Error("Source square must revert to land")
	}

	h := s.History()
	if len(h) != 1 || h[0] != start {
		t.Fatalf("History must hold the board before the move")
	}

	// History отдает копию
	h[0] = domain.EmptyBoard()
	if s.History()[0] != start {
		t.Error("Mutating returned history must not affect the session")
	}
}

func TestSessionWin(t *testing.T) {
	s := NewSession(NewConfig())
	_ = s.Start()

	b := domain.EmptyBoard()
	b.Set(sq(1, 3), domain.Animal(domain.Black, domain.Cat))
	b.Set(sq(8, 0), domain.Animal(domain.White, domain.Mouse))
	s.board = b

	res := s.Move(sq(1, 3), sq(0, 3))
	if !res.Applied {
		t.Fatal("Den entry should be legal")
	}
	if res.Status != StatusEnded || res.Winner != domain.Black {
		t.Fatalf("Expected Black win, got status=%s winner=%s", res.Status, res.Winner)
	}
	if s.Turn() != domain.Black {
		t.Errorf("Turn must not flip after the winning move, got %s", s.Turn())
	}

	if err := s.Apply(sq(8, 0), sq(7, 0)); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("Moves after the end must fail with ErrNotPlaying, got %v", err)
	}
	if s.CanSelect(sq(0, 3)) {
		t.Error("Nothing is selectable after the end")
	}
}

func TestLocalSessionReply(t *testing.T) {
	s := NewLocalSession(NewConfig(), firstMove)
	_ = s.Start()

	res := s.Move(sq(8, 0), sq(7, 0))
	if !res.Applied {
		t.Fatal("Human move rejected")
	}
	if res.Reply == nil {
		t.Fatal("Expected an opponent reply")
	}
	if res.Turn != domain.Black {
		t.Errorf("After the reply it is Black's turn again, got %s", res.Turn)
	}

	h := s.History()
	if len(h) != 2 {
		t.Fatalf("Expected 2 boards in history, got %d", len(h))
	}
	if !systems.IsLegalMove(&h[1], domain.White, res.Reply.From, res.Reply.To) {
		t.Errorf("Reply %v is not legal for White", *res.Reply)
	}
}

func TestLocalSessionOpponentGivesUp(t *testing.T) {
	s := NewLocalSession(NewConfig(), noMove)
	_ = s.Start()

	res := s.Move(sq(8, 0), sq(7, 0))
	if !res.Applied || res.Reply != nil {
		t.Fatalf("Expected applied move without reply, got %+v", res)
	}
	if s.Turn() != domain.White {
		t.Errorf("Turn stays with White, got %s", s.Turn())
	}
	if _, err := s.PlayOpponent(); !errors.Is(err, ErrOpponentMove) {
		t.Errorf("Expected ErrOpponentMove, got %v", err)
	}

	// Человек не может сходить за компьютер
	before := s.Board()
	res = s.Move(sq(0, 6), sq(1, 6))
	if res.Applied {
		t.Fatalf("Human must not move White's pieces, got %+v", res)
	}
	if res.Turn != domain.White || s.Board() != before || len(s.History()) != 1 {
		t.Errorf("Rejected move changed the session: turn=%s history=%d", res.Turn, len(s.History()))
	}
}

func TestLocalSessionOpponentPlaysBlack(t *testing.T) {
	calls := 0
	counting := OpponentFunc(func(b domain.Board, side domain.Owner) (systems.Move, bool) {
		calls++
		return firstMove(b, side)
	})

	cfg := NewConfig()
	cfg.OpponentSide = domain.Black
	s := NewLocalSession(cfg, counting)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	if calls != 1 {
		t.Fatalf("Opponent must open the game, provider called %d times", calls)
	}
	if s.Turn() != domain.White || len(s.History()) != 1 {
		t.Fatalf("After the opening it is White's turn, got turn=%s history=%d", s.Turn(), len(s.History()))
	}

	if res := s.Move(sq(8, 0), sq(7, 0)); res.Applied {
		t.Error("Human must not move Black's pieces")
	}

	res := s.Move(sq(0, 6), sq(1, 6))
	if !res.Applied || res.Reply == nil {
		t.Fatalf("Expected applied White move with a Black reply, got %+v", res)
	}
	if res.Turn != domain.White || calls != 2 {
		t.Errorf("Expected White to move again after 2 provider calls, got turn=%s calls=%d", res.Turn, calls)
	}
}

func TestPlayOpponentNetworked(t *testing.T) {
	s := NewSession(NewConfig())
	_ = s.Start()
	if _, err := s.PlayOpponent(); !errors.Is(err, ErrNoOpponent) {
		t.Errorf("Expected ErrNoOpponent, got %v", err)
	}
}

func TestHistoryLimit(t *testing.T) {
	cfg := NewConfig()
	cfg.HistoryLimit = 1
	s := NewSession(cfg)
	_ = s.Start()

	_ = s.Apply(sq(8, 0), sq(7, 0))
	before := s.Board()
	_ = s.Apply(sq(0, 6), sq(1, 6))

	h := s.History()
	if len(h) != 1 {
		t.Fatalf("Expected history trimmed to 1, got %d", len(h))
	}
	if h[0] != before {
		t.Error("Only the latest previous board should be kept")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusReady, "Ready"},
		{StatusPlaying, "Playing"},
		{StatusPaused, "Paused"},
		{StatusEnded, "Ended"},
		{Status(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
