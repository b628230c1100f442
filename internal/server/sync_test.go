package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jungle-server/internal/domain"
	"jungle-server/internal/engine"
	"jungle-server/pkg/api"

	"github.com/gorilla/websocket"
)

type wsPeer struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server) *wsPeer {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &wsPeer{t: t, conn: conn}
}

func (p *wsPeer) sendRaw(event string, payload any) {
	p.t.Helper()
	env := map[string]any{"event": event}
	if payload != nil {
		env["payload"] = payload
	}
	if err := p.conn.WriteJSON(env); err != nil {
		p.t.Fatalf("Write %s failed: %v", event, err)
	}
}

func (p *wsPeer) read() api.Envelope {
	p.t.Helper()
	_ = p.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var env api.Envelope
	if err := p.conn.ReadJSON(&env); err != nil {
		p.t.Fatalf("Read failed: %v", err)
	}
	return env
}

// expect читает следующий кадр и проверяет его событие.
func (p *wsPeer) expect(event domain.EventType, out any) {
	p.t.Helper()
	env := p.read()
	if env.Event != event.String() {
		p.t.Fatalf("Expected %s, got %s %s", event, env.Event, env.Payload)
	}
	if out != nil {
		if err := json.Unmarshal(env.Payload, out); err != nil {
			p.t.Fatalf("Bad %s payload %s: %v", event, env.Payload, err)
		}
	}
}

func (p *wsPeer) expectError(code string) {
	p.t.Helper()
	var e api.ErrorPayload
	p.expect(domain.EventError, &e)
	if e.Code != code {
		p.t.Fatalf("Expected error %s, got %+v", code, e)
	}
}

func (p *wsPeer) join(roomID, name string) api.JoinedPayload {
	p.t.Helper()
	p.sendRaw("ROOM", api.RoomPayload{RoomID: roomID, PlayerName: name})
	var joined api.JoinedPayload
	p.expect(domain.EventJoined, &joined)
	return joined
}

func (p *wsPeer) move(roomID string, from, to domain.Square) {
	p.t.Helper()
	p.sendRaw("MOVE", api.MovePayload{RoomID: roomID, MoveFrom: api.DeltaOf(from), MoveTo: api.DeltaOf(to)})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func sq(r, c int) domain.Square { return domain.Square{Row: r, Col: c} }

func TestRelayScenario(t *testing.T) {
	s := newTestServer(false)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	roomID := s.Rooms.Create().ID

	alice := dial(t, ts)
	joined := alice.join(roomID, "Alice")
	if joined.Seat != "B" || joined.PlayerName != "Alice" || joined.RoomID != roomID {
		t.Fatalf("Unexpected JOINED %+v", joined)
	}
	if info, _ := s.Rooms.Info(roomID); info.ReadyPlayers != 1 || info.OpponentName != "Alice" {
		t.Fatalf("Unexpected info after Alice %+v", info)
	}

	bob := dial(t, ts)
	if joined := bob.join(roomID, "Bob"); joined.Seat != "W" {
		t.Fatalf("Bob must sit White, got %+v", joined)
	}
	var opponent string
	alice.expect(domain.EventPlayerJoined, &opponent)
	if opponent != "Bob" {
		t.Errorf("Expected PLAYER_JOINED Bob, got %q", opponent)
	}
	if info, _ := s.Rooms.Info(roomID); info.ReadyPlayers != 2 || info.OpponentName != "" {
		t.Fatalf("Unexpected info after Bob %+v", info)
	}

	carol := dial(t, ts)
	carol.sendRaw("ROOM", api.RoomPayload{RoomID: roomID, PlayerName: "Carol"})
	carol.expectError(api.CodeRoomFull)
	if n := s.Rooms.CountPlayers(roomID); n != 2 {
		t.Fatalf("Third join changed the count to %d", n)
	}

	alice.sendRaw("PLAY", nil)
	var canPlay bool
	bob.expect(domain.EventPlay, &canPlay)
	if !canPlay {
		t.Fatal("Bob must receive canPlay=true")
	}

	aliceGame := engine.NewSession(engine.NewConfig())
	bobGame := engine.NewSession(engine.NewConfig())
	_ = aliceGame.Start()
	_ = bobGame.Start()

	// Локально отклоненный ход не уходит в сеть
	if res := aliceGame.Move(sq(0, 6), sq(3, 6)); res.Applied {
		t.Fatal("Moving the opponent's piece across the river must be rejected")
	}
	if res := aliceGame.Move(sq(8, 0), sq(7, 0)); !res.Applied {
		t.Fatal("Black tiger step must be legal")
	}
	alice.move(roomID, sq(8, 0), sq(7, 0))

	var relayed api.MovePayload
	bob.expect(domain.EventMove, &relayed)
	if relayed.RoomID != roomID {
		t.Errorf("Relayed move lost roomId: %+v", relayed)
	}
	if res := bobGame.Move(relayed.MoveFrom.Square(), relayed.MoveTo.Square()); !res.Applied {
		t.Fatal("Relayed move rejected by Bob's session")
	}
	if aliceGame.Board() != bobGame.Board() || aliceGame.Turn() != bobGame.Turn() {
		t.Fatal("Boards diverged after relay")
	}

	// Порядок ходов сохраняется
	bob.move(roomID, sq(0, 6), sq(1, 6))
	bob.move(roomID, sq(1, 6), sq(2, 6))
	var first, second api.MovePayload
	alice.expect(domain.EventMove, &first)
	alice.expect(domain.EventMove, &second)
	if first.MoveTo.Square() != sq(1, 6) || second.MoveTo.Square() != sq(2, 6) {
		t.Errorf("Relay reordered moves: %+v then %+v", first, second)
	}

	alice.conn.Close()
	bob.expect(domain.EventPlayerDisconnect, nil)
	waitFor(t, "Alice to leave", func() bool { return s.Rooms.CountPlayers(roomID) == 1 })
	if info, _ := s.Rooms.Info(roomID); info.OpponentName != "Bob" {
		t.Errorf("Bob must now be the waiting player, got %+v", info)
	}

	bob.conn.Close()
	waitFor(t, "room removal", func() bool {
		_, ok := s.Rooms.Get(roomID)
		return !ok
	})
}

func TestRelayForwardsSquaresUnchecked(t *testing.T) {
	s := newTestServer(false)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	roomID := s.Rooms.Create().ID
	alice := dial(t, ts)
	alice.join(roomID, "Alice")
	bob := dial(t, ts)
	bob.join(roomID, "Bob")
	alice.expect(domain.EventPlayerJoined, nil)

	tests := []struct {
		name     string
		from, to domain.Square
	}{
		{"off-board row", sq(12, 0), sq(11, 0)},
		{"negative col", sq(0, 0), sq(0, -1)},
		{"same square", sq(8, 0), sq(8, 0)},
	}
	// Пиры привязаны к родительскому t, поэтому без t.Run
	for _, tt := range tests {
		alice.move(roomID, tt.from, tt.to)
		var relayed api.MovePayload
		bob.expect(domain.EventMove, &relayed)
		if relayed.MoveFrom.Square() != tt.from || relayed.MoveTo.Square() != tt.to {
			t.Errorf("%s: move must be relayed verbatim, got %+v", tt.name, relayed)
		}
	}
}

func TestPlayBeforeOpponent(t *testing.T) {
	s := newTestServer(true)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	roomID := s.Rooms.Create().ID
	alice := dial(t, ts)
	alice.join(roomID, "Alice")
	alice.sendRaw("PLAY", nil)
	// Кадры одного соединения обрабатываются по очереди: ответ на мусор
	// означает, что PLAY уже обработан
	alice.sendRaw("TELEPORT", nil)
	alice.expectError(api.CodeBadPayload)

	room, _ := s.Rooms.Get(roomID)
	if _, ok := room.Game(); ok {
		t.Fatal("PLAY in a half-empty room must not start anything")
	}

	bob := dial(t, ts)
	bob.join(roomID, "Bob")
	alice.expect(domain.EventPlayerJoined, nil)

	alice.sendRaw("PLAY", nil)
	var canPlay bool
	bob.expect(domain.EventPlay, &canPlay)
	if !canPlay {
		t.Fatal("Expected canPlay=true")
	}
}

func TestProtocolErrors(t *testing.T) {
	s := newTestServer(false)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	p := dial(t, ts)

	if err := p.conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	p.expectError(api.CodeBadPayload)

	p.sendRaw("ROOM", map[string]string{"playerName": "Alice"})
	p.expectError(api.CodeBadPayload)

	p.sendRaw("ROOM", api.RoomPayload{RoomID: "missing"})
	p.expectError(api.CodeRoomNotFound)

	p.sendRaw("TELEPORT", nil)
	p.expectError(api.CodeBadPayload)

	p.move("missing", sq(8, 0), sq(7, 0))
	p.expectError(api.CodeRoomNotFound)

	// Соединение живо после всех ошибок
	roomID := s.Rooms.Create().ID
	joined := p.join(roomID, "")
	if joined.PlayerName == "" || !strings.Contains(joined.PlayerName, " ") {
		t.Errorf("Expected generated name, got %q", joined.PlayerName)
	}

	other := s.Rooms.Create().ID
	p.sendRaw("ROOM", api.RoomPayload{RoomID: other, PlayerName: "Again"})
	p.expectError(api.CodeBadPayload)
}

func TestStrictMode(t *testing.T) {
	s := newTestServer(true)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	roomID := s.Rooms.Create().ID
	alice := dial(t, ts)
	alice.join(roomID, "Alice")
	bob := dial(t, ts)
	bob.join(roomID, "Bob")
	alice.expect(domain.EventPlayerJoined, nil)

	alice.sendRaw("PLAY", nil)
	bob.expect(domain.EventPlay, nil)

	// Белые не в свою очередь
	bob.move(roomID, sq(0, 6), sq(1, 6))
	bob.expectError(api.CodeIllegalMove)

	// Недопустимый ход черных
	alice.move(roomID, sq(8, 6), sq(5, 6))
	alice.expectError(api.CodeIllegalMove)

	// Клетки вне доски в strict-режиме отсекаются до сессии
	alice.move(roomID, sq(8, 0), sq(9, 0))
	alice.expectError(api.CodeBadPayload)
	alice.move(roomID, sq(8, 0), sq(8, 0))
	alice.expectError(api.CodeBadPayload)

	alice.move(roomID, sq(8, 0), sq(7, 0))
	var relayed api.MovePayload
	bob.expect(domain.EventMove, &relayed)
	if relayed.MoveFrom.Square() != sq(8, 0) {
		t.Errorf("Bob must receive only the legal move, got %+v", relayed)
	}

	room, _ := s.Rooms.Get(roomID)
	g, ok := room.Game()
	if !ok || g.Turn != domain.White || g.Moves != 1 {
		t.Errorf("Unexpected authoritative state %+v", g)
	}
}
