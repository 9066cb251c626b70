package session

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/park285/whisper-chess/internal/board"
)

func TestSerializeScenario(t *testing.T) {
	s, _ := FromID("ab12cd34", board.White)
	s.SetOpponent("Bob")
	text := s.Serialize()
	want := "ab12cd34|" + base64.StdEncoding.EncodeToString([]byte(board.StartFEN)) + "|Bob|true"
	if text != want {
		t.Fatalf("Serialize = %q, want %q", text, want)
	}

	back, err := DeserializeStrict(text)
	if err != nil {
		t.Fatalf("DeserializeStrict: %v", err)
	}
	if back.ID() != "ab12cd34" || back.Opponent() != "Bob" || back.LocalColor() != board.White {
		t.Fatalf("unexpected session: %s %s %s", back.ID(), back.Opponent(), back.LocalColor())
	}
	if _, ok := back.LastMove(); ok {
		t.Fatalf("expected no last move")
	}
	if back.Position() != s.Position() {
		t.Fatalf("position lost")
	}
}

func TestSerializeWithLastMove(t *testing.T) {
	s, _ := FromID("ab12cd34", board.Black)
	s.SetOpponent("Al|ice")
	if _, err := s.ApplyRemoteMove(board.Move{From: board.E2, To: board.E4}); err != nil {
		t.Fatal(err)
	}
	text := s.Serialize()
	parts := strings.Split(text, "|")
	if len(parts) != 5 || parts[2] != "Alice" || parts[3] != "false" || parts[4] != "E2E4" {
		t.Fatalf("Serialize = %q", text)
	}
	back := Deserialize(text)
	if back.LocalColor() != board.Black || back.Position() != s.Position() || !back.IsPlayerTurn() {
		t.Fatalf("round trip lost state")
	}
	if lm, ok := back.LastMove(); !ok || lm != (board.Move{From: board.E2, To: board.E4}) {
		t.Fatalf("last move = %v %v", lm, ok)
	}
}

func TestSerializeWithoutOpponent(t *testing.T) {
	for _, color := range []board.Color{board.White, board.Black} {
		s, _ := FromID("ab12cd34", color)
		text := s.Serialize()
		parts := strings.Split(text, "|")
		if len(parts) != 4 || parts[2] != "" {
			t.Fatalf("expected empty opponent field, got %q", text)
		}
		back, err := DeserializeStrict(text)
		if err != nil || back.Opponent() != "" || back.LocalColor() != color {
			t.Fatalf("%s: round trip color=%s err=%v", color, back.LocalColor(), err)
		}
	}

	// two-field lines from older saves still decode, as White
	back, err := DeserializeStrict("ab12cd34|" + base64.StdEncoding.EncodeToString([]byte(board.StartFEN)))
	if err != nil || back.LocalColor() != board.White {
		t.Fatalf("truncated save should decode, err=%v", err)
	}
}

func TestRestorable(t *testing.T) {
	s, _ := FromID("ab12cd34", board.White)
	if !s.Restorable() {
		t.Fatalf("running game should be restorable")
	}
	playLine(t, s, [][2]board.Square{{board.F2, board.F3}, {board.E7, board.E5}, {board.G2, board.G4}, {board.D8, board.H4}})
	if s.ResultMethod() != MethodCheckmate || !s.Restorable() {
		t.Fatalf("checkmate is recomputed from the position")
	}
	if back := Deserialize(s.Serialize()); back.Outcome() != s.Outcome() {
		t.Fatalf("restored outcome = %s, want %s", back.Outcome(), s.Outcome())
	}

	resigned, _ := FromID("ab12cd34", board.White)
	_ = resigned.Resign(board.Black)
	if resigned.Restorable() {
		t.Fatalf("resignation is not in the save line")
	}

	repeated, _ := FromID("ab12cd34", board.White)
	shuffle := [][2]board.Square{{board.G1, board.F3}, {board.G8, board.F6}, {board.F3, board.G1}, {board.F6, board.G8}}
	playLine(t, repeated, shuffle)
	playLine(t, repeated, shuffle)
	if repeated.DrawReason() != board.DrawThreefold || repeated.Restorable() {
		t.Fatalf("threefold draw must not be restorable: reason=%s", repeated.DrawReason())
	}
	if back := Deserialize(repeated.Serialize()); back.Outcome() != InProgress {
		t.Fatalf("save line unexpectedly carries repetition state")
	}

	abandoned, _ := FromID("ab12cd34", board.White)
	abandoned.Abandon()
	if abandoned.Restorable() {
		t.Fatalf("abandoned game is not restorable")
	}
}

func TestDeserializeFailSoft(t *testing.T) {
	cases := []string{
		"",
		"onlyid",
		"ab12cd34|!!!not-base64!!!",
		"ab12cd34|" + base64.StdEncoding.EncodeToString([]byte("garbage fen")),
	}
	for _, in := range cases {
		if _, err := DeserializeStrict(in); !errors.Is(err, ErrMalformedSave) {
			t.Fatalf("DeserializeStrict(%q) err = %v", in, err)
		}
		s := Deserialize(in)
		if s == nil || s.Outcome() != InProgress || s.Position() != board.Initial() || s.LocalColor() != board.White {
			t.Fatalf("Deserialize(%q) should fall back to a fresh session", in)
		}
	}
}

func TestDeserializeMalformedPositionIsTyped(t *testing.T) {
	_, err := DeserializeStrict("ab12cd34|" + base64.StdEncoding.EncodeToString([]byte("8/8/8/8/8/8/8/8 w - - 0 1")))
	if !errors.Is(err, board.ErrMalformedPosition) {
		t.Fatalf("expected wrapped ErrMalformedPosition, got %v", err)
	}
}

func TestDeserializeDropsBadLastMove(t *testing.T) {
	fen := base64.StdEncoding.EncodeToString([]byte(board.StartFEN))
	s, err := DeserializeStrict("ab12cd34|" + fen + "|Bob|TRUE|zz99")
	if err != nil {
		t.Fatalf("DeserializeStrict: %v", err)
	}
	if _, ok := s.LastMove(); ok {
		t.Fatalf("garbled last move should be dropped")
	}
	if s.LocalColor() != board.White {
		t.Fatalf("TRUE should parse as white")
	}
}

func TestDeserializeRecomputesOutcome(t *testing.T) {
	mated := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	s, err := DeserializeStrict("ab12cd34|" + base64.StdEncoding.EncodeToString([]byte(mated)) + "|Bob|true")
	if err != nil {
		t.Fatal(err)
	}
	if s.Outcome() != BlackWins {
		t.Fatalf("outcome = %s", s.Outcome())
	}
}
