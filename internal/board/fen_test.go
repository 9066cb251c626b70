package board

import (
	"errors"
	"math/rand"
	"testing"
)

func TestEncodeInitial(t *testing.T) {
	if got := Encode(Initial()); got != StartFEN {
		t.Fatalf("Encode(Initial()) = %q", got)
	}
	p, err := Decode(StartFEN)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p != Initial() {
		t.Fatalf("decoded start position differs from Initial()")
	}
}

func TestRoundTripAfterEveryFirstMove(t *testing.T) {
	for _, m := range LegalMoves(Initial()) {
		p, err := Apply(Initial(), m)
		if err != nil {
			t.Fatalf("Apply %s: %v", m, err)
		}
		back, err := Decode(Encode(p))
		if err != nil {
			t.Fatalf("Decode after %s: %v", m, err)
		}
		if back != p {
			t.Fatalf("round trip after %s lost data: %q", m, Encode(p))
		}
	}
}

func TestRoundTripRandomGames(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for game := 0; game < 5; game++ {
		p := Initial()
		for ply := 0; ply < 120; ply++ {
			back, err := Decode(Encode(p))
			if err != nil || back != p {
				t.Fatalf("round trip failed at %q: %v", Encode(p), err)
			}
			moves := LegalMoves(p)
			if len(moves) == 0 {
				break
			}
			p = play(p, moves[r.Intn(len(moves))])
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"too few fields":    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"too many fields":   StartFEN + " extra",
		"unknown piece":     "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBXKBNR w KQkq - 0 1",
		"seven ranks":       "rnbqkbnr/pppppppp/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rank overflow":     "rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"short rank":        "rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"bad side":          "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"bad castling":      "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkz - 0 1",
		"bad en passant":    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1",
		"wrong ep rank":     "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"ep behind mover":   "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e3 0 1",
		"ep for black side": "rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR b KQkq e6 0 1",
		"negative halfmove": "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"zero fullmove":     "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
		"missing king":      "rnbq1bnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1",
		"two kings":         "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBKKBNR w kq - 0 1",
		"empty":             "",
	}
	for name, fen := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(fen)
			if !errors.Is(err, ErrMalformedPosition) {
				t.Fatalf("Decode(%q) err = %v, want ErrMalformedPosition", fen, err)
			}
			var mpe *MalformedPositionError
			if !errors.As(err, &mpe) || mpe.Field == "" {
				t.Fatalf("expected *MalformedPositionError with a field, got %T", err)
			}
		})
	}
}

func TestPiecesMap(t *testing.T) {
	m := Initial().Pieces()
	if len(m) != 32 {
		t.Fatalf("expected 32 pieces, got %d", len(m))
	}
	if m["E1"] != "wK" || m["D8"] != "bQ" || m["A2"] != "wP" {
		t.Fatalf("unexpected entries: E1=%q D8=%q A2=%q", m["E1"], m["D8"], m["A2"])
	}
	if _, ok := m["E4"]; ok {
		t.Fatalf("empty squares must be absent")
	}
}

func TestDecodeEnPassantMatchesSideToMove(t *testing.T) {
	p, err := Decode("rnbqkbnr/pppp1ppp/8/8/4p3/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 3")
	if err == nil {
		t.Fatalf("rank 3 target with White to move accepted: %s", Encode(p))
	}
	p, err = Decode("rnbqkbnr/pppp1ppp/8/8/3Pp3/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 3")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.EnPassant != D3 {
		t.Fatalf("en passant = %s", p.EnPassant)
	}
}
