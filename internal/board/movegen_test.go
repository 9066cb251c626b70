package board

import (
	"math/rand"
	"sort"
	"testing"

	nchess "github.com/corentings/chess/v2"
)

func mustDecode(t *testing.T, fen string) Position {
	t.Helper()
	p, err := Decode(fen)
	if err != nil {
		t.Fatalf("Decode(%q): %v", fen, err)
	}
	return p
}

func perft(p Position, depth int) int {
	if depth == 0 {
		return 1
	}
	moves := LegalMoves(p)
	if depth == 1 {
		return len(moves)
	}
	n := 0
	for _, m := range moves {
		n += perft(play(p, m), depth-1)
	}
	return n
}

func TestPerft(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		depth int
		nodes int
	}{
		{"start d1", StartFEN, 1, 20},
		{"start d2", StartFEN, 2, 400},
		{"start d3", StartFEN, 3, 8902},
		{"kiwipete d1", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
		{"kiwipete d2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
		{"endgame d3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
		{"promotions d2", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 2, 264},
		{"talkchess d2", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 2, 1486},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustDecode(t, tc.fen)
			if got := perft(p, tc.depth); got != tc.nodes {
				t.Fatalf("perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
			}
		})
	}
}

func TestLegalMovesNeverLeaveKingInCheck(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for game := 0; game < 10; game++ {
		p := Initial()
		for ply := 0; ply < 100; ply++ {
			moves := LegalMoves(p)
			if len(moves) == 0 {
				break
			}
			for _, m := range moves {
				next := play(p, m)
				if attacked(next, next.King(p.Turn), p.Turn.Other()) {
					t.Fatalf("move %s in %q leaves own king in check", m, Encode(p))
				}
			}
			p = play(p, moves[r.Intn(len(moves))])
		}
	}
}

func TestLegalMovesMatchReferenceImplementation(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for game := 0; game < 15; game++ {
		p := Initial()
		ref := nchess.NewGame()
		for ply := 0; ply < 80; ply++ {
			if ref.Outcome() != nchess.NoOutcome {
				break
			}
			ours := moveStrings(LegalMoves(p))
			var theirs []string
			for _, mv := range ref.ValidMoves() {
				theirs = append(theirs, mv.String())
			}
			sort.Strings(theirs)
			if !equalStrings(ours, theirs) {
				t.Fatalf("game %d ply %d %q:\nours   %v\ntheirs %v", game, ply, Encode(p), ours, theirs)
			}
			if len(ours) == 0 {
				break
			}
			pick := ours[r.Intn(len(ours))]
			m, err := ParseMove(pick[0:2], pick[2:4], pick[4:])
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", pick, err)
			}
			next, err := Apply(p, m)
			if err != nil {
				t.Fatalf("Apply(%s): %v", pick, err)
			}
			if err := ref.PushNotationMove(pick, nchess.UCINotation{}, nil); err != nil {
				t.Fatalf("reference rejected %s: %v", pick, err)
			}
			p = next
		}
	}
}

func moveStrings(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLegalDestinations(t *testing.T) {
	p := Initial()
	got := LegalDestinations(p, E2)
	if len(got) != 2 || got[0] != E3 || got[1] != E4 {
		t.Fatalf("E2 destinations = %v", got)
	}
	if got := LegalDestinations(p, G1); len(got) != 2 || got[0] != F3 || got[1] != H3 {
		t.Fatalf("G1 destinations = %v", got)
	}
	if got := LegalDestinations(p, E4); len(got) != 0 {
		t.Fatalf("empty square should have no destinations, got %v", got)
	}
	if got := LegalDestinations(p, E7); len(got) != 0 {
		t.Fatalf("opponent piece should have no destinations, got %v", got)
	}
	if got := LegalDestinations(p, A1); len(got) != 0 {
		t.Fatalf("blocked rook should have no destinations, got %v", got)
	}
}

func TestLegalDestinationsIsReadOnly(t *testing.T) {
	p := mustDecode(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	before := p
	first := LegalDestinations(p, E1)
	second := LegalDestinations(p, E1)
	if p != before {
		t.Fatalf("position mutated by query")
	}
	if len(first) != len(second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("results differ: %v vs %v", first, second)
		}
	}
}

func TestPromotionDestinationsAreDeduplicated(t *testing.T) {
	p := mustDecode(t, "8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	got := LegalDestinations(p, E7)
	if len(got) != 1 || got[0] != E8 {
		t.Fatalf("E7 destinations = %v", got)
	}
	if n := len(LegalMoves(p)); n != 4+5 {
		t.Fatalf("expected 4 promotions + 5 king moves, got %d", n)
	}
}

func TestCastlingThroughCheckIsIllegal(t *testing.T) {
	// black rook on f8 covers f1
	p := mustDecode(t, "k4r2/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	for _, d := range LegalDestinations(p, E1) {
		if d == G1 {
			t.Fatalf("castling through attacked f1 must be illegal")
		}
	}
	found := false
	for _, d := range LegalDestinations(p, E1) {
		if d == C1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("queenside castling should be available")
	}
}

func TestCastlingOutOfCheckIsIllegal(t *testing.T) {
	p := mustDecode(t, "k3r3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	for _, d := range LegalDestinations(p, E1) {
		if d == G1 || d == C1 {
			t.Fatalf("castling while in check must be illegal, got %s", d)
		}
	}
}

func TestEnPassantPinnedPawn(t *testing.T) {
	// capturing en passant would expose the white king on a5 to the rook on h5
	p := mustDecode(t, "8/8/8/KPp4r/8/8/8/7k w - c6 0 2")
	for _, d := range LegalDestinations(p, B5) {
		if d == C6 {
			t.Fatalf("en passant capture exposing the king must be illegal")
		}
	}
}
