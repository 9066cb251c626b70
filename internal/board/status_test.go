package board

import "testing"

func TestFoolsMate(t *testing.T) {
	p := Initial()
	for _, mv := range [][2]Square{{F2, F3}, {E7, E5}, {G2, G4}, {D8, H4}} {
		p = mustApply(t, p, mv[0], mv[1])
	}
	if !IsCheckmate(p) {
		t.Fatalf("expected checkmate in %q", Encode(p))
	}
	if n := len(LegalMoves(p)); n != 0 {
		t.Fatalf("mated side has %d legal moves", n)
	}
	if IsStalemateOrDraw(p) {
		t.Fatalf("checkmate is not a draw")
	}
}

func TestStalemate(t *testing.T) {
	p := mustDecode(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if InCheck(p) {
		t.Fatalf("black is not in check")
	}
	if !IsStalemate(p) || IsCheckmate(p) {
		t.Fatalf("expected stalemate")
	}
	if Draw(p) != DrawStalemate {
		t.Fatalf("Draw = %q", Draw(p))
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/4k3/8/8/8/4K3 w - - 0 1", true},
		{"8/8/8/4k3/8/8/8/4KN2 w - - 0 1", true},
		{"8/8/8/4k3/8/8/8/4KB2 w - - 0 1", true},
		{"8/8/8/2b1k3/8/8/8/4KB2 w - - 0 1", false},
		{"8/8/8/3bk3/8/8/8/4KB2 w - - 0 1", true},
		{"8/8/8/4k3/8/8/8/3NKN2 w - - 0 1", false},
		{"8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", false},
		{"8/8/8/4k3/8/8/8/R3K3 w - - 0 1", false},
	}
	for _, tc := range cases {
		p := mustDecode(t, tc.fen)
		if got := InsufficientMaterial(p); got != tc.want {
			t.Fatalf("InsufficientMaterial(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestFiftyMoveRule(t *testing.T) {
	p := mustDecode(t, "8/8/8/4k3/8/8/8/R3K3 w - - 100 80")
	if Draw(p) != DrawFiftyMove {
		t.Fatalf("Draw = %q, want fifty_move", Draw(p))
	}
	p = mustDecode(t, "8/8/8/4k3/8/8/8/R3K3 w - - 99 80")
	if IsStalemateOrDraw(p) {
		t.Fatalf("99 halfmoves is not yet a draw")
	}
}
