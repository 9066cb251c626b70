package boardview

import (
	"strings"
	"testing"

	"github.com/park285/whisper-chess/internal/board"
)

func TestRenderPlainInitial(t *testing.T) {
	out := Render(board.Initial(), Options{Plain: true})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "8  r  n  b  q  k  b  n  r " {
		t.Fatalf("top rank = %q", lines[0])
	}
	if lines[7] != "1  R  N  B  Q  K  B  N  R " {
		t.Fatalf("bottom rank = %q", lines[7])
	}
	if lines[4] != "4  .  .  .  .  .  .  .  . " {
		t.Fatalf("empty rank = %q", lines[4])
	}
	if lines[8] != "   a  b  c  d  e  f  g  h " {
		t.Fatalf("files = %q", lines[8])
	}
}

func TestRenderBlackPerspective(t *testing.T) {
	out := Render(board.Initial(), Options{Plain: true, Perspective: board.Black})
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "1  R  N  B  K  Q") {
		t.Fatalf("black view top = %q", lines[0])
	}
	if lines[8] != "   h  g  f  e  d  c  b  a " {
		t.Fatalf("black view files = %q", lines[8])
	}
}

func TestRenderHighlight(t *testing.T) {
	out := Render(board.Initial(), Options{Plain: true, Highlight: []board.Square{board.E2, board.E4}})
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[6], "[P]") || !strings.Contains(lines[4], "[.]") {
		t.Fatalf("highlight missing:\n%s", out)
	}
}

func TestRenderColourUsesGlyphs(t *testing.T) {
	out := Render(board.Initial(), Options{})
	if !strings.Contains(out, "♔") || !strings.Contains(out, "♟") {
		t.Fatalf("expected unicode pieces:\n%s", out)
	}
}
