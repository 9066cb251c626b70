package boardview

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/park285/whisper-chess/internal/board"
)

// Options controls rendering.
type Options struct {
	// Perspective is drawn at the bottom.
	Perspective board.Color
	// Highlight marks squares such as the last move or legal destinations.
	Highlight []board.Square
	// Plain disables ANSI colours.
	Plain bool
}

var glyphs = map[board.Piece]string{
	{Color: board.White, Type: board.King}:   "♔",
	{Color: board.White, Type: board.Queen}:  "♕",
	{Color: board.White, Type: board.Rook}:   "♖",
	{Color: board.White, Type: board.Bishop}: "♗",
	{Color: board.White, Type: board.Knight}: "♘",
	{Color: board.White, Type: board.Pawn}:   "♙",
	{Color: board.Black, Type: board.King}:   "♚",
	{Color: board.Black, Type: board.Queen}:  "♛",
	{Color: board.Black, Type: board.Rook}:   "♜",
	{Color: board.Black, Type: board.Bishop}: "♝",
	{Color: board.Black, Type: board.Knight}: "♞",
	{Color: board.Black, Type: board.Pawn}:   "♟",
}

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack)
	darkSquare  = color.New(color.BgGreen, color.FgBlack)
	markSquare  = color.New(color.BgYellow, color.FgBlack)
	coordColor  = color.New(color.FgHiBlack)
)

// Render draws p as an 8x8 grid with file and rank labels.
func Render(p board.Position, opts Options) string {
	marked := make(map[board.Square]bool, len(opts.Highlight))
	for _, sq := range opts.Highlight {
		marked[sq] = true
	}

	ranks := []int{7, 6, 5, 4, 3, 2, 1, 0}
	files := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if opts.Perspective == board.Black {
		ranks = []int{0, 1, 2, 3, 4, 5, 6, 7}
		files = []int{7, 6, 5, 4, 3, 2, 1, 0}
	}

	var b strings.Builder
	for _, r := range ranks {
		b.WriteString(paint(coordColor, opts.Plain, string(rune('1'+r))+" "))
		for _, f := range files {
			sq := board.NewSquare(f, r)
			cell := " " + pieceGlyph(p.PieceAt(sq), opts.Plain) + " "
			switch {
			case opts.Plain && marked[sq]:
				cell = "[" + strings.TrimSpace(cell) + "]"
			case marked[sq]:
				cell = markSquare.Sprint(cell)
			case opts.Plain:
			case (f+r)%2 == 0:
				cell = darkSquare.Sprint(cell)
			default:
				cell = lightSquare.Sprint(cell)
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	b.WriteString("  ")
	for _, f := range files {
		b.WriteString(paint(coordColor, opts.Plain, " "+string(rune('a'+f))+" "))
	}
	b.WriteByte('\n')
	return b.String()
}

// Fprint writes Render output to w.
func Fprint(w io.Writer, p board.Position, opts Options) error {
	_, err := io.WriteString(w, Render(p, opts))
	return err
}

func pieceGlyph(pc board.Piece, plain bool) string {
	if pc.Empty() {
		if plain {
			return "."
		}
		return " "
	}
	if plain {
		return string(pc.FEN())
	}
	return glyphs[pc]
}

func paint(c *color.Color, plain bool, s string) string {
	if plain {
		return s
	}
	return c.Sprint(s)
}
