package board

import "strings"

// Color is a side.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// PieceType is the kind of piece. The zero value means an empty slot.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [...]byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Letter returns the upper-case FEN letter, or 0 for NoPieceType.
func (pt PieceType) Letter() byte {
	if pt == NoPieceType || int(pt) >= len(pieceLetters) {
		return 0
	}
	return pieceLetters[pt]
}

// ParsePieceType accepts a single letter (either case) or a full name such as "queen".
func ParsePieceType(s string) (PieceType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "p", "pawn":
		return Pawn, true
	case "n", "knight":
		return Knight, true
	case "b", "bishop":
		return Bishop, true
	case "r", "rook":
		return Rook, true
	case "q", "queen":
		return Queen, true
	case "k", "king":
		return King, true
	}
	return NoPieceType, false
}

// Piece is an immutable (color, type) pair. The zero value is an empty slot.
type Piece struct {
	Color Color
	Type  PieceType
}

// NoPiece marks an empty square.
var NoPiece = Piece{}

func (p Piece) Empty() bool { return p.Type == NoPieceType }

// FEN returns the FEN letter: upper case for White, lower case for Black.
func (p Piece) FEN() byte {
	l := p.Type.Letter()
	if l == 0 {
		return 0
	}
	if p.Color == Black {
		return l + ('a' - 'A')
	}
	return l
}

// Code renders the two-letter board-map form used by UI collaborators, e.g. "wP", "bK".
func (p Piece) Code() string {
	if p.Empty() {
		return ""
	}
	c := byte('w')
	if p.Color == Black {
		c = 'b'
	}
	return string([]byte{c, p.Type.Letter()})
}

func pieceFromFEN(b byte) (Piece, bool) {
	color := White
	if b >= 'a' && b <= 'z' {
		color = Black
		b -= 'a' - 'A'
	}
	for i := 1; i < len(pieceLetters); i++ {
		if pieceLetters[i] == b {
			return Piece{Color: color, Type: PieceType(i)}, true
		}
	}
	return NoPiece, false
}
