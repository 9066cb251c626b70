// Package board implements the chess rules: a fixed 64-slot position, legal move
// generation, move application, game-end detection and a FEN codec.
package board

import (
	"fmt"
	"strings"
)

// Square is one of the 64 board slots. A1=0, H1=7, A8=56, H8=63.
type Square int8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = -1
)

// NewSquare builds a square from 0-based file and rank. Out of range input yields NoSquare.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// File returns 0 for the A file through 7 for H.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns 0 for rank 1 through 7 for rank 8.
func (sq Square) Rank() int { return int(sq) >> 3 }

func (sq Square) Valid() bool { return sq >= A1 && sq <= H8 }

// String renders the protocol form, e.g. "E4". NoSquare renders as "-".
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('A' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare accepts "E4" or "e4".
func ParseSquare(s string) (Square, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	file := int(strings.ToLower(s[:1])[0]) - 'a'
	rank := int(s[1]) - '1'
	sq := NewSquare(file, rank)
	if sq == NoSquare {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return sq, nil
}

func (sq Square) offset(df, dr int) Square {
	return NewSquare(sq.File()+df, sq.Rank()+dr)
}
