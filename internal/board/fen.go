package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrMalformedPosition is the sentinel wrapped by every FEN decoding failure.
var ErrMalformedPosition = errors.New("malformed position")

// MalformedPositionError describes which FEN field could not be decoded.
type MalformedPositionError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedPositionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("malformed position: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed position: %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *MalformedPositionError) Unwrap() error { return ErrMalformedPosition }

func malformed(field, value, reason string) error {
	return &MalformedPositionError{Field: field, Value: value, Reason: reason}
}

// Encode renders p as a single FEN line.
func Encode(p Position) string {
	return strings.Join([]string{
		placementField(p),
		turnField(p),
		castlingField(p),
		p.EnPassant.fenString(),
		strconv.Itoa(p.HalfmoveClock),
		strconv.Itoa(p.FullmoveNumber),
	}, " ")
}

// Decode parses a FEN line. It requires exactly six fields and one king per side.
func Decode(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return Position{}, malformed("fields", strconv.Itoa(len(fields)), "expected 6 space-separated fields")
	}
	var p Position
	if err := decodePlacement(&p, fields[0]); err != nil {
		return Position{}, err
	}

	switch fields[1] {
	case "w":
		p.Turn = White
	case "b":
		p.Turn = Black
	default:
		return Position{}, malformed("side to move", fields[1], "expected w or b")
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			var r CastlingRights
			switch fields[2][i] {
			case 'K':
				r = WhiteKingside
			case 'Q':
				r = WhiteQueenside
			case 'k':
				r = BlackKingside
			case 'q':
				r = BlackQueenside
			default:
				return Position{}, malformed("castling", fields[2], "unknown castling letter")
			}
			if p.Castling.Has(r) {
				return Position{}, malformed("castling", fields[2], "repeated castling letter")
			}
			p.Castling |= r
		}
	}

	p.EnPassant = NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		// the target sits behind the pawn that just moved: rank 6 with White to move, rank 3 with Black
		want := 5
		if p.Turn == Black {
			want = 2
		}
		if err != nil || sq.Rank() != want {
			return Position{}, malformed("en passant", fields[3], "target rank does not match the side to move")
		}
		p.EnPassant = sq
	}

	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 {
		return Position{}, malformed("halfmove clock", fields[4], "expected a non-negative integer")
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return Position{}, malformed("fullmove number", fields[5], "expected a positive integer")
	}
	p.HalfmoveClock, p.FullmoveNumber = half, full
	return p, nil
}

func decodePlacement(p *Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return malformed("placement", field, "expected 8 ranks")
	}
	kings := [2]int{}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				if file > 8 {
					return malformed("placement", row, "rank overflows 8 files")
				}
				continue
			}
			pc, ok := pieceFromFEN(c)
			if !ok {
				return malformed("placement", string(c), "unknown piece letter")
			}
			if file > 7 {
				return malformed("placement", row, "rank overflows 8 files")
			}
			if pc.Type == Pawn && (rank == 0 || rank == 7) {
				return malformed("placement", row, "pawn on first or last rank")
			}
			if pc.Type == King {
				kings[pc.Color]++
			}
			p.squares[NewSquare(file, rank)] = pc
			file++
		}
		if file != 8 {
			return malformed("placement", row, "rank does not cover 8 files")
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return malformed("placement", field, "expected exactly one king per side")
	}
	return nil
}

func placementField(p Position) string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.squares[NewSquare(file, rank)]
			if pc.Empty() {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			b.WriteByte(pc.FEN())
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}
	return b.String()
}

func turnField(p Position) string {
	if p.Turn == Black {
		return "b"
	}
	return "w"
}

func castlingField(p Position) string {
	var b strings.Builder
	for _, r := range []struct {
		right  CastlingRights
		letter byte
	}{{WhiteKingside, 'K'}, {WhiteQueenside, 'Q'}, {BlackKingside, 'k'}, {BlackQueenside, 'q'}} {
		if p.Castling.Has(r.right) {
			b.WriteByte(r.letter)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func (sq Square) fenString() string {
	if !sq.Valid() {
		return "-"
	}
	return strings.ToLower(sq.String())
}
