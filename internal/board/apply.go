package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when a move is not in the legal set of a position.
var ErrIllegalMove = errors.New("illegal move")

// Apply validates m against the legal moves of p and returns the resulting
// position. p itself is never modified. A pawn reaching the last rank without
// an explicit promotion piece becomes a queen.
func Apply(p Position, m Move) (Position, error) {
	resolved, ok := resolve(p, m)
	if !ok {
		return p, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	return play(p, resolved), nil
}

// resolve finds the member of the legal set that m denotes, filling in the
// default promotion.
func resolve(p Position, m Move) (Move, bool) {
	if !m.From.Valid() || !m.To.Valid() {
		return Move{}, false
	}
	want := m
	if want.Promotion == NoPieceType {
		if pc := p.PieceAt(m.From); pc.Type == Pawn && (m.To.Rank() == 0 || m.To.Rank() == 7) {
			want.Promotion = Queen
		}
	}
	for _, lm := range LegalMoves(p) {
		if lm == want {
			return lm, true
		}
	}
	return Move{}, false
}

// play performs m without any legality check. Callers guarantee m is at least
// pseudo-legal for p.
func play(p Position, m Move) Position {
	next := p
	pc := next.squares[m.From]
	captured := next.squares[m.To]

	next.squares[m.From] = NoPiece
	next.squares[m.To] = pc

	if pc.Type == Pawn {
		if m.To == p.EnPassant && captured.Empty() && m.From.File() != m.To.File() {
			victim := m.To.offset(0, -forward(pc.Color))
			captured = next.squares[victim]
			next.squares[victim] = NoPiece
		}
		if m.To.Rank() == 0 || m.To.Rank() == 7 {
			promo := m.Promotion
			if promo == NoPieceType {
				promo = Queen
			}
			next.squares[m.To] = Piece{Color: pc.Color, Type: promo}
		}
	}

	if pc.Type == King && abs(m.To.File()-m.From.File()) == 2 {
		for _, r := range castleRules[pc.Color] {
			if r.king == m.From && r.kingTo == m.To {
				next.squares[r.rookTo] = next.squares[r.rook]
				next.squares[r.rook] = NoPiece
			}
		}
	}

	next.Castling &^= castlingLoss(m.From) | castlingLoss(m.To)
	if pc.Type == King {
		if pc.Color == White {
			next.Castling &^= WhiteKingside | WhiteQueenside
		} else {
			next.Castling &^= BlackKingside | BlackQueenside
		}
	}

	next.EnPassant = NoSquare
	if pc.Type == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		next.EnPassant = m.From.offset(0, forward(pc.Color))
	}

	if pc.Type == Pawn || !captured.Empty() {
		next.HalfmoveClock = 0
	} else {
		next.HalfmoveClock++
	}
	if pc.Color == Black {
		next.FullmoveNumber++
	}
	next.Turn = p.Turn.Other()
	return next
}

// castlingLoss returns the rights revoked when a piece leaves or lands on sq.
func castlingLoss(sq Square) CastlingRights {
	switch sq {
	case E1:
		return WhiteKingside | WhiteQueenside
	case H1:
		return WhiteKingside
	case A1:
		return WhiteQueenside
	case E8:
		return BlackKingside | BlackQueenside
	case H8:
		return BlackKingside
	case A8:
		return BlackQueenside
	}
	return NoCastling
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
