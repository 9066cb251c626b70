package board

import (
	"fmt"
	"sort"
	"strings"
)

// Move is a proposed from/to pair with an optional promotion piece.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
}

// String renders lower-case coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := strings.ToLower(m.From.String() + m.To.String())
	if l := m.Promotion.Letter(); l != 0 {
		s += strings.ToLower(string(l))
	}
	return s
}

// ParseMove builds a Move from square names and an optional promotion letter or name.
func ParseMove(from, to, promotion string) (Move, error) {
	f, err := ParseSquare(from)
	if err != nil {
		return Move{}, err
	}
	t, err := ParseSquare(to)
	if err != nil {
		return Move{}, err
	}
	m := Move{From: f, To: t}
	if strings.TrimSpace(promotion) != "" {
		pt, ok := ParsePieceType(promotion)
		if !ok || pt == Pawn || pt == King {
			return Move{}, fmt.Errorf("invalid promotion piece %q", promotion)
		}
		m.Promotion = pt
	}
	return m, nil
}

var (
	knightSteps    = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps      = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookDirs       = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs     = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	promotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}
)

func forward(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// LegalMoves returns every move for the side to move that does not leave its own
// king in check. The order is deterministic for a given position.
func LegalMoves(p Position) []Move {
	pseudo := pseudoMoves(p)
	legal := pseudo[:0]
	for _, m := range pseudo {
		next := play(p, m)
		if k := next.King(p.Turn); k != NoSquare && !attacked(next, k, p.Turn.Other()) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalDestinations lists the target squares reachable from `from`, ascending and
// without duplicates. It is empty when from holds no piece of the side to move.
func LegalDestinations(p Position, from Square) []Square {
	pc := p.PieceAt(from)
	if pc.Empty() || pc.Color != p.Turn {
		return []Square{}
	}
	seen := make(map[Square]struct{}, 8)
	out := make([]Square, 0, 8)
	for _, m := range LegalMoves(p) {
		if m.From != from {
			continue
		}
		if _, dup := seen[m.To]; dup {
			continue
		}
		seen[m.To] = struct{}{}
		out = append(out, m.To)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func pseudoMoves(p Position) []Move {
	moves := make([]Move, 0, 48)
	us := p.Turn
	for from := A1; from <= H8; from++ {
		pc := p.squares[from]
		if pc.Empty() || pc.Color != us {
			continue
		}
		switch pc.Type {
		case Pawn:
			moves = pawnMoves(p, from, moves)
		case Knight:
			moves = stepMoves(p, from, knightSteps[:], moves)
		case Bishop:
			moves = slideMoves(p, from, bishopDirs[:], moves)
		case Rook:
			moves = slideMoves(p, from, rookDirs[:], moves)
		case Queen:
			moves = slideMoves(p, from, rookDirs[:], moves)
			moves = slideMoves(p, from, bishopDirs[:], moves)
		case King:
			moves = stepMoves(p, from, kingSteps[:], moves)
			moves = castleMoves(p, from, moves)
		}
	}
	return moves
}

func pawnMoves(p Position, from Square, moves []Move) []Move {
	us := p.Turn
	dir := forward(us)
	startRank, lastRank := 1, 7
	if us == Black {
		startRank, lastRank = 6, 0
	}
	add := func(to Square) {
		if to.Rank() == lastRank {
			for _, pt := range promotionTypes {
				moves = append(moves, Move{From: from, To: to, Promotion: pt})
			}
			return
		}
		moves = append(moves, Move{From: from, To: to})
	}

	if one := from.offset(0, dir); one != NoSquare && p.squares[one].Empty() {
		add(one)
		if from.Rank() == startRank {
			if two := from.offset(0, 2*dir); p.squares[two].Empty() {
				add(two)
			}
		}
	}
	for _, df := range [2]int{-1, 1} {
		to := from.offset(df, dir)
		if to == NoSquare {
			continue
		}
		target := p.squares[to]
		if (!target.Empty() && target.Color != us) || (to == p.EnPassant && target.Empty() && enPassantCapturable(p, to)) {
			add(to)
		}
	}
	return moves
}

// enPassantCapturable checks that an enemy pawn actually sits behind the target square.
func enPassantCapturable(p Position, target Square) bool {
	victim := target.offset(0, -forward(p.Turn))
	if victim == NoSquare {
		return false
	}
	pc := p.squares[victim]
	return pc.Type == Pawn && pc.Color != p.Turn
}

func stepMoves(p Position, from Square, steps [][2]int, moves []Move) []Move {
	for _, s := range steps {
		to := from.offset(s[0], s[1])
		if to == NoSquare {
			continue
		}
		if t := p.squares[to]; t.Empty() || t.Color != p.Turn {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func slideMoves(p Position, from Square, dirs [][2]int, moves []Move) []Move {
	for _, d := range dirs {
		for to := from.offset(d[0], d[1]); to != NoSquare; to = to.offset(d[0], d[1]) {
			t := p.squares[to]
			if t.Empty() {
				moves = append(moves, Move{From: from, To: to})
				continue
			}
			if t.Color != p.Turn {
				moves = append(moves, Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

type castleRule struct {
	right   CastlingRights
	king    Square
	rook    Square
	kingTo  Square
	rookTo  Square
	empty   []Square
	transit []Square
}

var castleRules = [2][2]castleRule{
	White: {
		{right: WhiteKingside, king: E1, rook: H1, kingTo: G1, rookTo: F1, empty: []Square{F1, G1}, transit: []Square{E1, F1, G1}},
		{right: WhiteQueenside, king: E1, rook: A1, kingTo: C1, rookTo: D1, empty: []Square{B1, C1, D1}, transit: []Square{E1, D1, C1}},
	},
	Black: {
		{right: BlackKingside, king: E8, rook: H8, kingTo: G8, rookTo: F8, empty: []Square{F8, G8}, transit: []Square{E8, F8, G8}},
		{right: BlackQueenside, king: E8, rook: A8, kingTo: C8, rookTo: D8, empty: []Square{B8, C8, D8}, transit: []Square{E8, D8, C8}},
	},
}

// castleMoves adds castling when the right is held, the path is empty and the king
// neither starts in, passes through nor lands on an attacked square.
func castleMoves(p Position, from Square, moves []Move) []Move {
	us := p.Turn
	for _, r := range castleRules[us] {
		if !p.Castling.Has(r.right) || from != r.king {
			continue
		}
		if rook := p.squares[r.rook]; rook.Type != Rook || rook.Color != us {
			continue
		}
		clear := true
		for _, sq := range r.empty {
			if !p.squares[sq].Empty() {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		safe := true
		for _, sq := range r.transit {
			if attacked(p, sq, us.Other()) {
				safe = false
				break
			}
		}
		if safe {
			moves = append(moves, Move{From: from, To: r.kingTo})
		}
	}
	return moves
}

// attacked reports whether any piece of color by attacks sq.
func attacked(p Position, sq Square, by Color) bool {
	// pawns attack diagonally forward, so look one rank behind sq from by's point of view
	for _, df := range [2]int{-1, 1} {
		if from := sq.offset(df, -forward(by)); from != NoSquare {
			if pc := p.squares[from]; pc.Type == Pawn && pc.Color == by {
				return true
			}
		}
	}
	for _, s := range knightSteps {
		if from := sq.offset(s[0], s[1]); from != NoSquare {
			if pc := p.squares[from]; pc.Type == Knight && pc.Color == by {
				return true
			}
		}
	}
	for _, s := range kingSteps {
		if from := sq.offset(s[0], s[1]); from != NoSquare {
			if pc := p.squares[from]; pc.Type == King && pc.Color == by {
				return true
			}
		}
	}
	if slidingAttack(p, sq, by, rookDirs[:], Rook) || slidingAttack(p, sq, by, bishopDirs[:], Bishop) {
		return true
	}
	return false
}

func slidingAttack(p Position, sq Square, by Color, dirs [][2]int, kind PieceType) bool {
	for _, d := range dirs {
		for from := sq.offset(d[0], d[1]); from != NoSquare; from = from.offset(d[0], d[1]) {
			pc := p.squares[from]
			if pc.Empty() {
				continue
			}
			if pc.Color == by && (pc.Type == kind || pc.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}
