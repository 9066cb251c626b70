package board

// DrawReason names why a position is drawn.
type DrawReason string

const (
	NoDraw           DrawReason = ""
	DrawStalemate    DrawReason = "stalemate"
	DrawInsufficient DrawReason = "insufficient_material"
	DrawFiftyMove    DrawReason = "fifty_move"
	DrawThreefold    DrawReason = "threefold"
)

// InCheck reports whether the side to move is in check.
func InCheck(p Position) bool {
	k := p.King(p.Turn)
	return k != NoSquare && attacked(p, k, p.Turn.Other())
}

// IsCheckmate reports that the side to move is in check and has no legal moves.
func IsCheckmate(p Position) bool {
	return InCheck(p) && len(LegalMoves(p)) == 0
}

// IsStalemate reports that the side to move is not in check and has no legal moves.
func IsStalemate(p Position) bool {
	return !InCheck(p) && len(LegalMoves(p)) == 0
}

// IsStalemateOrDraw covers stalemate, insufficient material and the 50-move rule.
// Repetition needs game history and is tracked by the caller.
func IsStalemateOrDraw(p Position) bool {
	return Draw(p) != NoDraw
}

// Draw returns the reason p is a draw, or NoDraw.
func Draw(p Position) DrawReason {
	if IsStalemate(p) {
		return DrawStalemate
	}
	if InsufficientMaterial(p) {
		return DrawInsufficient
	}
	// a mate delivered on the hundredth halfmove still counts as mate
	if p.HalfmoveClock >= 100 && !IsCheckmate(p) {
		return DrawFiftyMove
	}
	return NoDraw
}

// InsufficientMaterial covers K v K, K+minor v K and K+B v K+B with both bishops
// on the same square colour.
func InsufficientMaterial(p Position) bool {
	var minors [2]int
	bishopShade := [2]int{-1, -1}
	for sq := A1; sq <= H8; sq++ {
		pc := p.squares[sq]
		switch pc.Type {
		case NoPieceType, King:
		case Knight:
			minors[pc.Color]++
		case Bishop:
			minors[pc.Color]++
			bishopShade[pc.Color] = (sq.File() + sq.Rank()) & 1
		default:
			return false
		}
	}
	total := minors[White] + minors[Black]
	switch {
	case total <= 1:
		return true
	case total == 2 && minors[White] == 1 && minors[Black] == 1:
		return bishopShade[White] >= 0 && bishopShade[White] == bishopShade[Black]
	}
	return false
}
