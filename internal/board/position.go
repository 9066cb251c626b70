package board

// CastlingRights is a bit set of the four castling options.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (c CastlingRights) Has(r CastlingRights) bool { return c&r == r }

// Position is a complete chess state. It is a comparable value: copies are
// independent and == compares every field.
type Position struct {
	squares [64]Piece

	Turn           Color
	Castling       CastlingRights
	EnPassant      Square
	HalfmoveClock  int
	FullmoveNumber int
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Initial returns the standard starting position.
func Initial() Position {
	p := Position{
		Turn:           White,
		Castling:       AllCastling,
		EnPassant:      NoSquare,
		FullmoveNumber: 1,
	}
	for f := 0; f < 8; f++ {
		p.squares[NewSquare(f, 0)] = Piece{Color: White, Type: backRank[f]}
		p.squares[NewSquare(f, 1)] = Piece{Color: White, Type: Pawn}
		p.squares[NewSquare(f, 6)] = Piece{Color: Black, Type: Pawn}
		p.squares[NewSquare(f, 7)] = Piece{Color: Black, Type: backRank[f]}
	}
	return p
}

// PieceAt returns the piece on sq, or NoPiece.
func (p Position) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}
	return p.squares[sq]
}

// Pieces returns occupied squares keyed by square name, e.g. "E1" -> "wK".
func (p Position) Pieces() map[string]string {
	out := make(map[string]string, 32)
	for sq := A1; sq <= H8; sq++ {
		if pc := p.squares[sq]; !pc.Empty() {
			out[sq.String()] = pc.Code()
		}
	}
	return out
}

// King returns the square of c's king, or NoSquare.
func (p Position) King(c Color) Square {
	for sq := A1; sq <= H8; sq++ {
		if pc := p.squares[sq]; pc.Type == King && pc.Color == c {
			return sq
		}
	}
	return NoSquare
}

// RepetitionKey identifies the position for repetition counting: placement,
// side to move, castling and en-passant, without the clocks.
func (p Position) RepetitionKey() string {
	return placementField(p) + " " + turnField(p) + " " + castlingField(p) + " " + p.EnPassant.fenString()
}
