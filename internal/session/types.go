package session

import (
	"errors"

	"github.com/park285/whisper-chess/internal/board"
)

// Outcome is the terminal classification of a session.
type Outcome string

const (
	InProgress Outcome = "in_progress"
	WhiteWins  Outcome = "white_wins"
	BlackWins  Outcome = "black_wins"
	Draw       Outcome = "draw"
)

// ResultMethod says how a finished session ended.
type ResultMethod string

const (
	MethodNone        ResultMethod = ""
	MethodCheckmate   ResultMethod = "checkmate"
	MethodResignation ResultMethod = "resignation"
	MethodDraw        ResultMethod = "draw"
)

// AppliedMove is returned by a successful move on either side.
type AppliedMove struct {
	Move    board.Move
	Message string
	Outcome Outcome
}

// Errors
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrGameAlreadyOver = errors.New("game already over")
	ErrInvalidSquare   = errors.New("invalid square")
	ErrInvalidID       = errors.New("invalid session id")
	// ErrIllegalMove is the board sentinel so either package's name matches with errors.Is.
	ErrIllegalMove = board.ErrIllegalMove
)

func winnerOutcome(c board.Color) Outcome {
	if c == board.White {
		return WhiteWins
	}
	return BlackWins
}
