package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/park285/whisper-chess/internal/board"
	"github.com/park285/whisper-chess/internal/protocol"
)

const idLength = 8

// Session is one match between the local player and a remote opponent.
// It is not safe for concurrent use; callers serialize the local and inbound paths.
type Session struct {
	id         string
	pos        board.Position
	localColor board.Color
	opponent   string

	outcome    Outcome
	method     ResultMethod
	drawReason board.DrawReason
	abandoned  bool

	lastMove    board.Move
	hasLastMove bool
	history     []string
	seen        map[string]int
	startedAt   time.Time
}

// NewID returns a fresh short session token.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:idLength]
}

// NewSession starts a match from the initial position under a fresh id.
func NewSession(localColor board.Color) *Session {
	return newSession(NewID(), localColor, board.Initial())
}

// FromID starts a match under a pre-agreed id, as when accepting an invitation.
func FromID(id string, localColor board.Color) (*Session, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return newSession(id, localColor, board.Initial()), nil
}

// ValidateID rejects ids that would break the message or save formats.
func ValidateID(id string) error {
	if id == "" || strings.ContainsAny(id, ":| \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func newSession(id string, localColor board.Color, pos board.Position) *Session {
	s := &Session{
		id:         id,
		pos:        pos,
		localColor: localColor,
		outcome:    InProgress,
		seen:       map[string]int{},
		startedAt:  time.Now(),
	}
	s.seen[pos.RepetitionKey()] = 1
	s.refreshOutcome()
	return s
}

func (s *Session) ID() string { return s.id }
func (s *Session) Position() board.Position { return s.pos }
func (s *Session) LocalColor() board.Color { return s.localColor }
func (s *Session) Opponent() string { return s.opponent }
func (s *Session) Outcome() Outcome { return s.outcome }
func (s *Session) ResultMethod() ResultMethod { return s.method }
func (s *Session) DrawReason() board.DrawReason { return s.drawReason }
func (s *Session) StartedAt() time.Time { return s.startedAt }
func (s *Session) PieceAt(sq board.Square) board.Piece { return s.pos.PieceAt(sq) }

// SetOpponent records the remote player's name. The save separator is stripped.
func (s *Session) SetOpponent(name string) {
	s.opponent = strings.TrimSpace(strings.ReplaceAll(name, "|", ""))
}

// LastMove returns the most recently applied move, if any.
func (s *Session) LastMove() (board.Move, bool) { return s.lastMove, s.hasLastMove }

// Moves returns the coordinate history applied during this process lifetime.
func (s *Session) Moves() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// IsOver is true once an outcome is decided or the session was abandoned.
func (s *Session) IsOver() bool { return s.abandoned || s.outcome != InProgress }

func (s *Session) Abandoned() bool { return s.abandoned }

// IsPlayerTurn reports whether the local player may move now.
func (s *Session) IsPlayerTurn() bool { return !s.IsOver() && s.pos.Turn == s.localColor }

// Winner returns the winning colour for decisive outcomes.
func (s *Session) Winner() (board.Color, bool) {
	switch s.outcome {
	case WhiteWins:
		return board.White, true
	case BlackWins:
		return board.Black, true
	}
	return board.White, false
}

// LegalDestinations lists where the piece on from may go. Empty once the game is over.
func (s *Session) LegalDestinations(from board.Square) []board.Square {
	if s.IsOver() {
		return nil
	}
	return board.LegalDestinations(s.pos, from)
}

// ParseMove converts square names and an optional promotion letter into a Move.
func ParseMove(from, to, promotion string) (board.Move, error) {
	m, err := board.ParseMove(from, to, promotion)
	if err != nil {
		return board.Move{}, fmt.Errorf("%w: %v", ErrInvalidSquare, err)
	}
	return m, nil
}

// AttemptMove plays a local move and returns the message to send to the opponent.
func (s *Session) AttemptMove(m board.Move) (AppliedMove, error) {
	if s.IsOver() {
		return AppliedMove{}, ErrGameAlreadyOver
	}
	if s.pos.Turn != s.localColor {
		return AppliedMove{}, ErrNotYourTurn
	}
	return s.apply(m)
}

// ApplyRemoteMove plays an opponent move. It requires the opponent's turn, so a
// duplicated or reordered inbound message is rejected instead of reapplied.
func (s *Session) ApplyRemoteMove(m board.Move) (AppliedMove, error) {
	if s.IsOver() {
		return AppliedMove{}, ErrGameAlreadyOver
	}
	if s.pos.Turn == s.localColor {
		return AppliedMove{}, ErrNotYourTurn
	}
	return s.apply(m)
}

func (s *Session) apply(m board.Move) (AppliedMove, error) {
	next, err := board.Apply(s.pos, m)
	if err != nil {
		return AppliedMove{}, err
	}
	if m.Promotion == board.NoPieceType && s.pos.PieceAt(m.From).Type == board.Pawn && (m.To.Rank() == 0 || m.To.Rank() == 7) {
		m.Promotion = board.Queen
	}
	s.pos = next
	s.lastMove, s.hasLastMove = m, true
	s.history = append(s.history, m.String())
	s.seen[next.RepetitionKey()]++
	s.refreshOutcome()
	return AppliedMove{
		Move:    m,
		Message: protocol.EncodeMove(s.id, m),
		Outcome: s.outcome,
	}, nil
}

func (s *Session) refreshOutcome() {
	if s.outcome != InProgress {
		return
	}
	if board.IsCheckmate(s.pos) {
		s.outcome = winnerOutcome(s.pos.Turn.Other())
		s.method = MethodCheckmate
		return
	}
	reason := board.Draw(s.pos)
	if reason == board.NoDraw && s.seen[s.pos.RepetitionKey()] >= 3 {
		reason = board.DrawThreefold
	}
	if reason != board.NoDraw {
		s.outcome = Draw
		s.method = MethodDraw
		s.drawReason = reason
	}
}

// Resign ends the game in favour of the side that did not resign.
func (s *Session) Resign(resigning board.Color) error {
	if s.IsOver() {
		return ErrGameAlreadyOver
	}
	s.outcome = winnerOutcome(resigning.Other())
	s.method = MethodResignation
	return nil
}

// Restorable reports whether a save line of s decodes back to the same
// outcome. Resignations, abandonment and threefold draws depend on state the
// line does not carry.
func (s *Session) Restorable() bool {
	if s.abandoned {
		return false
	}
	switch s.method {
	case MethodResignation:
		return false
	case MethodDraw:
		return s.drawReason != board.DrawThreefold
	}
	return true
}

// ResignMessage returns the RESIGN line for this session.
func (s *Session) ResignMessage() string { return protocol.EncodeResign(s.id) }

// JoinMessage returns the JOIN acknowledgement for this session.
func (s *Session) JoinMessage() string { return protocol.EncodeJoin(s.id) }

// Abandon discards the session. Every later mutator fails with ErrGameAlreadyOver.
func (s *Session) Abandon() { s.abandoned = true }
