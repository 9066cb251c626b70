package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/whisper-chess/internal/board"
	"github.com/park285/whisper-chess/internal/obslog"
)

const fieldSep = "|"

// ErrMalformedSave wraps every strict decoding failure.
var ErrMalformedSave = errors.New("malformed saved session")

// Serialize renders id|base64(FEN)|opponent|localIsWhite[|lastMove]. The
// colour is always written; an unknown opponent leaves its field empty.
func (s *Session) Serialize() string {
	var b strings.Builder
	b.WriteString(s.id)
	b.WriteString(fieldSep)
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(board.Encode(s.pos))))
	b.WriteString(fieldSep)
	b.WriteString(s.opponent)
	b.WriteString(fieldSep)
	if s.localColor == board.White {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	if s.hasLastMove {
		b.WriteString(fieldSep)
		b.WriteString(s.lastMove.From.String() + s.lastMove.To.String())
	}
	return b.String()
}

// Deserialize never fails: a save that cannot be decoded yields a fresh session
// playing White, and the reason is logged.
func Deserialize(text string) *Session {
	s, err := DeserializeStrict(text)
	if err != nil {
		obslog.L().Warn("session_deserialize_failed", zap.Error(err))
		return NewSession(board.White)
	}
	return s
}

// DeserializeStrict is Deserialize with the decoding error surfaced.
func DeserializeStrict(text string) (*Session, error) {
	parts := strings.Split(strings.TrimSpace(text), fieldSep)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: expected at least 2 fields, got %d", ErrMalformedSave, len(parts))
	}
	if err := ValidateID(parts[0]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}
	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: position payload: %v", ErrMalformedSave, err)
	}
	pos, err := board.Decode(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSave, err)
	}

	color := board.White
	if len(parts) >= 4 && !strings.EqualFold(strings.TrimSpace(parts[3]), "true") {
		color = board.Black
	}
	s := newSession(parts[0], color, pos)
	if len(parts) >= 3 {
		s.SetOpponent(parts[2])
	}
	if len(parts) >= 5 {
		// a garbled last-move field only costs the highlight
		if m, ok := parseLastMove(parts[4]); ok {
			s.lastMove, s.hasLastMove = m, true
		}
	}
	return s, nil
}

func parseLastMove(v string) (board.Move, bool) {
	v = strings.TrimSpace(v)
	if len(v) != 4 {
		return board.Move{}, false
	}
	m, err := board.ParseMove(v[:2], v[2:], "")
	if err != nil {
		return board.Move{}, false
	}
	return m, true
}
