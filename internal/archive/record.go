package archive

import (
	"strings"
	"time"

	"github.com/park285/whisper-chess/internal/board"
	"github.com/park285/whisper-chess/internal/session"
)

// Record is one finished match as stored in chess_matches.
type Record struct {
	SessionID    string
	LocalName    string
	OpponentName string
	LocalColor   string
	Result       string // white | black | draw
	ResultMethod string
	Moves        []string
	FinalFEN     string
	StartedAt    time.Time
	EndedAt      time.Time
}

// Duration is never negative.
func (r Record) Duration() time.Duration {
	d := r.EndedAt.Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Score renders the result as a PGN score token.
func (r Record) Score() string { return mapResultToPGN(r.Result) }

// BuildRecord snapshots a finished session. ok is false while the game is still running.
func BuildRecord(s *session.Session, localName string, endedAt time.Time) (rec Record, ok bool) {
	if s == nil || s.Outcome() == session.InProgress {
		return Record{}, false
	}
	rec = Record{
		SessionID:    s.ID(),
		LocalName:    strings.TrimSpace(localName),
		OpponentName: s.Opponent(),
		LocalColor:   strings.ToLower(s.LocalColor().String()),
		ResultMethod: string(s.ResultMethod()),
		Moves:        s.Moves(),
		FinalFEN:     board.Encode(s.Position()),
		StartedAt:    s.StartedAt(),
		EndedAt:      endedAt,
	}
	switch s.Outcome() {
	case session.WhiteWins:
		rec.Result = "white"
	case session.BlackWins:
		rec.Result = "black"
	default:
		rec.Result = "draw"
		if r := s.DrawReason(); r != board.NoDraw {
			rec.ResultMethod = string(r)
		}
	}
	return rec, true
}

func mapResultToPGN(result string) string {
	switch strings.ToLower(strings.TrimSpace(result)) {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	case "draw":
		return "1/2-1/2"
	default:
		return "*"
	}
}
