package match

import (
	"context"
	"errors"
	"time"

	"github.com/park285/whisper-chess/internal/archive"
	"github.com/park285/whisper-chess/internal/board"
	"github.com/park285/whisper-chess/internal/session"
)

// Errors
var (
	ErrNoActiveGame   = errors.New("no active game")
	ErrGameInProgress = errors.New("a game is already in progress")
	ErrWrongSession   = errors.New("message for another session")
	ErrUnknownSender  = errors.New("sender is not the opponent")
	ErrNoOpponent     = errors.New("opponent name required")
)

// Archiver receives every finished game once. archive.Repository satisfies it.
type Archiver interface {
	SaveResult(ctx context.Context, rec archive.Record) error
}

// Result is what the caller must deliver: Outgoing goes to the opponent,
// Notices go to the local player.
type Result struct {
	Outgoing  string
	Notices   []string
	ShowBoard bool
	Quit      bool
}

func (r *Result) notice(s string) {
	if s != "" {
		r.Notices = append(r.Notices, s)
	}
}

// View is a read-only snapshot of the live session.
type View struct {
	ID           string
	Opponent     string
	LocalColor   board.Color
	Position     board.Position
	LastMove     board.Move
	HasLastMove  bool
	Outcome      session.Outcome
	IsPlayerTurn bool
	InCheck      bool
	Moves        []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithArchiver hands finished games to a.
func WithArchiver(a Archiver) Option { return func(m *Manager) { m.archiver = a } }

// WithSaveKey overrides the store key holding the save line.
func WithSaveKey(key string) Option { return func(m *Manager) { m.saveKey = key } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }
