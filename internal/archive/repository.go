package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Schema creates the archive table when missing.
const Schema = `CREATE TABLE IF NOT EXISTS chess_matches (
    session_id    TEXT PRIMARY KEY,
    local_name    TEXT NOT NULL,
    opponent_name TEXT NOT NULL,
    local_color   TEXT NOT NULL,
    result        TEXT NOT NULL,
    score         TEXT NOT NULL,
    result_method TEXT NOT NULL,
    moves         JSONB NOT NULL,
    final_fen     TEXT NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL,
    ended_at      TIMESTAMPTZ NOT NULL,
    duration_ms   BIGINT NOT NULL
)`

const upsertMatch = `INSERT INTO chess_matches (
    session_id, local_name, opponent_name, local_color,
    result, score, result_method, moves, final_fen,
    started_at, ended_at, duration_ms
  ) VALUES (
    $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
  ) ON CONFLICT (session_id) DO UPDATE SET
    local_name=EXCLUDED.local_name,
    opponent_name=EXCLUDED.opponent_name,
    local_color=EXCLUDED.local_color,
    result=EXCLUDED.result,
    score=EXCLUDED.score,
    result_method=EXCLUDED.result_method,
    moves=EXCLUDED.moves,
    final_fen=EXCLUDED.final_fen,
    started_at=EXCLUDED.started_at,
    ended_at=EXCLUDED.ended_at,
    duration_ms=EXCLUDED.duration_ms`

type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema runs Schema.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

// SaveResult upserts a finished match keyed by session id.
func (r *Repository) SaveResult(ctx context.Context, rec Record) error {
	if r == nil || r.db == nil {
		return nil
	}
	if strings.TrimSpace(rec.SessionID) == "" {
		return fmt.Errorf("archive: empty session id")
	}
	moves := rec.Moves
	if moves == nil {
		moves = []string{}
	}
	movesRaw, err := json.Marshal(moves)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertMatch,
		rec.SessionID, rec.LocalName, rec.OpponentName, rec.LocalColor,
		rec.Result, rec.Score(), rec.ResultMethod, string(movesRaw), rec.FinalFEN,
		rec.StartedAt, rec.EndedAt, rec.Duration().Milliseconds(),
	)
	return err
}
