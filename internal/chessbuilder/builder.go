package chessbuilder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/whisper-chess/internal/archive"
	"github.com/park285/whisper-chess/internal/config"
	"github.com/park285/whisper-chess/internal/match"
	"github.com/park285/whisper-chess/internal/msgcat"
	"github.com/park285/whisper-chess/internal/obslog"
	"github.com/park285/whisper-chess/internal/store"
)

// Deps is everything a front end needs around one match.Manager.
type Deps struct {
	Manager *match.Manager
	Catalog *msgcat.Catalog
	Store   store.Store
	Archive *archive.Repository
}

// New wires the store backend, the optional archive and the message catalog
// from cfg. The save slot is not restored here; callers run Manager.Restore.
func New(ctx context.Context, cfg *config.AppConfig) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	cat, err := msgcat.New(cfg.MessageDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	var st store.Store
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rs, err := store.OpenRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("init redis store: %w", err)
		}
		st = rs
	default:
		st = store.NewMemoryStore()
	}

	deps := &Deps{Catalog: cat, Store: st}
	opts := []match.Option{match.WithSaveKey(cfg.SaveKey)}

	// archive is optional; a bad DATABASE_URL is fatal rather than silently skipped
	if cfg.DatabaseURL != "" {
		repo, err := archive.NewRepository(cfg.DatabaseURL)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("init archive: %w", err)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = repo.Close()
			_ = st.Close()
			return nil, fmt.Errorf("archive schema: %w", err)
		}
		deps.Archive = repo
		opts = append(opts, match.WithArchiver(repo))
	}

	deps.Manager = match.NewManager(cfg.PlayerName, st, cat, opts...)
	obslog.L().Info("chess_deps_ready",
		zap.String("player", cfg.PlayerName),
		zap.String("store", cfg.StoreBackend),
		zap.Bool("archive", deps.Archive != nil),
	)
	return deps, nil
}

func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.Store != nil {
		errs = append(errs, d.Store.Close())
	}
	if d.Archive != nil {
		errs = append(errs, d.Archive.Close())
	}
	return errors.Join(errs...)
}
