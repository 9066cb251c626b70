package match

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/whisper-chess/internal/archive"
	"github.com/park285/whisper-chess/internal/board"
	"github.com/park285/whisper-chess/internal/msgcat"
	"github.com/park285/whisper-chess/internal/obslog"
	"github.com/park285/whisper-chess/internal/protocol"
	"github.com/park285/whisper-chess/internal/session"
	"github.com/park285/whisper-chess/internal/store"
)

const defaultSaveKey = "whisper-chess:save"

// Manager owns the one live session of this process. The local input path and
// the inbound message path both go through mu.
type Manager struct {
	mu sync.Mutex

	player   string
	store    store.Store
	cat      *msgcat.Catalog
	archiver Archiver
	saveKey  string
	now      func() time.Time

	sess     *session.Session
	saved    string
	archived bool
}

func NewManager(player string, st store.Store, cat *msgcat.Catalog, opts ...Option) *Manager {
	m := &Manager{
		player:  strings.TrimSpace(player),
		store:   st,
		cat:     cat,
		saveKey: defaultSaveKey,
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) text(key string, data map[string]any) string {
	return m.cat.Text(key, data)
}

// View returns a snapshot of the live session, if any.
func (m *Manager) View() (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return View{}, false
	}
	s := m.sess
	lm, ok := s.LastMove()
	return View{
		ID:           s.ID(),
		Opponent:     s.Opponent(),
		LocalColor:   s.LocalColor(),
		Position:     s.Position(),
		LastMove:     lm,
		HasLastMove:  ok,
		Outcome:      s.Outcome(),
		IsPlayerTurn: s.IsPlayerTurn(),
		InCheck:      board.InCheck(s.Position()),
		Moves:        s.Moves(),
	}, true
}

// Restore loads the save slot. An unreadable save is discarded with a notice.
func (m *Manager) Restore(ctx context.Context) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result

	raw, err := m.store.Load(ctx, m.saveKey)
	if errors.Is(err, store.ErrNotFound) {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	s, err := session.DeserializeStrict(raw)
	if err != nil {
		obslog.L().Warn("session_deserialize_failed", zap.String("key", m.saveKey), zap.Error(err))
		res.notice(m.text("save.discarded", nil))
		if derr := m.store.Delete(ctx, m.saveKey); derr != nil {
			obslog.L().Warn("match_save_delete_failed", zap.Error(derr))
		}
		m.saved = ""
		return res, nil
	}
	m.install(s)
	m.saved = raw
	obslog.L().Info("match_restored", zap.String("session", s.ID()), zap.String("opponent", s.Opponent()))
	res.notice(m.text("game.restored", map[string]any{"ID": s.ID(), "Opponent": s.Opponent(), "Color": s.LocalColor().String()}))
	m.statusNotices(&res)
	res.ShowBoard = true
	return res, nil
}

// NewGame starts a match as White against opponent.
func (m *Manager) NewGame(ctx context.Context, opponent string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result
	if err := m.checkReplaceable(&res, opponent, "new <opponent>"); err != nil {
		return res, err
	}
	s := session.NewSession(board.White)
	s.SetOpponent(opponent)
	m.install(s)
	m.persist(ctx, &res)
	obslog.L().Info("match_created", zap.String("session", s.ID()), zap.String("opponent", s.Opponent()))
	res.notice(m.text("game.created", map[string]any{"ID": s.ID(), "Opponent": s.Opponent()}))
	res.ShowBoard = true
	return res, nil
}

// JoinGame accepts an invitation as Black and returns the JOIN acknowledgement.
func (m *Manager) JoinGame(ctx context.Context, id, opponent string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result
	if err := m.checkReplaceable(&res, opponent, "join <id> <opponent>"); err != nil {
		return res, err
	}
	s, err := session.FromID(strings.TrimSpace(id), board.Black)
	if err != nil {
		res.notice(m.text("game.invalid_id", map[string]any{"ID": id}))
		return res, err
	}
	s.SetOpponent(opponent)
	m.install(s)
	m.persist(ctx, &res)
	obslog.L().Info("match_joined", zap.String("session", s.ID()), zap.String("opponent", s.Opponent()))
	res.Outgoing = s.JoinMessage()
	res.notice(m.text("game.joined", map[string]any{"ID": s.ID(), "Opponent": s.Opponent()}))
	res.ShowBoard = true
	return res, nil
}

func (m *Manager) checkReplaceable(res *Result, opponent, usage string) error {
	if strings.TrimSpace(strings.ReplaceAll(opponent, "|", "")) == "" {
		res.notice(m.text("cli.usage", map[string]any{"Usage": usage}))
		return ErrNoOpponent
	}
	if m.sess != nil && !m.sess.IsOver() {
		res.notice(m.text("game.already_active", map[string]any{"ID": m.sess.ID()}))
		return ErrGameInProgress
	}
	return nil
}

func (m *Manager) install(s *session.Session) {
	m.sess = s
	m.archived = false
}

// Move plays a local move given as square names.
func (m *Manager) Move(ctx context.Context, from, to, promotion string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result
	s, err := m.active(&res)
	if err != nil {
		return res, err
	}
	mv, err := session.ParseMove(from, to, promotion)
	if err != nil {
		res.notice(m.text("move.invalid_square", map[string]any{"Detail": err.Error()}))
		return res, err
	}
	applied, err := s.AttemptMove(mv)
	if err != nil {
		m.rejectNotice(&res, s, mv, err)
		return res, err
	}
	obslog.L().Info("match_move",
		zap.String("session", s.ID()),
		zap.String("side", "local"),
		zap.String("uci", applied.Move.String()),
		zap.String("outcome", string(applied.Outcome)),
	)
	m.persist(ctx, &res)
	res.Outgoing = applied.Message
	res.notice(m.text("move.made", map[string]any{"Move": applied.Move.String(), "Opponent": s.Opponent(), "Message": applied.Message}))
	m.statusNotices(&res)
	m.archiveIfOver(ctx)
	res.ShowBoard = true
	return res, nil
}

func (m *Manager) rejectNotice(res *Result, s *session.Session, mv board.Move, err error) {
	switch {
	case errors.Is(err, session.ErrGameAlreadyOver):
		res.notice(m.text("game.already_over", map[string]any{"ID": s.ID()}))
	case errors.Is(err, session.ErrNotYourTurn):
		res.notice(m.text("move.not_your_turn", nil))
	case errors.Is(err, session.ErrIllegalMove):
		res.notice(m.text("move.illegal", map[string]any{"Move": mv.String()}))
	default:
		res.notice(err.Error())
	}
}

// Destinations lists the legal targets of the piece on square.
func (m *Manager) Destinations(ctx context.Context, square string) (Result, []board.Square, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result
	s, err := m.active(&res)
	if err != nil {
		return res, nil, err
	}
	sq, err := board.ParseSquare(square)
	if err != nil {
		res.notice(m.text("move.invalid_square", map[string]any{"Detail": err.Error()}))
		return res, nil, errors.Join(session.ErrInvalidSquare, err)
	}
	targets := s.LegalDestinations(sq)
	if len(targets) == 0 {
		res.notice(m.text("move.no_destinations", map[string]any{"Square": sq.String()}))
		return res, nil, nil
	}
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.String()
	}
	res.notice(m.text("move.destinations", map[string]any{"Square": sq.String(), "Targets": strings.Join(names, " ")}))
	return res, targets, nil
}

// HandleInbound processes a message received from sender. Anything that is not
// a protocol message for the live session from its opponent is ignored.
func (m *Manager) HandleInbound(ctx context.Context, sender, text string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result

	if !protocol.IsProtocolMessage(text) {
		return res, protocol.ErrNotProtocolMessage
	}
	s := m.sess
	if s == nil {
		obslog.L().Debug("match_inbound_ignored", zap.String("reason", "no_game"), zap.String("sender", sender))
		return res, ErrNoActiveGame
	}
	if !strings.EqualFold(strings.TrimSpace(sender), s.Opponent()) {
		obslog.L().Debug("match_inbound_ignored", zap.String("reason", "sender"), zap.String("sender", sender))
		return res, ErrUnknownSender
	}
	msg, err := protocol.Parse(text)
	if err != nil {
		obslog.L().Warn("match_inbound_malformed", zap.String("sender", sender), zap.Error(err))
		res.notice(m.text("sync.malformed", map[string]any{"Opponent": s.Opponent()}))
		return res, err
	}
	if msg.SessionID != s.ID() {
		obslog.L().Info("match_inbound_ignored", zap.String("reason", "session"), zap.String("got", msg.SessionID), zap.String("want", s.ID()))
		res.notice(m.text("sync.wrong_session", map[string]any{"ID": msg.SessionID, "Current": s.ID()}))
		return res, ErrWrongSession
	}

	switch msg.Kind {
	case protocol.KindJoin:
		obslog.L().Info("match_opponent_joined", zap.String("session", s.ID()))
		res.notice(m.text("game.opponent_joined", map[string]any{"ID": s.ID(), "Opponent": s.Opponent()}))
		m.statusNotices(&res)
		return res, nil
	case protocol.KindResign:
		if err := s.Resign(s.LocalColor().Other()); err != nil {
			return res, err
		}
		obslog.L().Info("match_resigned", zap.String("session", s.ID()), zap.String("side", "remote"))
		m.persist(ctx, &res)
		res.notice(m.text("over.resigned_remote", map[string]any{"Opponent": s.Opponent()}))
		m.archiveIfOver(ctx)
		return res, nil
	}

	applied, err := s.ApplyRemoteMove(msg.Move)
	if err != nil {
		obslog.L().Warn("match_inbound_rejected",
			zap.String("session", s.ID()),
			zap.String("uci", msg.Move.String()),
			zap.Error(err),
		)
		res.notice(m.text("sync.desync", map[string]any{"Opponent": s.Opponent(), "Move": msg.Move.String(), "Detail": err.Error()}))
		return res, err
	}
	obslog.L().Info("match_move",
		zap.String("session", s.ID()),
		zap.String("side", "remote"),
		zap.String("uci", applied.Move.String()),
		zap.String("outcome", string(applied.Outcome)),
	)
	m.persist(ctx, &res)
	res.notice(m.text("move.received", map[string]any{"Opponent": s.Opponent(), "Move": applied.Move.String()}))
	m.statusNotices(&res)
	m.archiveIfOver(ctx)
	res.ShowBoard = true
	return res, nil
}

// Resign forfeits the live game, returns the RESIGN message and clears the save slot.
func (m *Manager) Resign(ctx context.Context) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result
	s, err := m.active(&res)
	if err != nil {
		return res, err
	}
	if err := s.Resign(s.LocalColor()); err != nil {
		res.notice(m.text("game.already_over", map[string]any{"ID": s.ID()}))
		return res, err
	}
	obslog.L().Info("match_resigned", zap.String("session", s.ID()), zap.String("side", "local"))
	res.Outgoing = s.ResignMessage()
	res.notice(m.text("over.resigned_local", map[string]any{"Opponent": s.Opponent(), "Message": res.Outgoing}))
	m.archiveIfOver(ctx)
	m.clear(ctx, &res)
	return res, nil
}

// Reset abandons the live game without telling the opponent.
func (m *Manager) Reset(ctx context.Context) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result
	s, err := m.active(&res)
	if err != nil {
		return res, err
	}
	s.Abandon()
	obslog.L().Info("match_reset", zap.String("session", s.ID()))
	res.notice(m.text("game.reset", map[string]any{"ID": s.ID()}))
	m.clear(ctx, &res)
	return res, nil
}

// SaveLine persists the live session and returns its save line.
func (m *Manager) SaveLine(ctx context.Context) (Result, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res Result
	s, err := m.active(&res)
	if err != nil {
		return res, "", err
	}
	m.persist(ctx, &res)
	return res, s.Serialize(), nil
}

func (m *Manager) active(res *Result) (*session.Session, error) {
	if m.sess == nil {
		res.notice(m.text("game.none", nil))
		return nil, ErrNoActiveGame
	}
	return m.sess, nil
}

func (m *Manager) statusNotices(res *Result) {
	s := m.sess
	switch s.Outcome() {
	case session.InProgress:
		if board.InCheck(s.Position()) {
			res.notice(m.text("move.check", nil))
		}
		if s.IsPlayerTurn() {
			res.notice(m.text("turn.yours", map[string]any{"Color": s.LocalColor().String()}))
		} else {
			res.notice(m.text("turn.theirs", map[string]any{"Opponent": s.Opponent()}))
		}
	case session.Draw:
		res.notice(m.text("over.draw", map[string]any{"Reason": strings.ReplaceAll(string(s.DrawReason()), "_", " ")}))
	default:
		if s.ResultMethod() != session.MethodCheckmate {
			return
		}
		if w, _ := s.Winner(); w == s.LocalColor() {
			res.notice(m.text("over.checkmate_win", nil))
		} else {
			res.notice(m.text("over.checkmate_loss", map[string]any{"Opponent": s.Opponent()}))
		}
	}
}

// persist writes the save line. A slot changed by another process is
// overwritten after logging; storage errors become a notice. A finished game
// whose outcome the line cannot carry empties the slot instead, so a restart
// never revives it; the live session stays in memory until replaced.
func (m *Manager) persist(ctx context.Context, res *Result) {
	if !m.sess.Restorable() {
		m.saved = ""
		if err := m.store.Delete(ctx, m.saveKey); err != nil {
			obslog.L().Error("match_save_delete_failed", zap.String("key", m.saveKey), zap.Error(err))
			res.notice(m.text("save.failed", map[string]any{"Detail": err.Error()}))
		}
		return
	}
	text := m.sess.Serialize()
	err := m.store.CompareAndSwap(ctx, m.saveKey, m.saved, text)
	if errors.Is(err, store.ErrConflict) {
		obslog.L().Warn("match_save_conflict", zap.String("key", m.saveKey), zap.String("session", m.sess.ID()))
		err = m.store.Save(ctx, m.saveKey, text)
	}
	if err != nil {
		obslog.L().Error("match_save_failed", zap.String("key", m.saveKey), zap.Error(err))
		res.notice(m.text("save.failed", map[string]any{"Detail": err.Error()}))
		return
	}
	m.saved = text
}

func (m *Manager) clear(ctx context.Context, res *Result) {
	m.sess = nil
	m.saved = ""
	if err := m.store.Delete(ctx, m.saveKey); err != nil {
		obslog.L().Error("match_save_delete_failed", zap.String("key", m.saveKey), zap.Error(err))
		res.notice(m.text("save.failed", map[string]any{"Detail": err.Error()}))
	}
}

func (m *Manager) archiveIfOver(ctx context.Context) {
	if m.archiver == nil || m.archived || m.sess == nil {
		return
	}
	rec, ok := archive.BuildRecord(m.sess, m.player, m.now())
	if !ok {
		return
	}
	m.archived = true
	if err := m.archiver.SaveResult(ctx, rec); err != nil {
		obslog.L().Error("match_archive_failed", zap.String("session", rec.SessionID), zap.Error(err))
		return
	}
	obslog.L().Info("match_archived", zap.String("session", rec.SessionID), zap.String("result", rec.Result), zap.String("method", rec.ResultMethod))
}
