package relay

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/park285/whisper-chess/internal/boardview"
	"github.com/park285/whisper-chess/internal/chatlink"
	"github.com/park285/whisper-chess/internal/config"
	"github.com/park285/whisper-chess/internal/match"
	"github.com/park285/whisper-chess/internal/obslog"
	"github.com/park285/whisper-chess/internal/protocol"
)

// Relay connects a chat gateway to one match.Manager. Lines from the local
// player that start with the command prefix are commands; protocol lines from
// anyone else are inbound moves.
type Relay struct {
	mgr *match.Manager
	out chatlink.Egress
	cfg *config.AppConfig

	mu    sync.Mutex
	rooms map[string]string // lower-cased sender -> last room seen
}

func New(cfg *config.AppConfig, mgr *match.Manager, out chatlink.Egress) *Relay {
	return &Relay{mgr: mgr, out: out, cfg: cfg, rooms: make(map[string]string)}
}

// Handle processes one gateway message. It is safe to call from the
// WebSocket callback goroutine.
func (r *Relay) Handle(ctx context.Context, msg *chatlink.Message) {
	if msg == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	if !r.cfg.AllowsRoom(msg.Room) {
		obslog.L().Debug("relay_room_ignored", zap.String("room", msg.Room))
		return
	}

	local := strings.EqualFold(strings.TrimSpace(msg.Sender), r.cfg.PlayerName)
	switch {
	case local && strings.HasPrefix(text, r.cfg.CommandPrefix):
		line := strings.TrimSpace(strings.TrimPrefix(text, r.cfg.CommandPrefix))
		if line == "" {
			line = "help"
		}
		// resign clears the session, so remember who we were playing
		before, _ := r.mgr.View()
		res, err := r.mgr.Execute(ctx, line)
		if err != nil {
			obslog.L().Info("relay_command_failed", zap.String("line", line), zap.Error(err))
		}
		r.deliver(ctx, msg.Room, before.Opponent, res)
	case local:
		// our own outgoing protocol lines echoed back by the gateway
	case protocol.IsProtocolMessage(text):
		r.remember(msg.Sender, msg.Room)
		res, err := r.mgr.HandleInbound(ctx, msg.Sender, text)
		if err != nil {
			lvl := obslog.L().Info
			if errors.Is(err, match.ErrUnknownSender) || errors.Is(err, match.ErrNoActiveGame) {
				lvl = obslog.L().Debug
			}
			lvl("relay_inbound_rejected", zap.String("sender", msg.Sender), zap.String("room", msg.Room), zap.Error(err))
		}
		r.deliver(ctx, "", msg.Sender, res)
	}
}

func (r *Relay) remember(sender, room string) {
	key := strings.ToLower(strings.TrimSpace(sender))
	if key == "" || room == "" {
		return
	}
	r.mu.Lock()
	r.rooms[key] = room
	r.mu.Unlock()
}

// OpponentRoom is where protocol lines for opponent are sent: the room the
// opponent last wrote from, else CHAT_ROOM_PREFIX + name.
func (r *Relay) OpponentRoom(opponent string) string {
	if strings.TrimSpace(opponent) == "" {
		return ""
	}
	r.mu.Lock()
	room, ok := r.rooms[strings.ToLower(strings.TrimSpace(opponent))]
	r.mu.Unlock()
	if ok {
		return room
	}
	if r.cfg.ChatRoomPrefix != "" {
		return r.cfg.ChatRoomPrefix + opponent
	}
	return ""
}

func (r *Relay) noticeRoom(origin string) string {
	if r.cfg.ChatNoticeRoom != "" {
		return r.cfg.ChatNoticeRoom
	}
	return origin
}

// Deliver sends res without an originating room, e.g. the result of Restore.
func (r *Relay) Deliver(ctx context.Context, res match.Result) { r.deliver(ctx, "", "", res) }

func (r *Relay) deliver(ctx context.Context, origin, opponent string, res match.Result) {
	view, hasGame := r.mgr.View()
	if res.Outgoing != "" {
		if hasGame {
			opponent = view.Opponent
		}
		room := r.OpponentRoom(opponent)
		if room == "" {
			room = origin
		}
		r.send(ctx, room, res.Outgoing)
	}

	notice := strings.Join(res.Notices, "\n")
	if res.ShowBoard && hasGame {
		opts := boardview.Options{Perspective: view.LocalColor, Plain: true}
		if view.HasLastMove {
			opts.Highlight = append(opts.Highlight, view.LastMove.From, view.LastMove.To)
		}
		grid := boardview.Render(view.Position, opts)
		if notice != "" {
			notice = grid + "\n" + notice
		} else {
			notice = grid
		}
	}
	if notice == "" {
		return
	}
	if room := r.noticeRoom(origin); room != "" {
		r.send(ctx, room, notice)
		return
	}
	obslog.L().Info("relay_notice", zap.String("text", notice))
}

func (r *Relay) send(ctx context.Context, room, text string) {
	if room == "" {
		obslog.L().Warn("relay_no_room", zap.String("text", text))
		return
	}
	if err := r.out.SendText(ctx, room, text); err != nil {
		obslog.L().Error("relay_send_failed", zap.String("room", room), zap.Error(err))
	}
}

// Forward returns a gateway callback that queues messages onto in. It blocks
// while in is full and gives up only when ctx ends.
func Forward(ctx context.Context, in chan<- *chatlink.Message) chatlink.MessageCallback {
	return func(msg *chatlink.Message) {
		if msg == nil {
			return
		}
		select {
		case in <- msg:
		case <-ctx.Done():
			obslog.L().Warn("relay_inbox_closed", zap.String("room", msg.Room), zap.String("sender", msg.Sender))
		}
	}
}

// Serve handles queued messages in arrival order until ctx ends.
func (r *Relay) Serve(ctx context.Context, in <-chan *chatlink.Message) {
	for {
		select {
		case msg := <-in:
			r.Handle(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}
