package chatlink

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/park285/whisper-chess/internal/obslog"
)

// Egress sends text to a room over HTTP or WebSocket.
type Egress interface {
	SendText(ctx context.Context, room, message string) error
}

// NewEgress picks a transport: "ws", "http", or "auto" (WebSocket while
// connected, falling back to HTTP once). dryrun only logs.
func NewEgress(mode string, dryrun bool, c *Client, ws *WebSocket) Egress {
	if dryrun {
		return dryrunEgress{}
	}
	switch mode {
	case "ws":
		return &wsEgress{ws: ws}
	case "auto":
		return &autoEgress{ws: &wsEgress{ws: ws}, http: &httpEgress{c: c}}
	default:
		return &httpEgress{c: c}
	}
}

type httpEgress struct{ c *Client }

func (h *httpEgress) SendText(ctx context.Context, room, message string) error {
	if h == nil || h.c == nil {
		return errors.New("http egress not available")
	}
	return h.c.SendMessage(ctx, room, message)
}

type wsEgress struct{ ws *WebSocket }

func (w *wsEgress) SendText(ctx context.Context, room, message string) error {
	if w == nil || w.ws == nil {
		return errors.New("ws egress not available")
	}
	return w.ws.Send(ctx, room, message)
}

type autoEgress struct {
	ws   *wsEgress
	http *httpEgress
}

func (a *autoEgress) SendText(ctx context.Context, room, message string) error {
	if a.ws.ws != nil && a.ws.ws.State() == WSStateConnected {
		err := a.ws.SendText(ctx, room, message)
		if err == nil {
			return nil
		}
		obslog.L().Warn("egress_fallback", zap.String("room", room), zap.Error(err))
	}
	return a.http.SendText(ctx, room, message)
}

type dryrunEgress struct{}

func (dryrunEgress) SendText(ctx context.Context, room, message string) error {
	obslog.L().Info("egress_dryrun", zap.String("room", room), zap.String("text", message))
	return nil
}
