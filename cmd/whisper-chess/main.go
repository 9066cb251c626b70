package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/whisper-chess/internal/chatlink"
	"github.com/park285/whisper-chess/internal/chessbuilder"
	"github.com/park285/whisper-chess/internal/config"
	"github.com/park285/whisper-chess/internal/obslog"
	"github.com/park285/whisper-chess/internal/relay"
)

func main() {
	if err := obslog.InitFromEnv(obslog.Defaults()); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.RequireChat(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := chessbuilder.New(ctx, cfg)
	if err != nil {
		log.Fatalf("chess init error: %v", err)
	}
	defer deps.Close()

	client := chatlink.NewClient(cfg.ChatBaseURL)
	ws := chatlink.NewWebSocket(cfg.ChatWSURL, 5)
	ws.OnStateChange(func(state chatlink.WebSocketState) {
		obslog.L().Info("ws_state", zap.String("state", string(state)))
	})
	egress := chatlink.NewEgress(cfg.EgressMode, cfg.DryRun, client, ws)
	rl := relay.New(cfg, deps.Manager, egress)

	// one message at a time; order matters for moves
	inbox := make(chan *chatlink.Message, 64)
	ws.OnMessage(relay.Forward(ctx, inbox))

	res, err := deps.Manager.Restore(ctx)
	if err != nil {
		log.Fatalf("restore error: %v", err)
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := ws.Connect(cctx); err != nil {
		cancel()
		log.Fatalf("ws connect error: %v", err)
	}
	cancel()
	rl.Deliver(ctx, res)
	obslog.L().Info("relay_started", zap.String("player", cfg.PlayerName), zap.String("egress", cfg.EgressMode), zap.Bool("dryrun", cfg.DryRun))

	rl.Serve(ctx, inbox)
	obslog.L().Info("relay_stopping")
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = ws.Close(closeCtx)
}
