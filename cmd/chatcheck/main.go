package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/park285/whisper-chess/internal/chatlink"
	"github.com/park285/whisper-chess/internal/protocol"
)

// chatcheck probes the chat gateway: it optionally posts one line to
// CHATCHECK_ROOM and prints whatever arrives on the WebSocket for a while.
func main() {
	baseURL := strings.TrimSpace(os.Getenv("CHAT_BASE_URL"))
	wsURL := strings.TrimSpace(os.Getenv("CHAT_WS_URL"))
	room := strings.TrimSpace(os.Getenv("CHATCHECK_ROOM"))
	window := 10 * time.Second
	if v := os.Getenv("CHATCHECK_WINDOW_SEC"); v != "" {
		d, err := time.ParseDuration(v + "s")
		if err != nil || d <= 0 {
			log.Fatalf("invalid CHATCHECK_WINDOW_SEC %q", v)
		}
		window = d
	}

	if baseURL == "" {
		log.Fatal("CHAT_BASE_URL is required")
	}
	client := chatlink.NewClient(baseURL, chatlink.WithTimeout(8*time.Second), chatlink.WithRetry(1))

	if room != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.SendMessage(ctx, room, "whisper-chess gateway check "+time.Now().Format(time.RFC3339))
		cancel()
		if err != nil {
			log.Printf("/reply error: %v", err)
		} else {
			log.Printf("/reply ok: room=%s", room)
		}
	}

	if wsURL == "" {
		log.Println("CHAT_WS_URL not set; skipping WS check")
		return
	}

	ws := chatlink.NewWebSocket(wsURL, 5)
	ws.OnStateChange(func(state chatlink.WebSocketState) {
		log.Printf("WS state: %s", state)
	})
	ws.OnMessage(func(msg *chatlink.Message) {
		kind := "chat"
		if m, err := protocol.Parse(msg.Text); err == nil {
			kind = "chess " + m.Kind.String() + " " + m.SessionID
		} else if protocol.IsProtocolMessage(msg.Text) {
			kind = "chess malformed"
		}
		fmt.Printf("WS msg room=%s from=%s kind=%s text=%q\n", msg.Room, msg.Sender, kind, msg.Text)
	})

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := ws.Connect(cctx); err != nil {
		log.Printf("WS connect error: %v", err)
		return
	}

	t := time.NewTimer(window)
	<-t.C
	_ = ws.Close(context.Background())
}
