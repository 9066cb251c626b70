package chessbuilder

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/park285/whisper-chess/internal/config"
	"github.com/park285/whisper-chess/internal/store"
)

func TestNewMemory(t *testing.T) {
	deps, err := New(context.Background(), &config.AppConfig{PlayerName: "Alice", StoreBackend: config.BackendMemory, SaveKey: "k"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer deps.Close()
	if _, ok := deps.Store.(*store.MemoryStore); !ok {
		t.Fatalf("store = %T", deps.Store)
	}
	if deps.Archive != nil || deps.Manager == nil {
		t.Fatalf("unexpected deps: %+v", deps)
	}
	if _, err := deps.Manager.NewGame(context.Background(), "Bob"); err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if raw, err := deps.Store.Load(context.Background(), "k"); err != nil || raw == "" {
		t.Fatalf("save key not honoured: %q %v", raw, err)
	}
}

func TestNewRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()
	deps, err := New(context.Background(), &config.AppConfig{
		PlayerName:   "Alice",
		StoreBackend: config.BackendRedis,
		RedisURL:     "redis://" + mr.Addr() + "/0",
		SaveKey:      "save",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := deps.Store.(*store.RedisStore); !ok {
		t.Fatalf("store = %T", deps.Store)
	}
	if err := deps.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(context.Background(), nil); err == nil {
		t.Fatalf("nil config accepted")
	}
	if _, err := New(context.Background(), &config.AppConfig{PlayerName: "a", StoreBackend: config.BackendRedis, RedisURL: "http://nope"}); err == nil {
		t.Fatalf("bad redis url accepted")
	}
	if _, err := New(context.Background(), &config.AppConfig{PlayerName: "a", MessageDir: "/does/not/exist"}); err == nil {
		t.Fatalf("missing message dir accepted")
	}
}
