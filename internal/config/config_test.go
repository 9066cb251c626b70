package config

import (
	"strings"
	"testing"
	"time"
)

func setenv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{"PLAYER_NAME", "STORE_BACKEND", "REDIS_URL", "SAVE_KEY", "SESSION_TTL_SEC", "DATABASE_URL", "CHAT_BASE_URL", "CHAT_WS_URL", "CHAT_ROOM_PREFIX", "CHAT_ROOMS", "CHAT_NOTICE_ROOM", "COMMAND_PREFIX", "EGRESS_MODE", "CHAT_DRYRUN", "MESSAGE_DIR"} {
		t.Setenv(k, kv[k])
	}
}

func TestLoadDefaults(t *testing.T) {
	setenv(t, map[string]string{"PLAYER_NAME": " Alice "})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PlayerName != "Alice" || cfg.StoreBackend != BackendMemory || cfg.SaveKey != "whisper-chess:save" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 30*24*time.Hour {
		t.Fatalf("ttl = %v", cfg.SessionTTL)
	}
	if cfg.CommandPrefix != "!chess" || cfg.EgressMode != "http" || cfg.DryRun {
		t.Fatalf("unexpected relay defaults: %+v", cfg)
	}
	if err := cfg.RequireChat(); err == nil {
		t.Fatalf("chat settings should be missing")
	}
	if !cfg.AllowsRoom("anything") {
		t.Fatalf("no room filter configured")
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		env  map[string]string
		want string
	}{
		{map[string]string{}, "PLAYER_NAME"},
		{map[string]string{"PLAYER_NAME": "a", "STORE_BACKEND": "redis"}, "REDIS_URL"},
		{map[string]string{"PLAYER_NAME": "a", "STORE_BACKEND": "etcd"}, "STORE_BACKEND"},
		{map[string]string{"PLAYER_NAME": "a", "SESSION_TTL_SEC": "-5"}, "SESSION_TTL_SEC"},
		{map[string]string{"PLAYER_NAME": "a", "EGRESS_MODE": "smoke"}, "EGRESS_MODE"},
	}
	for _, tc := range cases {
		setenv(t, tc.env)
		if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("env %v: err = %v, want mention of %s", tc.env, err, tc.want)
		}
	}
}

func TestLoadRedisAndRooms(t *testing.T) {
	setenv(t, map[string]string{
		"PLAYER_NAME":      "Alice",
		"STORE_BACKEND":    "Redis",
		"REDIS_URL":        "redis://localhost:6379/0",
		"SESSION_TTL_SEC":  "0",
		"CHAT_BASE_URL":    "http://gw",
		"CHAT_WS_URL":      "ws://gw/ws",
		"CHAT_ROOM_PREFIX": "dm-",
		"CHAT_ROOMS":       "lobby, ,ops",
		"EGRESS_MODE":      "AUTO",
		"CHAT_DRYRUN":      "true",
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreBackend != BackendRedis || cfg.SessionTTL != 0 || cfg.EgressMode != "auto" || !cfg.DryRun {
		t.Fatalf("unexpected: %+v", cfg)
	}
	if err := cfg.RequireChat(); err != nil {
		t.Fatalf("RequireChat: %v", err)
	}
	if len(cfg.ChatRooms) != 2 {
		t.Fatalf("rooms = %v", cfg.ChatRooms)
	}
	if !cfg.AllowsRoom("dm-bob") || !cfg.AllowsRoom("ops") || cfg.AllowsRoom("general") {
		t.Fatalf("room filter mismatch")
	}
}
