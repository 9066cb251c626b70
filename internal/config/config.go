package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type AppConfig struct {
	PlayerName string

	StoreBackend string
	RedisURL     string
	SaveKey      string
	SessionTTL   time.Duration

	DatabaseURL string

	ChatBaseURL    string
	ChatWSURL      string
	ChatRoomPrefix string
	ChatRooms      []string
	ChatNoticeRoom string
	CommandPrefix  string
	EgressMode     string
	DryRun         bool

	MessageDir string
}

// Load reads the environment. Chat endpoints are checked by RequireChat since
// only the relay binary needs them.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		StoreBackend:  BackendMemory,
		SaveKey:       "whisper-chess:save",
		SessionTTL:    30 * 24 * time.Hour,
		CommandPrefix: "!chess",
		EgressMode:    "http",
	}

	cfg.PlayerName = strings.TrimSpace(os.Getenv("PLAYER_NAME"))
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_BACKEND"))); v != "" {
		cfg.StoreBackend = v
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if v := strings.TrimSpace(os.Getenv("SAVE_KEY")); v != "" {
		cfg.SaveKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL_SEC")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("SESSION_TTL_SEC must be a non-negative integer, got %q", v)
		}
		cfg.SessionTTL = time.Duration(n) * time.Second
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.ChatBaseURL = strings.TrimSpace(os.Getenv("CHAT_BASE_URL"))
	cfg.ChatWSURL = strings.TrimSpace(os.Getenv("CHAT_WS_URL"))
	cfg.ChatRoomPrefix = strings.TrimSpace(os.Getenv("CHAT_ROOM_PREFIX"))
	if v := strings.TrimSpace(os.Getenv("CHAT_ROOMS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.ChatRooms = append(cfg.ChatRooms, s)
			}
		}
	}

	cfg.ChatNoticeRoom = strings.TrimSpace(os.Getenv("CHAT_NOTICE_ROOM"))
	if v := strings.TrimSpace(os.Getenv("COMMAND_PREFIX")); v != "" {
		cfg.CommandPrefix = v
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("EGRESS_MODE"))); v != "" {
		switch v {
		case "http", "ws", "auto":
			cfg.EgressMode = v
		default:
			return nil, fmt.Errorf("EGRESS_MODE must be http, ws or auto, got %q", v)
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHAT_DRYRUN")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DryRun = b
		}
	}

	cfg.MessageDir = strings.TrimSpace(os.Getenv("MESSAGE_DIR"))

	if cfg.PlayerName == "" {
		return nil, errors.New("PLAYER_NAME is required")
	}
	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required when STORE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

// RequireChat validates the chat gateway settings.
func (c *AppConfig) RequireChat() error {
	if c.ChatBaseURL == "" {
		return errors.New("CHAT_BASE_URL is required")
	}
	if c.ChatWSURL == "" {
		return errors.New("CHAT_WS_URL is required")
	}
	return nil
}

// AllowsRoom reports whether messages from room should be handled. No
// restriction applies when neither CHAT_ROOMS nor CHAT_ROOM_PREFIX is set.
func (c *AppConfig) AllowsRoom(room string) bool {
	room = strings.TrimSpace(room)
	if len(c.ChatRooms) == 0 && c.ChatRoomPrefix == "" {
		return true
	}
	for _, r := range c.ChatRooms {
		if r == room {
			return true
		}
	}
	return c.ChatRoomPrefix != "" && strings.HasPrefix(room, c.ChatRoomPrefix)
}
