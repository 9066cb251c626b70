package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 전역 로거. 초기화 전에는 Nop.
var (
	globalLogger *zap.Logger = zap.NewNop()
)

// L는 전역 로거를 반환.
func L() *zap.Logger { return globalLogger }

// Set replaces the global logger. Tests use it with zaptest/observer.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	globalLogger = l
}

// Sync flushes buffered entries; errors from syncing a terminal are ignored.
func Sync() { _ = globalLogger.Sync() }

// Options controls the logger outputs. Zero values are filled from Defaults.
type Options struct {
	Level   string
	Console bool
	File    bool
	Path    string
	Format  string // legacy | json | console
	Caller  bool
	Color   bool
}

// Defaults suits the relay daemon: console and file output, legacy format.
func Defaults() Options {
	return Options{
		Level:   "info",
		Console: true,
		File:    true,
		Path:    filepath.Join("logs", "whisper-chess.log"),
		Format:  "legacy",
	}
}

// InitFromEnv overlays LOG_* environment variables on def and installs the result.
func InitFromEnv(def Options) error {
	opts := def
	opts.Level = getenvDefault("LOG_LEVEL", def.Level)
	opts.Console = getenvBool("LOG_TO_CONSOLE", def.Console)
	opts.File = getenvBool("LOG_TO_FILE", def.File)
	opts.Caller = getenvBool("LOG_CALLER", def.Caller)
	opts.Color = getenvBool("LOG_COLOR", def.Color)
	opts.Format = strings.ToLower(strings.TrimSpace(getenvDefault("LOG_FORMAT", def.Format)))
	opts.Path = strings.TrimSpace(getenvDefault("LOG_FILE", def.Path))
	return Init(opts)
}

// Init builds a tee of the enabled outputs and installs it as the global logger.
func Init(opts Options) error {
	level := parseLevel(opts.Level)
	format := opts.Format
	if format != "legacy" && format != "json" && format != "console" {
		format = "legacy"
	}

	var cores []zapcore.Core
	if opts.Console {
		cores = append(cores, zapcore.NewCore(encoderFor(format, opts.Color), zapcore.AddSync(os.Stdout), level))
	}
	if opts.File && opts.Path != "" {
		if err := ensureDir(filepath.Dir(opts.Path)); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		// 파일에는 색상 코드를 넣지 않는다
		cores = append(cores, zapcore.NewCore(encoderFor(format, false), zapcore.AddSync(f), level))
	}
	if len(cores) == 0 {
		globalLogger = zap.NewNop()
		return nil
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if opts.Caller || format == "legacy" {
		logger = logger.WithOptions(zap.AddCaller())
	}
	globalLogger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

func encoderFor(format string, color bool) zapcore.Encoder {
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	case "console":
		return zapcore.NewConsoleEncoder(consoleEncoderConfig(color))
	default:
		return zapcore.NewConsoleEncoder(legacyEncoderConfig())
	}
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func legacyEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

func consoleEncoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
