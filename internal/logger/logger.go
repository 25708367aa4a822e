// Package logger builds the service's zap logger.
//
// In debug mode records go to stdout through the console encoder. Otherwise they
// are JSON lines in a size-rotated file, optionally mirrored to stdout; if the file
// cannot be opened the logger falls back to JSON on stdout.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ModeDebug   = "debug"
	ModeRelease = "release"

	defaultDir        = "logs"
	defaultFilename   = "nccart.log"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 7
	defaultMaxAgeDays = 30
)

// Options configures New. Zero values fall back to the defaults above.
type Options struct {
	Mode       string
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Stdout     bool
}

func New(options Options) *zap.Logger {
	level := parseLevel(options)
	encoderConfig := encoderConfig()

	if strings.EqualFold(strings.TrimSpace(options.Mode), ModeDebug) {
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level)
		return zap.New(core, zap.AddCaller())
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	file, err := fileSyncer(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v, falling back to stdout\n", err)
		return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level), zap.AddCaller())
	}

	sink := file
	if options.Stdout {
		sink = zapcore.NewMultiWriteSyncer(file, zapcore.AddSync(os.Stdout))
	}
	return zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller())
}

func parseLevel(options Options) zap.AtomicLevel {
	if lvl := strings.TrimSpace(options.Level); lvl != "" {
		if parsed, err := zap.ParseAtomicLevel(strings.ToLower(lvl)); err == nil {
			return parsed
		}
	}
	if strings.EqualFold(strings.TrimSpace(options.Mode), ModeDebug) {
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zap.NewAtomicLevelAt(zap.InfoLevel)
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func fileSyncer(options Options) (zapcore.WriteSyncer, error) {
	path, err := resolvePath(options)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(options.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: positiveOr(options.MaxBackups, defaultMaxBackups),
		MaxAge:     positiveOr(options.MaxAgeDays, defaultMaxAgeDays),
		Compress:   options.Compress,
	}), nil
}

// resolvePath creates the log directory and checks the file is writable, so a
// misconfigured path is reported at startup instead of on the first write.
func resolvePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		dir = filepath.Join(wd, defaultDir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}

	name := strings.TrimSpace(options.Filename)
	if name == "" {
		name = defaultFilename
	}
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close log file: %w", err)
	}
	return path, nil
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
