package logger

import (
	"biokuiz/internal/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log stays a no-op logger until InitLogger runs.
var Log = zap.NewNop()

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

func parseLevel(cfg *config.Config) zapcore.Level {
	if cfg.Server.Mode == "debug" {
		return zap.DebugLevel
	}
	l, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zap.InfoLevel
	}
	return l
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// InitLogger replaces Log with a console logger and, when a log file is
// configured, a rotated JSON file sink sharing the same level.
func InitLogger(cfg *config.Config) {
	level.SetLevel(parseLevel(cfg))
	enc := encoderConfig()

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), level),
	}
	if cfg.Log.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(rotated), level))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)).
		With(zap.String("service", "biokuiz"))
}

// Reload applies the log level of a reloaded config.
func Reload(cfg *config.Config) {
	next := parseLevel(cfg)
	if next != level.Level() {
		Log.Info("log level changed", zap.Stringer("from", level.Level()), zap.Stringer("to", next))
		level.SetLevel(next)
	}
}

// Level reports the active level.
func Level() zapcore.Level {
	return level.Level()
}
