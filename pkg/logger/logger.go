package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// Init inicializa el logger global. level acepta debug, info, warn o error.
func Init(level string) {
	var err error
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"            // Logs estructurados en JSON
	cfg.EncoderConfig.TimeKey = "ts" // timestamp
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if lvl, parseErr := zapcore.ParseLevel(level); parseErr == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}

// Sugar retorna un logger más “friendly” para usar con printf-like
func Sugar() *zap.SugaredLogger {
	return Logger().Sugar()
}

// Logger retorna el logger estructurado; sin Init devuelve un Nop.
func Logger() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
