package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andrewpaige1/studyflash-api/config"
)

// New builds the process logger: human readable with debug output in
// development, JSON at info level everywhere else.
func New(env string) (*zap.Logger, error) {
	switch env {
	case config.EnvDevelopment:
		return zap.NewDevelopment()
	case config.EnvTest:
		return zap.NewNop(), nil
	default:
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
}
