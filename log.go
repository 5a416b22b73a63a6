package navfunnel

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var nopLogger = zap.NewNop().Sugar()

// NewLogger builds the sugared logger the planner writes to: console output unless JSON is
// asked for, at the configured level (info when empty).
func NewLogger(cfg LogConfig) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(cfg.Level); err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, ErrInvalidConfig)
		}
	}

	zc := zap.NewDevelopmentConfig()
	if cfg.JSON {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
