// Package logging builds the zap logger used for diagnostics.
// Progress narration goes to stdout separately; the logger writes to stderr.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a console logger writing to w (os.Stderr when nil).
// Debug records are only emitted when verbose is set. Every record carries runID.
func New(verbose bool, w zapcore.WriteSyncer, runID string) *zap.Logger {
	if w == nil {
		w = zapcore.Lock(os.Stderr)
	}

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), w, level)
	return zap.New(core).With(zap.String("run_id", runID))
}
