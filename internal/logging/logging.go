// Package logging builds the zap logger used across the tools.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level maps a verbosity (0 quiet, 1 info, 2 debug) to a zap level.
func Level(verbosity int) zapcore.Level {
	if verbosity >= 2 {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// New returns a logger for the given verbosity. Verbosity 0 discards
// everything; 1 is the production logger; 2 and above the development one.
func New(verbosity int) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	switch {
	case verbosity <= 0:
		return zap.NewNop().Sugar(), nil
	case verbosity == 1:
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NewWriter returns a console logger writing to w.
func NewWriter(verbosity int, w io.Writer) *zap.SugaredLogger {
	if verbosity <= 0 || w == nil {
		return zap.NewNop().Sugar()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), Level(verbosity))
	return zap.New(core).Sugar()
}
