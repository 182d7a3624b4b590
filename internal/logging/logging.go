// Package logging builds the logr loggers used across fractalbg.
//
// Loggers are zap backed through zapr. Verbosity follows logr: V(0) is
// info, and the DEBUG and TRACE constants select progressively chattier
// output, e.g.
//
//	logger.V(logging.DEBUG).Info("tile rendered", "tile", tile)
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// ParseLevel converts a level name into a logr verbosity.
func ParseLevel(level string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return INFO, nil
	case "debug":
		return DEBUG, nil
	case "trace":
		return TRACE, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger returns a console logger on stderr enabled up to the given level.
func NewLogger(level string) (logr.Logger, error) {
	v, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-v))
	cfg.Sampling = nil

	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("zap config build: %w", err)
	}
	return zapr.NewLogger(z), nil
}

// NewTestLogger returns a logger writing everything up to TRACE to w,
// typically GinkgoWriter or a test buffer.
func NewTestLogger(w io.Writer) logr.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.Level(-TRACE),
	)
	return zapr.NewLogger(zap.New(core))
}
