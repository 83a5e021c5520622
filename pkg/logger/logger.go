package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base  = zap.NewNop()
	sugar = base.Sugar()
)

// Options controls where and how verbosely the service logs.
type Options struct {
	Level string // debug, info, warn, error
	Dir   string // daily log files are written here; empty disables file output
}

// SetupLogger builds the process logger. Output goes to stdout and, when a
// directory is given, to <dir>/<yyyy-mm-dd>.log as well.
func SetupLogger(opts Options) error {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		name := filepath.Join(opts.Dir, time.Now().Format("2006-01-02")+".log")
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		sinks = append(sinks, zapcore.AddSync(f))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		level,
	)
	base = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	sugar = base.Sugar()
	zap.ReplaceGlobals(base)
	return nil
}

// L returns the structured logger for callers that want typed fields.
func L() *zap.Logger {
	return base
}

// Sync flushes buffered entries.
func Sync() {
	_ = base.Sync()
}

// Debug logs at debug level
func Debug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

// Info logs at info level
func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

// Warning logs at warn level
func Warning(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// Error logs at error level
func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}
