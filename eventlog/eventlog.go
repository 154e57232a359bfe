// Package eventlog appends timestamped diagnostic lines, and raw page snapshots, to the log
// file that operators read after a run.
//
// Logging is best effort. Once the file has been opened, a failed write is reported on
// stderr and otherwise ignored, so it can never fail a test.
package eventlog

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimeLayout is the ISO-8601 layout of the timestamp that starts every line.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// The log is append-only: lumberjack's size limit is set so high that it never rotates
// the file away, and no backups are ever pruned.
const neverRotateMB = math.MaxInt32

// Logger writes to a single append-only file. All writes go through one lock, so lines and
// snapshot blocks from concurrent callers never interleave.
type Logger struct {
	path   string
	file   *lumberjack.Logger
	out    zapcore.WriteSyncer
	errOut zapcore.WriteSyncer
	zap    *zap.Logger
}

// New opens path for appending, creating the file and its directory if needed. It fails only
// if the file cannot be opened at all.
func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create directory for log file %s: %w", path, err)
	}
	file := &lumberjack.Logger{
		Filename: path,
		MaxSize:  neverRotateMB,
	}
	// lumberjack opens lazily; an empty write opens the file now.
	if _, err := file.Write(nil); err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	out := zapcore.Lock(zapcore.AddSync(file))
	errOut := zapcore.Lock(os.Stderr)
	core := zapcore.NewCore(newLineEncoder(), out, zapcore.DebugLevel)
	return &Logger{
		path:   path,
		file:   file,
		out:    out,
		errOut: errOut,
		zap:    zap.New(core, zap.ErrorOutput(errOut)),
	}, nil
}

// newLineEncoder produces "<timestamp> - <message>" and nothing else: no level, no logger
// name, no caller.
func newLineEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	})
}

// Path is the file the log is appended to.
func (l *Logger) Path() string {
	return l.path
}

// Log appends one line.
func (l *Logger) Log(message string) {
	l.zap.Info(message)
}

// Printf appends one formatted line. It makes Logger usable as a framework.Logger.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.zap.Info(fmt.Sprintf(format, args...))
}

// LogRawSnapshot appends content verbatim, preceded by a blank line and the label, with no
// timestamp. It is meant for dumps such as the full page markup.
func (l *Logger) LogRawSnapshot(label, content string) {
	block := "\n" + label + ":\n" + content + "\n"
	if _, err := l.out.Write([]byte(block)); err != nil {
		fmt.Fprintf(l.errOut, "eventlog: failed to write snapshot %q: %v\n", label, err)
	}
}

// Close flushes and closes the file. The Logger must not be used afterward.
func (l *Logger) Close() error {
	_ = l.zap.Sync()
	return l.file.Close()
}
