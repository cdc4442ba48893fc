// Package logger builds the zap logger shared by the CLI and the migration
// packages. Context helpers attach schema, table and row fields so all
// lines about one table can be filtered together.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/n8nmigrate/internal/config"
)

// Logger is a sugared zap logger carrying migration context.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New creates a Logger from configuration. Error-level entries carry a
// stack trace.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(buildEncoder(cfg.Format), sink, parseLevel(cfg.Level))
	return wrap(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))), nil
}

// NewDefault creates an info-level text Logger on stdout.
func NewDefault() *Logger {
	log, err := New(&config.LoggingConfig{Level: "info", Format: "text", Output: "stdout"})
	if err != nil {
		return NewNop()
	}
	return log
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return wrap(zap.NewNop())
}

func wrap(base *zap.Logger) *Logger {
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// parseLevel maps a configured level name; anything unrecognized is info.
func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil || level == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// buildEncoder returns a JSON encoder for "json" and a colored console
// encoder otherwise.
func buildEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder

	if format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

// openSink resolves the output setting. A file path also mirrors to stdout
// so the run stays visible in the terminal.
func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stdout":
		ws, _, err := zap.Open("stdout")
		return ws, err
	case "stderr":
		ws, _, err := zap.Open("stderr")
		return ws, err
	}

	ws, _, err := zap.Open("stdout", output)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %q: %w", output, err)
	}
	return ws, nil
}

func (l *Logger) with(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...), base: l.base}
}

// WithSchema adds the destination schema.
func (l *Logger) WithSchema(schema string) *Logger {
	return l.with("schema", schema)
}

// WithTable adds the table being migrated.
func (l *Logger) WithTable(table string) *Logger {
	return l.with("table", table)
}

// WithRow adds the 1-based source row position.
func (l *Logger) WithRow(position int) *Logger {
	return l.with("row", position)
}

// WithFields adds arbitrary key/value pairs.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.with(args...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
