// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var _ LoggerInterface = (*Logger)(nil)

// Logger hands log lines to the UI through Prints and mirrors them to a
// structured zerolog sink.
type Logger struct {
	Prints chan string

	sink zerolog.Logger
}

// Config selects the optional file sink.
type Config struct {
	// File receives JSON log lines. Empty disables the file sink.
	File string
	// Level is a zerolog level name, "info" if empty or invalid.
	Level string
}

func Init() *Logger {
	return &Logger{
		Prints: make(chan string, 100),
		sink:   zerolog.Nop(),
	}
}

// InitWithConfig is Init plus a file sink. The returned closer releases the
// log file and is never nil.
func InitWithConfig(cfg Config) (*Logger, io.Closer, error) {
	l := Init()
	if cfg.File == "" {
		return l, nopCloser{}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return l, nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	l.sink = newSink(f, cfg.Level)
	return l, f, nil
}

// Discard returns a logger that keeps nothing. Useful for tests and
// headless runs where nobody drains Prints.
func Discard() *Logger {
	return &Logger{sink: zerolog.Nop()}
}

func newSink(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", "vidplay").
		Logger()
}

func (l *Logger) Print(s string) {
	l.sink.Info().Msg(s)
	l.enqueue(s)
}

func (l *Logger) Printf(s string, as ...interface{}) {
	l.Print(fmt.Sprintf(s, as...))
}

func (l *Logger) PrintError(source string, err error) {
	l.sink.Error().Str("source", source).Err(err).Send()
	l.enqueue(fmt.Sprintf("Error(%s) -> %s", source, err))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// enqueue never blocks; lines are dropped while the UI is behind.
func (l *Logger) enqueue(s string) {
	if l.Prints == nil {
		return
	}
	select {
	case l.Prints <- s:
	default:
	}
}
