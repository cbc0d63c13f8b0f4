// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small structured-logging facade, styled on the
// Logger/Helper/Filter pattern the teacher imports as
// "github.com/saferwall/pe/log" (itself in the go-kratos log style):
// a minimal Logger interface, a leveled Helper on top of it, and a
// Filter decorator that drops messages below a configured level.
package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink every helper and filter writes through.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes "LEVEL key=value key=value ..." lines to an
// io.Writer.
type stdLogger struct {
	w io.Writer
}

// NewStdLogger returns a Logger that writes plain text lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (l *stdLogger) Log(level Level, keyvals ...interface{}) error {
	line := fmt.Sprintf("%s %s", time.Now().Format(time.RFC3339), level)
	for i := 0; i+1 < len(keyvals); i += 2 {
		line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	_, err := fmt.Fprintln(l.w, line)
	return err
}

// DefaultLogger writes to stderr.
var DefaultLogger = NewStdLogger(os.Stderr)

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// FilterLevel sets the minimum level a Filter lets through.
func FilterLevel(level Level) FilterOption {
	return func(f *Filter) { f.level = level }
}

// Filter wraps a Logger and drops entries below its configured level.
type Filter struct {
	logger Logger
	level  Level
}

// NewFilter returns a Logger decorator applying opts over logger.
func NewFilter(logger Logger, opts ...FilterOption) Logger {
	f := &Filter{logger: logger, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.logger.Log(level, keyvals...)
}

// Helper provides leveled convenience methods over a Logger, the way
// callers throughout the codec actually log: pe.File holds a
// *log.Helper and calls Errorf/Debugf on it.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger in a Helper.
func NewHelper(logger Logger) *Helper {
	if logger == nil {
		logger = DefaultLogger
	}
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, msg string) { _ = h.logger.Log(level, "msg", msg) }

func (h *Helper) Debug(msg string) { h.log(LevelDebug, msg) }
func (h *Helper) Info(msg string)  { h.log(LevelInfo, msg) }
func (h *Helper) Warn(msg string)  { h.log(LevelWarn, msg) }
func (h *Helper) Error(msg string) { h.log(LevelError, msg) }

func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, fmt.Sprintf(format, args...)) }
