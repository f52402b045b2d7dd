package logger

import (
	"io"
	"log"
	"os"
)

type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelDebug
	LevelTrace
)

type Logger struct {
	*log.Logger
	level     LogLevel
	isVerbose bool
}

type Option func(*Logger)

func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.Logger = log.New(w, l.Logger.Prefix(), l.Logger.Flags())
	}
}

func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Logger.Writer(), prefix, l.Logger.Flags())
	}
}

func WithFlags(flags int) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Logger.Writer(), l.Logger.Prefix(), flags)
	}
}

// New returns a logger writing plain progress lines to stdout.
func New(options ...Option) *Logger {
	l := &Logger{
		Logger:    log.New(os.Stdout, "", 0),
		level:     LevelInfo,
		isVerbose: false,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

// Discard returns a logger that drops everything. Handy as a default collaborator.
func Discard() *Logger {
	return New(WithOutput(io.Discard))
}

func (l *Logger) SetVerbose(verbose bool) {
	l.isVerbose = verbose
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
	if level >= LevelDebug {
		l.isVerbose = true
	}
}

func (l *Logger) IsVerbose() bool {
	return l.isVerbose
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.printf("", format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.printf("Warning: ", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.printf("Error: ", format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.isVerbose {
		l.printf("DEBUG: ", format, args...)
	}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LevelTrace {
		l.printf("TRACE: ", format, args...)
	}
}

func (l *Logger) printf(prefix, format string, args ...interface{}) {
	l.Logger.Printf(prefix+format, args...)
}
