package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const filePermission = 0o664

// Builder assembles a zerolog.Logger writing to a writer or an append-only
// file.
type Builder struct {
	writer io.Writer
	path   string
	level  string
}

type Logger struct {
	zerolog.Logger
	file *os.File
}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) ToWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

func (b *Builder) ToFile(path string) *Builder {
	b.path = path
	return b
}

func (b *Builder) Level(level string) *Builder {
	b.level = level
	return b
}

// Make opens the destination and returns the logger. Without a file or
// writer it logs to stderr.
func (b *Builder) Make() (*Logger, error) {
	lvl, err := ParseLevel(b.level)
	if err != nil {
		return nil, err
	}

	out := &Logger{}
	var w io.Writer = os.Stderr
	if b.writer != nil {
		w = b.writer
	}
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out.file = f
		w = zerolog.SyncWriter(f)
	}

	out.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return out, nil
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a config level name to a zerolog level. Empty means warn.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.WarnLevel, nil
	case "off", "disabled":
		return zerolog.Disabled, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}
