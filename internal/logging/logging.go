// Package logging configures the zerolog logger shared by the command-line
// tools. Engine packages never log.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = zerolog.WarnLevel

// ParseLevel accepts debug, info, warn or error (case-insensitive). An empty
// string yields DefaultLevel.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLevel, nil
	}
	switch s {
	case "debug", "info", "warn", "error":
		return zerolog.ParseLevel(s)
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q: must be debug, info, warn or error", s)
}

// New returns a console logger writing to w at level. A nil w means stderr.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !colorable(w),
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Setup parses level, builds the logger and installs it as the package-level
// zerolog logger.
func Setup(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	l := New(w, lvl)
	log.Logger = l
	return l, nil
}

// colorable reports whether w is a terminal that should receive ANSI colour.
func colorable(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
