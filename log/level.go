package log

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/ardnew/reshape/pkg"
)

// ErrInvalidLevel is returned when text does not name a log level.
var ErrInvalidLevel = pkg.NewError("invalid log level")

// ErrInvalidFormat is returned when text does not name a log format.
var ErrInvalidFormat = pkg.NewError("invalid log format")

// Level is the severity of a log message.
type Level slog.Level

// Log levels. LevelTrace sits below slog's Debug and is used for the
// step-by-step output of matching and instantiation.
const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levelNames = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// Levels returns the names of all defined log levels, lowest first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range levelNames {
			if !yield(l.name) {
				return
			}
		}
	}
}

// String returns the lowercase level name. Levels between the named ones
// render as the nearest lower name with an offset, like "info+2".
func (l Level) String() string {
	for i := len(levelNames) - 1; i >= 0; i-- {
		named := levelNames[i]
		if l < named.level {
			continue
		}

		if l == named.level {
			return named.name
		}

		return fmt.Sprintf("%s+%d", named.name, l-named.level)
	}

	return fmt.Sprintf("%s%d", levelNames[0].name, l-levelNames[0].level)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. See [ParseLevel].
func (l *Level) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	if strings.EqualFold(s, "trace") {
		*l = LevelTrace

		return nil
	}

	var sl slog.Level
	if err := sl.UnmarshalText([]byte(s)); err != nil {
		return ErrInvalidLevel.Wrap(err)
	}

	*l = Level(sl)

	return nil
}

// ParseLevel parses a level name, optionally followed by "+" or "-" and an
// integer offset. Unrecognized text yields [DefaultLevel].
func ParseLevel(s string) Level {
	var l Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return l
}

// Format is the encoding of log records.
type Format int

// Log formats.
const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log format.
const DefaultFormat = FormatText

var formatNames = [...]string{FormatText: "text", FormatJSON: "json"}

// Formats returns the names of all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range formatNames {
			if !yield(name) {
				return
			}
		}
	}
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))

	for i, name := range formatNames {
		if s == name {
			*f = Format(i)

			return nil
		}
	}

	return ErrInvalidFormat.With(slog.String("format", s))
}

// ParseFormat parses a format name. Unrecognized text yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	var f Format
	if err := f.UnmarshalText([]byte(s)); err != nil {
		return DefaultFormat
	}

	return f
}
