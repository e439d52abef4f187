// Package flagutil adds the parsing rules shared by the toolkit CLIs on top
// of the standard flag package.
package flagutil

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// Options control how leftovers after flag parsing are treated.
type Options struct {
	// Positional permits positional leftovers. A bare "-" counts as
	// positional.
	Positional bool
	// AllowUnknown returns unrecognised flags instead of failing.
	AllowUnknown bool
}

// Parse parses args into fs and returns what remains. flag.ErrHelp is
// returned as-is when -help is given so callers can exit 0.
func Parse(fs *flag.FlagSet, args []string, opts Options) ([]string, error) {
	known, unknown := split(fs, args)
	if len(unknown) > 0 && !opts.AllowUnknown {
		return nil, fmt.Errorf("Unknown command line flag '%s'", flagName(unknown[0]))
	}

	if err := fs.Parse(known); err != nil {
		return nil, err
	}
	remaining := fs.Args()

	if opts.AllowUnknown {
		remaining = append(unknown, remaining...)
		if len(remaining) > 0 {
			slog.Default().With("component", "flagutil").Warn(fmt.Sprintf("Ignoring unrecognised flags %v", remaining))
		}
		return remaining, nil
	}
	if opts.Positional {
		for _, a := range remaining {
			if isFlag(a) {
				return nil, fmt.Errorf("Unknown flags passed: %s", strings.Join(remaining, " "))
			}
		}
		return remaining, nil
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("Unknown flags passed: %s", strings.Join(remaining, " "))
	}
	return remaining, nil
}

// split separates flags fs does not define. Scanning stops at the first
// positional argument or at "--", matching the flag package.
func split(fs *flag.FlagSet, args []string) (known, unknown []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" || !isFlag(a) {
			known = append(known, args[i:]...)
			return known, unknown
		}
		name := flagName(a)
		if name == "help" || name == "h" || fs.Lookup(name) != nil {
			known = append(known, a)
			if f := fs.Lookup(name); f != nil && !strings.Contains(a, "=") && !isBool(f) && i+1 < len(args) {
				i++
				known = append(known, args[i])
			}
			continue
		}
		unknown = append(unknown, a)
	}
	return known, unknown
}

func isFlag(a string) bool {
	return len(a) > 1 && a[0] == '-'
}

func flagName(a string) string {
	name := strings.TrimLeft(a, "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return name
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// ApplyModifiers replaces the value of each named flag with the result of
// its modifier applied to the current value.
func ApplyModifiers(fs *flag.FlagSet, modifiers map[string]func(string) string) error {
	for name, modify := range modifiers {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("flagutil: no flag named %q", name)
		}
		if err := fs.Set(name, modify(f.Value.String())); err != nil {
			return fmt.Errorf("flagutil: modify %q: %w", name, err)
		}
	}
	return nil
}

// AbsPath is a modifier that makes a non-empty path absolute.
func AbsPath(p string) string {
	if p == "" {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// IsSet reports whether name was given on the command line.
func IsSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// Required fails for the first named flag with an empty value.
func Required(fs *flag.FlagSet, names ...string) error {
	for _, name := range names {
		f := fs.Lookup(name)
		if f == nil || f.Value.String() == "" {
			return fmt.Errorf("Flag --%s must have a value other than None.", name)
		}
	}
	return nil
}

// ErrNoLevel is returned for an unknown log level name.
var ErrNoLevel = errors.New("flagutil: unknown log level")

// CriticalLevel sits above slog.LevelError.
const CriticalLevel = slog.LevelError + 4

// LogLevel is a flag.Value holding one of DEBUG, INFO, WARN, WARNING, ERROR
// or CRITICAL.
type LogLevel struct {
	name  string
	level slog.Level
}

// NewLogLevel defines a log level flag on fs.
func NewLogLevel(fs *flag.FlagSet, name, value string) *LogLevel {
	l := &LogLevel{}
	if err := l.Set(value); err != nil {
		l.name, l.level = "INFO", slog.LevelInfo
	}
	fs.Var(l, name, "Level to set the root logger to: DEBUG, INFO, WARN, WARNING, ERROR or CRITICAL")
	return l
}

func (l *LogLevel) String() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Set implements flag.Value.
func (l *LogLevel) Set(s string) error {
	level, err := ParseLevel(s)
	if err != nil {
		return err
	}
	l.name, l.level = strings.ToUpper(s), level
	return nil
}

// Level returns the slog level.
func (l *LogLevel) Level() slog.Level {
	return l.level
}

// ParseLevel maps a level name onto slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return CriticalLevel, nil
	}
	return 0, fmt.Errorf("%w %q", ErrNoLevel, s)
}
