// Package logging configures the process-wide logger: standard log flags,
// the five-level --log filter, and colored warn/error lines via
// fatih/color.
package logging

import (
	"io"
	"log"

	"github.com/fatih/color"
)

// Level is one of the --log flag's values.
type Level int

const (
	Verbose Level = iota
	Debug
	Info
	Warn
	Error
)

func ParseLevel(s string) (Level, bool) {
	switch s {
	case "verbose":
		return Verbose, true
	case "debug":
		return Debug, true
	case "info":
		return Info, true
	case "warn":
		return Warn, true
	case "error":
		return Error, true
	default:
		return Info, false
	}
}

var current = Info

// Init sets process-wide log flags and the minimum level; debug builds
// get file:line prefixes.
func Init(level Level) {
	current = level
	flags := log.LstdFlags
	if level <= Debug {
		flags |= log.Lshortfile
	}
	log.SetFlags(flags)
}

// SetOutput redirects the logger, e.g. to a log file.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func enabled(l Level) bool { return l >= current }

func Debugf(format string, args ...any) {
	if enabled(Debug) {
		log.Printf("[debug] "+format, args...)
	}
}

func Infof(format string, args ...any) {
	if enabled(Info) {
		log.Printf("[info] "+format, args...)
	}
}

// Warnf logs a recoverable condition (e.g. a missing optional platform
// API) in color.
func Warnf(format string, args ...any) {
	if enabled(Warn) {
		log.Print(color.YellowString("[warn] "+format, args...))
	}
}

func Errorf(format string, args ...any) {
	if enabled(Error) {
		log.Print(color.RedString("[error] "+format, args...))
	}
}

// Fatalf logs in red and is followed by the caller invoking fatal exit
// handling; it never calls os.Exit itself (only cmd/agent does, after
// running scoped-setting restorers).
func Fatalf(format string, args ...any) {
	log.Print(color.New(color.FgRed, color.Bold).Sprintf("[fatal] "+format, args...))
}
