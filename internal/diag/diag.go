// Package diag is a minimal leveled logger wrapping the standard library's
// log.Logger, carrying forward the `debug!`/`error!` call sites the Rust
// original threads through monomorphization (src/lir/expr/procedure/poly.rs)
// even though the distilled spec.md never names a logging concern. No
// third-party logging library appears anywhere in the teacher's or pack's
// go.mod, so this ambient concern is the one part of the stack legitimately
// built on the standard library (see DESIGN.md).
package diag

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Level mirrors the two severities the original's log macros use at its
// monomorphization call sites: debug (traced but non-fatal) and error
// (surfaced alongside the returned error value).
type Level int

const (
	LevelDebug Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "ERROR"
	}
	return "DEBUG"
}

// Logger is a target-scoped wrapper around *log.Logger, matching the
// original's `debug!(target: "mono", ...)` convention: every line is
// prefixed with the target name so monomorphization traces are
// greppable apart from everything else a caller logs.
type Logger struct {
	target string
	out    *log.Logger
	min    atomic.Int32
}

// New builds a Logger that writes to w, tagged with target. Pass
// io.Discard to silence a Logger entirely without branching at call
// sites (the default used by package-level Mono when LIR_DEBUG isn't set).
func New(target string, w io.Writer) *Logger {
	l := &Logger{target: target, out: log.New(w, "", log.LstdFlags)}
	l.min.Store(int32(LevelDebug))
	return l
}

// SetMinLevel suppresses messages below lvl (e.g. silence Debug but keep
// Error).
func (l *Logger) SetMinLevel(lvl Level) { l.min.Store(int32(lvl)) }

func (l *Logger) log(lvl Level, format string, args ...any) {
	if int32(lvl) < l.min.Load() {
		return
	}
	l.out.Printf("[%s] [%s] %s", lvl, l.target, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

// Mono is the package-level logger for the monomorphization target,
// mirroring the original's `debug!(target: "mono", ...)` call sites in
// PolyProcedure.Monomorphize and TypeCheck. It writes to stderr only when
// LIR_DEBUG is set in the environment, so a normal build or test run stays
// silent.
var Mono = FromEnv("mono")

// FromEnv builds a Logger for target that writes to stderr only when
// LIR_DEBUG is set, matching the original's convention of gating every
// `debug!`/`trace!`/`warn!` target behind one verbosity switch rather than
// a target-by-target one.
func FromEnv(target string) *Logger {
	if os.Getenv("LIR_DEBUG") == "" {
		return New(target, io.Discard)
	}
	return New(target, os.Stderr)
}
