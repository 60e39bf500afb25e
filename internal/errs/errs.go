// Package errs defines the error kinds the analytical core surfaces to its
// caller (spec §7). Each kind wraps an underlying cause with pkg/errors so
// stack context survives across stage boundaries; callers distinguish kinds
// with errors.As, not string matching.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a core error for recovery-policy purposes.
type Kind int

const (
	// KindParse is an AST-adapter failure for a single file. Recovered
	// locally: the file is skipped and analysis continues.
	KindParse Kind = iota
	// KindIO is a source or cache read/write failure.
	KindIO
	// KindConfig is an invalid threshold or configuration value. Fatal at
	// pipeline start.
	KindConfig
	// KindValidation is a feature value out of its declared range or NaN.
	KindValidation
	// KindInternal is a detector contract violation. Fatal for the
	// offending stage only.
	KindInternal
	// KindCacheVersion is an unrecognized cache schema version.
	KindCacheVersion
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindIO:
		return "IoError"
	case KindConfig:
		return "ConfigError"
	case KindValidation:
		return "ValidationError"
	case KindInternal:
		return "InternalError"
	case KindCacheVersion:
		return "CacheVersionMismatch"
	default:
		return "UnknownError"
	}
}

// CoreError is the concrete error type returned by core components.
type CoreError struct {
	Kind   Kind
	Path   string // file or cache path this error concerns, if any
	Detail string
	cause  error
}

func (e *CoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Detail, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *CoreError) Unwrap() error { return e.cause }

// Cause returns the wrapped cause for pkg/errors compatibility.
func (e *CoreError) Cause() error { return e.cause }

// New builds a CoreError with no specific file path.
func New(kind Kind, detail string) *CoreError {
	return &CoreError{Kind: kind, Detail: detail}
}

// Wrap builds a CoreError around an existing cause.
func Wrap(kind Kind, path, detail string, cause error) *CoreError {
	return &CoreError{Kind: kind, Path: path, Detail: detail, cause: errors.WithStack(cause)}
}

// ParseError is a convenience constructor matching spec §7's naming.
func ParseError(path, detail string, cause error) *CoreError {
	return Wrap(KindParse, path, detail, cause)
}

// IoError is a convenience constructor matching spec §7's naming.
func IoError(path, detail string, cause error) *CoreError {
	return Wrap(KindIO, path, detail, cause)
}

// ConfigError is a convenience constructor; always fatal at pipeline start.
func ConfigError(detail string) *CoreError {
	return New(KindConfig, detail)
}

// ValidationError is a convenience constructor for out-of-range feature values.
func ValidationError(detail string) *CoreError {
	return New(KindValidation, detail)
}

// InternalError is a convenience constructor for detector contract violations.
func InternalError(detail string) *CoreError {
	return New(KindInternal, detail)
}

// CacheVersionMismatch is a convenience constructor for unrecognized cache schemas.
func CacheVersionMismatch(path string, version int) *CoreError {
	return Wrap(KindCacheVersion, path, fmt.Sprintf("unrecognized cache version %d", version), nil)
}

// IsFatal reports whether an error kind halts the whole pipeline (only
// KindConfig does; KindInternal is fatal for its stage only, which the
// orchestrator handles by marking that stage's bundle slot unavailable).
func IsFatal(err error) bool {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Kind == KindConfig
	}
	return false
}

// Ledger accumulates recoverable errors for a run, collapsing repeats so
// at most one warning line per affected file per error kind is emitted,
// plus a final per-kind count (spec §7's "user-visible behavior").
type Ledger struct {
	seen   map[string]bool
	counts map[Kind]int
	first  map[Kind]*CoreError
}

// NewLedger creates an empty error ledger.
func NewLedger() *Ledger {
	return &Ledger{
		seen:   make(map[string]bool),
		counts: make(map[Kind]int),
		first:  make(map[Kind]*CoreError),
	}
}

// Record adds an error to the ledger. Returns true the first time a given
// (kind, path) pair is seen, so the caller knows whether to log it.
func (l *Ledger) Record(err *CoreError) bool {
	l.counts[err.Kind]++
	if _, ok := l.first[err.Kind]; !ok {
		l.first[err.Kind] = err
	}
	key := fmt.Sprintf("%d:%s", err.Kind, err.Path)
	if l.seen[key] {
		return false
	}
	l.seen[key] = true
	return true
}

// Counts returns the per-kind error counts accumulated so far.
func (l *Ledger) Counts() map[Kind]int {
	out := make(map[Kind]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

// Empty reports whether no errors have been recorded.
func (l *Ledger) Empty() bool {
	return len(l.counts) == 0
}
