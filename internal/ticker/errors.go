package ticker

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies every failure the fetch/cache path can produce.
type Kind int

const (
	TransportFailure Kind = iota + 1 // network-level failure talking to the API
	NotFound                         // non-success HTTP status for an asset id
	Decode                           // malformed JSON, empty array or corrupt cache payload
	IOFailure                        // cache file read/write failure
	ClockAnomaly                     // cache file modified in the future
)

func (k Kind) String() string {
	switch k {
	case TransportFailure:
		return "transport failure"
	case NotFound:
		return "not found"
	case Decode:
		return "decode"
	case IOFailure:
		return "io failure"
	case ClockAnomaly:
		return "clock anomaly"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrTransport    = &Error{Kind: TransportFailure}
	ErrNotFound     = &Error{Kind: NotFound}
	ErrDecode       = &Error{Kind: Decode}
	ErrIO           = &Error{Kind: IOFailure}
	ErrClockAnomaly = &Error{Kind: ClockAnomaly}
)

// ErrMissing marks a cache read against a file that does not exist.
// It is always wrapped in an IOFailure.
var ErrMissing = errors.New("cache entry missing")

// Error carries the failure kind plus the asset and cache path involved, if any.
type Error struct {
	Kind  Kind
	Asset string
	Path  string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Asset != "" {
		msg += fmt.Sprintf(" for %q", e.Asset)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func NewTransportError(asset string, err error) error {
	return &Error{Kind: TransportFailure, Asset: asset, Err: err}
}

func NewNotFoundError(asset string, status int) error {
	return &Error{Kind: NotFound, Asset: asset, Err: fmt.Errorf("ticker id not valid (http status %d)", status)}
}

func NewDecodeError(asset, path string, err error) error {
	return &Error{Kind: Decode, Asset: asset, Path: path, Err: err}
}

func NewIOError(asset, path string, err error) error {
	return &Error{Kind: IOFailure, Asset: asset, Path: path, Err: err}
}

func NewClockAnomalyError(path string, skew time.Duration) error {
	return &Error{Kind: ClockAnomaly, Path: path, Err: fmt.Errorf("modified %s in the future", skew)}
}
