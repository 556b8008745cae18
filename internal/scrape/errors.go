package scrape

import (
	"errors"
	"fmt"
)

// Kind classifies a source failure for the run report.
type Kind string

const (
	KindTransport Kind = "transport" // network, DNS, non-2xx status
	KindFormat    Kind = "format"    // missing keys, no matching selector, bad numbers
	KindTimeout   Kind = "timeout"   // browser wait exceeded
	KindInternal  Kind = "internal"  // panic or unclassified error
)

// Error wraps a source failure with its kind. Use errors.Is/As through it.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func Transportf(format string, args ...any) error {
	return &Error{Kind: KindTransport, Err: fmt.Errorf(format, args...)}
}

func Formatf(format string, args ...any) error {
	return &Error{Kind: KindFormat, Err: fmt.Errorf(format, args...)}
}

func Timeoutf(format string, args ...any) error {
	return &Error{Kind: KindTimeout, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind; anything unclassified is internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
