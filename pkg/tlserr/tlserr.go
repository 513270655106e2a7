// Package tlserr maps native engine status codes to a uniform error
// representation.
//
// Two categories exist so callers can discriminate credential and crypto
// configuration failures from protocol-level stream failures, even though
// both use the same status-code formatting. Categories are stateless and
// safe for concurrent use from any number of goroutines.
package tlserr

import (
	"errors"
	"fmt"

	"github.com/polisai/tlscred/pkg/engine"
)

// Category tags one class of engine errors. The two instances below are the
// only ones; compare by identity.
type Category struct {
	name string
}

var (
	// Credential covers configuration and crypto failures reported while
	// installing material into a credentials handle.
	Credential = &Category{name: "tls-credential"}

	// Stream covers protocol failures reported by an in-progress
	// connection.
	Stream = &Category{name: "tls-stream"}
)

// Name returns the category's stable tag.
func (c *Category) Name() string { return c.name }

// Message formats a status code using the engine's string facility, falling
// back to a generic message if the engine has nothing to say.
func (c *Category) Message(code engine.Status) string {
	if s := engine.Strerror(code); s != "" {
		return s
	}
	return "TLS engine error"
}

// ErrOperationNotSupported is the configuration-sequencing error: an
// operation was issued before one it depends on, such as installing a
// private key with no certificate stored. The caller may reorder and retry.
var ErrOperationNotSupported = errors.New("operation not supported")

// Error carries a native status code, its category, and the underlying
// cause, if the engine surfaced one.
type Error struct {
	Code     engine.Status
	Category *Category
	Cause    error
}

// New wraps an engine status code in a categorized error.
func New(cat *Category, code engine.Status, cause error) *Error {
	return &Error{Code: code, Category: cat, Cause: cause}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Category.Name(), e.Category.Message(e.Code))
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error with the same code and category, so callers can
// compare against sentinel values with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Category == t.Category
}

// IsSequencing reports whether err is the configuration-sequencing error.
func IsSequencing(err error) bool {
	return errors.Is(err, ErrOperationNotSupported)
}

// IsEngine reports whether err is a categorized engine rejection, and if so
// returns its status code.
func IsEngine(err error) (engine.Status, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return engine.StatusSuccess, false
}
