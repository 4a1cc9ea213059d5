package analyzer

import (
	"errors"
	"fmt"

	"github.com/NivBraz/textanalyzer/internal/models"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// KindTransport covers network and serialization failures.
	KindTransport Kind = iota + 1
	// KindStatus is an HTTP status outside the 2xx range.
	KindStatus
	// KindEmptyBody is a 2xx response whose body is empty, null or unparseable.
	KindEmptyBody
)

var (
	ErrTransport = errors.New("transport failure")
	ErrStatus    = errors.New("non-successful response")
	ErrEmptyBody = errors.New("null response body")
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindEmptyBody:
		return "empty-body"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindStatus:
		return ErrStatus
	case KindEmptyBody:
		return ErrEmptyBody
	default:
		return nil
	}
}

// Error is returned by every failed operation. Use errors.Is with the
// Err* sentinels or errors.As to inspect the status code.
type Error struct {
	Op         models.Operation
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: non-successful response: %d", e.Op, e.StatusCode)
	case KindEmptyBody:
		if e.Err != nil {
			return fmt.Sprintf("%s: null response body: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("%s: null response body", e.Op)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
