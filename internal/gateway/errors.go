package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

// Failure kinds.
const (
	KindNetwork Kind = iota + 1
	KindStatus
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNetwork = errors.New("network failure")
	ErrStatus  = errors.New("unexpected http status")
	ErrDecode  = errors.New("malformed response")
)

// Error is returned by every failed gateway call.
type Error struct {
	Method     string
	Endpoint   string
	Kind       Kind
	StatusCode int
	// Message is the server's {"error": "..."} text, if any.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s %s: http %d", e.Method, e.Endpoint, e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Endpoint, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s %s: %s failure", e.Method, e.Endpoint, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrStatus:
		return e.Kind == KindStatus
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}
