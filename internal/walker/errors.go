package walker

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per error kind. Test with errors.Is.
var (
	ErrConfig         = errors.New("invalid walk configuration")
	ErrPatternCompile = errors.New("pattern compile error")
	ErrIO             = errors.New("i/o error")
	ErrPredicate      = errors.New("filter predicate failed")
)

// Kind classifies walk errors.
type Kind uint8

const (
	KindConfig Kind = iota + 1
	KindPatternCompile
	KindIO
	KindPredicate
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindPatternCompile:
		return "pattern"
	case KindIO:
		return "io"
	case KindPredicate:
		return "predicate"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfig:
		return ErrConfig
	case KindPatternCompile:
		return ErrPatternCompile
	case KindIO:
		return ErrIO
	case KindPredicate:
		return ErrPredicate
	default:
		return nil
	}
}

// Error is the error type returned by the walker.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := "walk error"
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
