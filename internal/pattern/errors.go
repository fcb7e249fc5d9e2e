package pattern

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern is matched by every compile failure.
var ErrInvalidPattern = errors.New("invalid pattern")

// CompileError reports a malformed pattern line and where it came from.
type CompileError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *CompileError) Error() string {
	switch {
	case e.Source != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: invalid pattern %q: %s", e.Source, e.Line, e.Text, e.Reason)
	case e.Source != "":
		return fmt.Sprintf("%s: invalid pattern %q: %s", e.Source, e.Text, e.Reason)
	default:
		return fmt.Sprintf("invalid pattern %q: %s", e.Text, e.Reason)
	}
}

// Unwrap lets errors.Is(err, ErrInvalidPattern) succeed.
func (e *CompileError) Unwrap() error {
	return ErrInvalidPattern
}
