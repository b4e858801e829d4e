package outdsl

import (
	"errors"
	"fmt"
)

// Error is a syntactic or semantic failure in an Out expression. Parse
// failures carry a byte offset into the source text; evaluation failures
// carry the rendering of the offending sub-expression.
type Error struct {
	Message string
	Offset  int    // byte offset for parse errors, -1 otherwise
	Expr    string // offending sub-expression for evaluation errors
}

func (e *Error) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("out dsl: %s in %s", e.Message, e.Expr)
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("out dsl: %s at offset %d", e.Message, e.Offset)
	}
	return "out dsl: " + e.Message
}

// IsDslError reports whether err is (or wraps) an Out DSL error.
func IsDslError(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

func parseErr(off int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Offset: off}
}

func evalErr(at Expr, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Offset: -1, Expr: at.String()}
}
