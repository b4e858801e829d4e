package evaluator

import (
	"errors"
	"fmt"
)

// RunErrorCode categorizes runtime evaluation errors.
type RunErrorCode string

const (
	// CodeUnknownSymbol means a word used a symbol absent from the alphabet.
	CodeUnknownSymbol RunErrorCode = "UNKNOWN_SYMBOL"

	// CodeResolution means an output bundle could not resolve to a symbol.
	CodeResolution RunErrorCode = "SYMBOL_RESOLUTION"

	// CodeConsistency means the reference and the compiled machine diverged.
	CodeConsistency RunErrorCode = "CONSISTENCY_MISMATCH"
)

// RunError is a runtime evaluation failure. It names the offending rule,
// word, and position so a bad input in a large batch is findable.
type RunError struct {
	Code     RunErrorCode
	RuleID   string
	Word     int
	Position int
	Symbol   string
	Message  string
}

func (e *RunError) Error() string {
	loc := fmt.Sprintf("word %d position %d", e.Word, e.Position)
	if e.RuleID != "" {
		loc = "rule " + e.RuleID + " " + loc
	}
	if e.Symbol != "" {
		return fmt.Sprintf("%s: %s: %s (%s)", e.Code, loc, e.Message, e.Symbol)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, loc, e.Message)
}

// IsConsistencyError reports whether err is a reference/compiled mismatch.
func IsConsistencyError(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == CodeConsistency
	}
	return false
}
