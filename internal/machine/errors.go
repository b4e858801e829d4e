package machine

import (
	"errors"
	"fmt"
)

// BudgetError means the projected arc count exceeds the configured budget.
// It is raised before any arc is emitted; no partial output exists.
type BudgetError struct {
	RuleID    string
	Projected int
	Max       int
	VSize     int
	PSize     int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("ARC_BUDGET_EXCEEDED: rule %s projects %d arcs > max %d (|V|=%d, |P|=%d)",
		e.RuleID, e.Projected, e.Max, e.VSize, e.PSize)
}

// IsBudgetError reports whether err is (or wraps) an arc-budget failure.
func IsBudgetError(err error) bool {
	var be *BudgetError
	return errors.As(err, &be)
}

// InvariantError is a post-construction check failure: the built machine
// violates totality, determinism, or canonical arc order.
type InvariantError struct {
	RuleID  string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("INTERNAL_INVARIANT: rule %s: %s", e.RuleID, e.Message)
}
