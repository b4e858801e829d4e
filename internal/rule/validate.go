package rule

import (
	"fmt"
	"strings"

	"github.com/snclab/snc2fst/internal/outdsl"
)

// Rule validation error codes (E101-E119).
const (
	ErrDocIDEmpty      = "E101" // document id is blank
	ErrRuleIDEmpty     = "E102" // rule id is blank
	ErrDuplicateRuleID = "E103" // rule id repeated in the document
	ErrInvalidDir      = "E104" // dir is not LEFT or RIGHT
	ErrClassFeature    = "E105" // class literal has a blank or unknown feature
	ErrOutEmpty        = "E106" // out expression is blank
	ErrOutInvalid      = "E107" // out expression failed to parse or evaluate
)

// ValidationError is one schema-level defect in a rules document.
type ValidationError struct {
	RuleID  string `json:"rule_id,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("[%s] rule %s: %s: %s", e.Code, e.RuleID, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// SchemaError wraps the collected validation errors for a document.
type SchemaError struct {
	Errors []ValidationError
}

func (e *SchemaError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", e.Errors[0].Error(), len(e.Errors)-1)
}

// ValidateDocument checks document shape and, when features is non-nil,
// checks every class feature and Out expression against the universe.
// All errors are collected; a nil return means the document is valid.
func ValidateDocument(doc *Document, features map[string]bool) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(doc.ID) == "" {
		errs = append(errs, ValidationError{
			Field: "id", Message: "document id cannot be empty", Code: ErrDocIDEmpty,
		})
	}
	seen := make(map[string]bool, len(doc.Rules))
	for i, r := range doc.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		if strings.TrimSpace(r.ID) == "" {
			errs = append(errs, ValidationError{
				Field: field + ".id", Message: "rule id cannot be empty", Code: ErrRuleIDEmpty,
			})
		} else if seen[r.ID] {
			errs = append(errs, ValidationError{
				RuleID: r.ID, Field: field + ".id",
				Message: fmt.Sprintf("duplicate rule id %q", r.ID), Code: ErrDuplicateRuleID,
			})
		}
		seen[r.ID] = true
		errs = append(errs, validateRule(r, field, features)...)
	}
	return errs
}

func validateRule(r Rule, field string, features map[string]bool) []ValidationError {
	var errs []ValidationError
	if !r.Dir.Valid() {
		errs = append(errs, ValidationError{
			RuleID: r.ID, Field: field + ".dir",
			Message: fmt.Sprintf("dir must be LEFT or RIGHT, got %q", string(r.Dir)),
			Code:    ErrInvalidDir,
		})
	}
	for _, part := range []struct {
		name  string
		class Class
	}{{"inr", r.INR}, {"trm", r.TRM}, {"cnd", r.CND}} {
		for j, lit := range part.class {
			litField := fmt.Sprintf("%s.%s[%d]", field, part.name, j)
			if strings.TrimSpace(lit.Feature) == "" {
				errs = append(errs, ValidationError{
					RuleID: r.ID, Field: litField,
					Message: "class literal has an empty feature name", Code: ErrClassFeature,
				})
				continue
			}
			if features != nil && !features[lit.Feature] {
				errs = append(errs, ValidationError{
					RuleID: r.ID, Field: litField,
					Message: fmt.Sprintf("unknown feature %q", lit.Feature), Code: ErrClassFeature,
				})
			}
		}
	}
	if strings.TrimSpace(r.Out) == "" {
		errs = append(errs, ValidationError{
			RuleID: r.ID, Field: field + ".out",
			Message: "out expression cannot be empty", Code: ErrOutEmpty,
		})
		return errs
	}
	if r.OutAST == nil {
		errs = append(errs, ValidationError{
			RuleID: r.ID, Field: field + ".out",
			Message: "out expression was not parsed", Code: ErrOutInvalid,
		})
		return errs
	}
	if features != nil {
		// Probe evaluation with the class bundles catches unknown features
		// anywhere in the expression, not only on paths some input exercises.
		env := outdsl.Env{INR: r.INR.Bundle(), TRM: r.TRM.Bundle(), Features: features}
		if _, err := outdsl.Eval(r.OutAST, env); err != nil {
			errs = append(errs, ValidationError{
				RuleID: r.ID, Field: field + ".out",
				Message: err.Error(), Code: ErrOutInvalid,
			})
		}
	}
	return errs
}
