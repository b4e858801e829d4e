package cli

import (
	"errors"
	"fmt"

	"github.com/snclab/snc2fst/internal/docio"
	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/rule"
)

// loadDocuments loads a rules document and alphabet, then validates the
// rules against the alphabet's feature universe. Every collected validation
// error is printed before the command exits with a failure code.
func loadDocuments(formatter *OutputFormatter, rulesPath, alphabetPath string) (*rule.Document, *feature.Alphabet, error) {
	alphabet, err := docio.LoadAlphabet(alphabetPath)
	if err != nil {
		return nil, nil, reportLoadError(formatter, "alphabet", err)
	}
	doc, err := docio.LoadRules(rulesPath)
	if err != nil {
		return nil, nil, reportLoadError(formatter, "rules", err)
	}
	if errs := rule.ValidateDocument(doc, alphabet.FeatureSet()); len(errs) > 0 {
		return nil, nil, reportValidationErrors(formatter, errs)
	}
	return doc, alphabet, nil
}

func reportLoadError(formatter *OutputFormatter, what string, err error) error {
	var schemaErr *rule.SchemaError
	if errors.As(err, &schemaErr) {
		return reportValidationErrors(formatter, schemaErr.Errors)
	}
	var alphaErr *feature.SchemaError
	if errors.As(err, &alphaErr) {
		if formatter.Format == "json" {
			_ = formatter.Error("SCHEMA_ERROR", alphaErr.Error(), alphaErr.Errors)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ Invalid %s document\n\n", what)
			for _, e := range alphaErr.Errors {
				fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
			}
		}
		return WrapExitError(ExitFailure, fmt.Sprintf("invalid %s document", what), err)
	}
	_ = formatter.Error("SCHEMA_ERROR", err.Error(), nil)
	return WrapExitError(ExitFailure, fmt.Sprintf("loading %s", what), err)
}

func reportValidationErrors(formatter *OutputFormatter, errs []rule.ValidationError) error {
	if formatter.Format == "json" {
		_ = formatter.Error("SCHEMA_ERROR", fmt.Sprintf("%d validation error(s)", len(errs)), errs)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		fmt.Fprintln(formatter.Writer)
		for _, e := range errs {
			fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// selectRules picks one rule by id, or every rule when id is empty.
func selectRules(doc *rule.Document, ruleID string) ([]rule.Rule, error) {
	if ruleID == "" {
		return doc.Rules, nil
	}
	if r, ok := doc.Find(ruleID); ok {
		return []rule.Rule{r}, nil
	}
	return nil, NewExitError(ExitFailure, fmt.Sprintf("unknown rule id %q", ruleID))
}
