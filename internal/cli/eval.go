package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snclab/snc2fst/internal/docio"
	"github.com/snclab/snc2fst/internal/evaluator"
	"github.com/snclab/snc2fst/internal/machine"
	"github.com/snclab/snc2fst/internal/rule"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	RuleID       string
	Output       string
	IncludeInput bool
	Compare      bool
	Strict       bool
	DumpVP       bool
	MaxArcs      int
	Direction    string
	OutputFormat string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <rules-file> <alphabet-file> <input-file>",
		Short: "Evaluate rules against an input word list",
		Long: `Apply rules to input words with the reference evaluator.

Rules apply in document order; each rule's output feeds the next rule.
With --compare, every rule is also compiled and the reference trace is
asserted against the machine arc-by-arc.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RuleID, "rule-id", "", "rule id to evaluate (default: all rules in order)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (defaults to <doc-id>.out.<format> beside the rules file)")
	cmd.Flags().BoolVar(&opts.IncludeInput, "include-input", false, "include per-rule input and output in result rows")
	cmd.Flags().BoolVar(&opts.Compare, "compare", false, "cross-check the reference against the compiled machine")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "require output bundles to resolve to a unique symbol")
	cmd.Flags().BoolVar(&opts.DumpVP, "dump-vp", false, "print V and P feature sets per rule")
	cmd.Flags().IntVar(&opts.MaxArcs, "max-arcs", machine.DefaultMaxArcs, "arc budget when compiling under --compare")
	cmd.Flags().StringVar(&opts.Direction, "direction", "", "override every rule's direction (LEFT|RIGHT)")
	cmd.Flags().StringVar(&opts.OutputFormat, "output-format", docio.FormatJSON, "result format (json|txt|csv|tsv)")

	return cmd
}

func runEval(opts *EvalOptions, rulesPath, alphabetPath, inputPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if !docio.ValidFormat(opts.OutputFormat) {
		return NewExitError(ExitFailure, fmt.Sprintf("--output-format must be one of: json, txt, csv, tsv (got %q)", opts.OutputFormat))
	}
	override := rule.Direction(strings.ToUpper(opts.Direction))
	if opts.Direction != "" && !override.Valid() {
		return NewExitError(ExitFailure, fmt.Sprintf("--direction must be LEFT or RIGHT (got %q)", opts.Direction))
	}

	doc, alphabet, err := loadDocuments(formatter, rulesPath, alphabetPath)
	if err != nil {
		return err
	}
	selected, err := selectRules(doc, opts.RuleID)
	if err != nil {
		return err
	}
	words, err := docio.LoadInputs(inputPath)
	if err != nil {
		return reportLoadError(formatter, "input", err)
	}

	cfg := evaluator.Config{
		Strict:            opts.Strict,
		IncludeInput:      opts.IncludeInput,
		DirectionOverride: override,
		Compare:           opts.Compare,
		DumpVP:            opts.DumpVP,
		Build:             machine.BuildConfig{MaxArcs: opts.MaxArcs},
	}
	result, err := evaluator.Run(doc, selected, alphabet, words, cfg)
	if err != nil {
		return reportEvalError(formatter, err)
	}

	if opts.DumpVP {
		for _, vp := range result.VP {
			fmt.Fprintf(formatter.Writer, "%s V: %s\n", vp.RuleID, strings.Join(vp.V, ", "))
			fmt.Fprintf(formatter.Writer, "%s P: %s\n", vp.RuleID, strings.Join(vp.P, ", "))
		}
	}

	outPath := opts.Output
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(rulesPath), fmt.Sprintf("%s.out.%s", doc.ID, opts.OutputFormat))
	}
	if err := docio.WriteOutputFile(outPath, result, opts.OutputFormat); err != nil {
		return WrapExitError(ExitFailure, "writing output", err)
	}
	fmt.Fprintln(formatter.Writer, "OK")
	formatter.VerboseLog("wrote %s", outPath)
	return nil
}

func reportEvalError(formatter *OutputFormatter, err error) error {
	if evaluator.IsConsistencyError(err) {
		_ = formatter.Error("CONSISTENCY_MISMATCH", err.Error(), nil)
		return WrapExitError(ExitConsistency, "reference and compiled machine disagree", err)
	}
	if machine.IsBudgetError(err) {
		_ = formatter.Error("ARC_BUDGET_EXCEEDED", err.Error(), nil)
		return WrapExitError(ExitBudget, "arc budget exceeded", err)
	}
	_ = formatter.Error("EVAL_ERROR", err.Error(), nil)
	return WrapExitError(ExitFailure, "evaluation failed", err)
}
