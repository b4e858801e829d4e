package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snclab/snc2fst/internal/analysis"
	"github.com/snclab/snc2fst/internal/catalog"
	"github.com/snclab/snc2fst/internal/machine"
	"github.com/snclab/snc2fst/internal/rule"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	RuleID      string
	Symtab      string
	MaxArcs     int
	Progress    bool
	CatalogPath string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <rules-file> <alphabet-file> <output>",
		Short: "Compile rules into AT&T transducers",
		Long: `Compile Search & Change rules into AT&T text transducers.

A single rule compiles to the given output file; a whole document compiles
into the output directory, one .att/.sym pair per rule. The compiled machine
is canonical LEFT; RIGHT rules are handled by reversing input and output
around the machine at evaluation time.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RuleID, "rule-id", "", "rule id to compile (default: all rules, into the output directory)")
	cmd.Flags().StringVar(&opts.Symtab, "symtab", "", "symbol table path (defaults next to output)")
	cmd.Flags().IntVar(&opts.MaxArcs, "max-arcs", machine.DefaultMaxArcs, "maximum allowed arcs before aborting")
	cmd.Flags().BoolVarP(&opts.Progress, "progress", "p", false, "report progress during compilation")
	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", "", "record compiled artifacts in this catalog database")

	return cmd
}

func runCompile(opts *CompileOptions, rulesPath, alphabetPath, output string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	doc, alphabet, err := loadDocuments(formatter, rulesPath, alphabetPath)
	if err != nil {
		return err
	}
	selected, err := selectRules(doc, opts.RuleID)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return NewExitError(ExitFailure, "rules document contains no rules")
	}

	outputDir := ""
	if len(selected) > 1 {
		if filepath.Ext(output) != "" {
			return NewExitError(ExitFailure, "when compiling multiple rules, output must be a directory")
		}
		if opts.Symtab != "" {
			return NewExitError(ExitFailure, "--symtab is only valid when compiling a single rule")
		}
		if err := os.MkdirAll(output, 0o755); err != nil {
			return WrapExitError(ExitFailure, "creating output directory", err)
		}
		outputDir = output
	} else if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
		return NewExitError(ExitFailure, "when compiling a single rule, output must be a file path")
	}

	var cat *catalog.Catalog
	if opts.CatalogPath != "" {
		cat, err = catalog.Open(opts.CatalogPath)
		if err != nil {
			return WrapExitError(ExitFailure, "opening catalog", err)
		}
		defer cat.Close()
	}

	universe := alphabet.Features()
	for idx, r := range selected {
		prefix := r.ID
		if len(selected) > 1 {
			prefix = fmt.Sprintf("[%d/%d] %s", idx+1, len(selected), r.ID)
		}

		an := analysis.Analyze(r, universe)
		cfg := machine.BuildConfig{MaxArcs: opts.MaxArcs}
		if opts.Progress {
			cfg.Progress = func(done, total int) {
				fmt.Fprintf(formatter.ErrWriter, "\r%s arcs %d/%d", prefix, done, total)
				if done == total {
					fmt.Fprintln(formatter.ErrWriter)
				}
			}
		}
		m, err := machine.Compile(r, an, cfg)
		if err != nil {
			return reportCompileError(formatter, r, err)
		}

		attPath := output
		if outputDir != "" {
			attPath = filepath.Join(outputDir, r.ID+".att")
		}
		symPath := opts.Symtab
		if symPath == "" || outputDir != "" {
			symPath = strings.TrimSuffix(attPath, filepath.Ext(attPath)) + ".sym"
		}
		if err := machine.WriteFiles(m, attPath, symPath); err != nil {
			return WrapExitError(ExitFailure, "writing output", err)
		}

		if cat != nil {
			entry, err := cat.Record(context.Background(), catalog.Entry{
				DocID:      doc.ID,
				RuleID:     r.ID,
				VSize:      len(an.VOrder),
				PSize:      len(an.POrder),
				States:     m.States,
				Arcs:       len(m.Arcs),
				ATTPath:    attPath,
				SymtabPath: symPath,
			})
			if err != nil {
				return WrapExitError(ExitFailure, "recording catalog entry", err)
			}
			formatter.VerboseLog("catalog run %s recorded", entry.RunID)
		}

		fmt.Fprintf(formatter.Writer, "%s | states=%d arcs=%d | att=%s sym=%s\n",
			prefix, m.States, len(m.Arcs), attPath, symPath)
	}
	return nil
}

func reportCompileError(formatter *OutputFormatter, r rule.Rule, err error) error {
	if machine.IsBudgetError(err) {
		_ = formatter.Error("ARC_BUDGET_EXCEEDED", err.Error(), nil)
		return WrapExitError(ExitBudget, fmt.Sprintf("rule %s exceeds the arc budget", r.ID), err)
	}
	_ = formatter.Error("COMPILE_ERROR", err.Error(), nil)
	return WrapExitError(ExitFailure, fmt.Sprintf("compiling rule %s", r.ID), err)
}
