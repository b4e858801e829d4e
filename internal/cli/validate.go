package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snclab/snc2fst/internal/analysis"
	"github.com/snclab/snc2fst/internal/docio"
	"github.com/snclab/snc2fst/internal/machine"
)

// ValidateOptions holds flags for the validate subcommands.
type ValidateOptions struct {
	*RootOptions
	Quiet     bool
	DumpVP    bool
	FstStats  bool
	Delimiter string
}

// NewValidateCommand creates the validate command group.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate rules, alphabet, or input documents",
	}

	rules := &cobra.Command{
		Use:           "rules <rules-file> <alphabet-file>",
		Short:         "Validate a rules document against an alphabet",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateRules(opts, args[0], args[1], cmd)
		},
	}
	rules.Flags().BoolVar(&opts.DumpVP, "dump-vp", false, "print V and P feature sets per rule")
	rules.Flags().BoolVar(&opts.FstStats, "fst-stats", false, "print projected states/arcs per rule")
	rules.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress success output")

	alphabet := &cobra.Command{
		Use:           "alphabet <alphabet-file>",
		Short:         "Validate an alphabet feature table",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateAlphabet(opts, args[0], cmd)
		},
	}
	alphabet.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", "", "delimiter override (default: detect)")
	alphabet.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress success output")

	input := &cobra.Command{
		Use:           "input <input-file> <alphabet-file>",
		Short:         "Validate an input word list",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateInput(opts, args[0], args[1], cmd)
		},
	}
	input.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress success output")

	cmd.AddCommand(rules, alphabet, input)
	return cmd
}

func runValidateRules(opts *ValidateOptions, rulesPath, alphabetPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	doc, alphabet, err := loadDocuments(formatter, rulesPath, alphabetPath)
	if err != nil {
		return err
	}
	if opts.DumpVP || opts.FstStats {
		universe := alphabet.Features()
		for _, r := range doc.Rules {
			an := analysis.Analyze(r, universe)
			if opts.DumpVP {
				fmt.Fprintf(formatter.Writer, "%s V: %s\n", r.ID, strings.Join(an.VOrder, ", "))
				fmt.Fprintf(formatter.Writer, "%s P: %s\n", r.ID, strings.Join(an.POrder, ", "))
			}
			if opts.FstStats {
				states := 1 + machine.SigmaSize(len(an.POrder))
				arcs := machine.ProjectedArcs(len(an.VOrder), len(an.POrder))
				fmt.Fprintf(formatter.Writer, "%s states: %d arcs: %d\n", r.ID, states, arcs)
			}
		}
	}
	if !opts.Quiet {
		fmt.Fprintln(formatter.Writer, "OK")
	}
	return nil
}

func runValidateAlphabet(opts *ValidateOptions, alphabetPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	var delim rune
	if opts.Delimiter != "" {
		delim = []rune(opts.Delimiter)[0]
	}
	if _, err := docio.LoadAlphabetDelimiter(alphabetPath, delim); err != nil {
		return reportLoadError(formatter, "alphabet", err)
	}
	if !opts.Quiet {
		fmt.Fprintln(formatter.Writer, "OK")
	}
	return nil
}

func runValidateInput(opts *ValidateOptions, inputPath, alphabetPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	alphabet, err := docio.LoadAlphabet(alphabetPath)
	if err != nil {
		return reportLoadError(formatter, "alphabet", err)
	}
	words, err := docio.LoadInputs(inputPath)
	if err != nil {
		return reportLoadError(formatter, "input", err)
	}
	for i, word := range words {
		for _, sym := range word {
			if _, ok := alphabet.Bundle(sym); !ok {
				_ = formatter.Error("UNKNOWN_SYMBOL",
					fmt.Sprintf("word %d has unknown symbol %q", i, sym), nil)
				return NewExitError(ExitFailure, fmt.Sprintf("word %d has unknown symbol %q", i, sym))
			}
		}
	}
	if !opts.Quiet {
		fmt.Fprintln(formatter.Writer, "OK")
	}
	return nil
}
