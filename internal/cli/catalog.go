package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snclab/snc2fst/internal/catalog"
)

// CatalogOptions holds flags for the catalog subcommands.
type CatalogOptions struct {
	*RootOptions
	DBPath string
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the compile catalog",
	}
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "snc2fst.db", "catalog database path")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List recorded compile runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(opts, cmd)
		},
	}

	show := &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one compile run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogShow(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func runCatalogList(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cat, err := catalog.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitFailure, "opening catalog", err)
	}
	defer cat.Close()

	entries, err := cat.List(context.Background())
	if err != nil {
		return WrapExitError(ExitFailure, "listing catalog", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "catalog is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%s  %s/%s  states=%d arcs=%d  %s\n",
			e.RunID, e.DocID, e.RuleID, e.States, e.Arcs, e.CreatedAt)
	}
	return nil
}

func runCatalogShow(opts *CatalogOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cat, err := catalog.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitFailure, "opening catalog", err)
	}
	defer cat.Close()

	entry, err := cat.Get(context.Background(), runID)
	if err != nil {
		return WrapExitError(ExitFailure, "reading catalog", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(entry)
	}
	fmt.Fprintf(formatter.Writer, "run:    %s\n", entry.RunID)
	fmt.Fprintf(formatter.Writer, "doc:    %s\n", entry.DocID)
	fmt.Fprintf(formatter.Writer, "rule:   %s\n", entry.RuleID)
	fmt.Fprintf(formatter.Writer, "sizes:  |V|=%d |P|=%d\n", entry.VSize, entry.PSize)
	fmt.Fprintf(formatter.Writer, "fst:    states=%d arcs=%d\n", entry.States, entry.Arcs)
	fmt.Fprintf(formatter.Writer, "att:    %s\n", entry.ATTPath)
	fmt.Fprintf(formatter.Writer, "sym:    %s\n", entry.SymtabPath)
	fmt.Fprintf(formatter.Writer, "at:     %s\n", entry.CreatedAt)
	return nil
}
