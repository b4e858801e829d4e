package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Force bool
}

// NewInitCommand creates the init command: a sample-project generator with a
// 3-feature, 27-symbol alphabet, a one-rule rules file, and example inputs.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "init [output-dir]",
		Short:         "Generate sample alphabet, rules, and input files",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(opts, dir, cmd)
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite existing sample files")
	return cmd
}

func runInit(opts *InitOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WrapExitError(ExitFailure, "creating output directory", err)
	}

	alphabetPath := filepath.Join(dir, "alphabet.csv")
	rulesPath := filepath.Join(dir, "rules.toml")
	inputPath := filepath.Join(dir, "input.toml")

	if !opts.Force {
		var existing []string
		for _, path := range []string{alphabetPath, rulesPath, inputPath} {
			if _, err := os.Stat(path); err == nil {
				existing = append(existing, filepath.Base(path))
			}
		}
		if len(existing) > 0 {
			return NewExitError(ExitFailure, "sample files already exist: "+strings.Join(existing, ", "))
		}
	}

	if err := os.WriteFile(alphabetPath, []byte(sampleAlphabet()), 0o644); err != nil {
		return WrapExitError(ExitFailure, "writing alphabet", err)
	}
	if err := os.WriteFile(rulesPath, []byte(sampleRules), 0o644); err != nil {
		return WrapExitError(ExitFailure, "writing rules", err)
	}
	if err := os.WriteFile(inputPath, []byte(sampleInput), 0o644); err != nil {
		return WrapExitError(ExitFailure, "writing input", err)
	}

	fmt.Fprintln(formatter.Writer, "OK")
	fmt.Fprintf(formatter.Writer, "alphabet: %s\n", alphabetPath)
	fmt.Fprintf(formatter.Writer, "rules: %s\n", rulesPath)
	fmt.Fprintf(formatter.Writer, "input: %s\n", inputPath)
	return nil
}

// sampleAlphabet enumerates all 27 ternary bundles over three features: the
// symbol at index i carries digit (i / 3^f) mod 3 for feature f.
func sampleAlphabet() string {
	features := []string{"F1", "F2", "F3"}
	symbols := []string{"0"}
	for c := 'A'; c <= 'Z'; c++ {
		symbols = append(symbols, string(c))
	}
	valueFor := []string{"0", "+", "-"}

	var sb strings.Builder
	sb.WriteString("," + strings.Join(symbols, ",") + "\n")
	for f, name := range features {
		cells := make([]string, len(symbols))
		base := 1
		for i := 0; i < f; i++ {
			base *= 3
		}
		for s := range symbols {
			cells[s] = valueFor[(s/base)%3]
		}
		sb.WriteString(name + "," + strings.Join(cells, ",") + "\n")
	}
	return sb.String()
}

const sampleRules = `id = "sample_rules"

[[rules]]
id = "spread_f1_right"
dir = "RIGHT"
inr = [["+", "F1"]]
trm = [["+", "F2"]]
cnd = []
out = "(unify (proj TRM (F1)) INR)"
`

const sampleInput = `inputs = [
  ["0","A","B","C","D"],
  ["J","K","L"],
  ["T","U","V","W","X","Y","Z"],
]
`
