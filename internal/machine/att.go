package machine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// WriteATT writes the machine in AT&T textual form: one "src dst ilabel
// olabel" line per arc in canonical order, then one standalone line per
// final state. Every state is final.
func WriteATT(w io.Writer, m *Machine) error {
	bw := bufio.NewWriter(w)
	for _, arc := range m.Arcs {
		if _, err := fmt.Fprintf(bw, "%d %d %d %d\n", arc.Src, arc.Dst, arc.ILabel, arc.OLabel); err != nil {
			return err
		}
	}
	for state := 0; state < m.States; state++ {
		if _, err := fmt.Fprintf(bw, "%d\n", state); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteSymbols writes the shared symbol table: "<eps> 0" plus one line per
// Σ_V label with the name derived from the tuple.
func WriteSymbols(w io.Writer, m *Machine) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "<eps> 0"); err != nil {
		return err
	}
	k := len(m.VOrder)
	t := make(Tuple, k)
	for label := 1; label <= SigmaSize(k); label++ {
		if err := DecodeLabelInto(t, label); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s %d\n", SymbolName(t, m.VOrder), label); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SymbolName derives the human-readable name for a Σ_V tuple: featureName
// plus '+', '-', or '0' per coordinate, joined by '_'.
func SymbolName(t Tuple, vOrder []string) string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = vOrder[i] + v.String()
	}
	return strings.Join(parts, "_")
}

// WriteFiles writes the AT&T file and its sibling symbol table. On failure
// the partially written file is removed.
func WriteFiles(m *Machine, attPath, symPath string) error {
	if err := writeFile(attPath, func(w io.Writer) error { return WriteATT(w, m) }); err != nil {
		return err
	}
	if err := writeFile(symPath, func(w io.Writer) error { return WriteSymbols(w, m) }); err != nil {
		os.Remove(attPath)
		return err
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
