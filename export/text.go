package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fstkit/fstkit"
)

// TextOptions configures the tabular text rendering.
type TextOptions struct {
	// Acceptor prints a single label per arc.
	Acceptor bool
	// FormatWeight renders weights; nil means fmt.Sprint.
	FormatWeight func(any) string
}

// TextExporter renders an automaton in the tabular text format read by
// fstkit.CompileText: tab-separated arc records "src dst ilabel olabel
// weight" and final records "state weight". The start state's records
// come first, since the first record's source defines the start on
// reading back. Weights equal to One are omitted.
//
// A start state with no outgoing arcs and a Zero final weight emits no
// record at all, so compiling the output back picks a different start.
// The format has no way to name such a state.
type TextExporter[W fstkit.Weight[W]] struct {
	fst  fstkit.Fst[W]
	opts TextOptions
}

// NewTextExporter creates an exporter for the given automaton.
func NewTextExporter[W fstkit.Weight[W]](fst fstkit.Fst[W], opts TextOptions) *TextExporter[W] {
	return &TextExporter[W]{fst: fst, opts: opts}
}

// Export writes the records to w.
func (e *TextExporter[W]) Export(w io.Writer) error {
	start := e.fst.Start()
	if start == fstkit.NoStateID {
		return nil
	}
	if err := e.exportState(w, start); err != nil {
		return err
	}
	for s := range e.fst.States() {
		if s == start {
			continue
		}
		if err := e.exportState(w, s); err != nil {
			return err
		}
	}
	return nil
}

// ExportString returns the records as a string.
func (e *TextExporter[W]) ExportString() (string, error) {
	var b strings.Builder
	if err := e.Export(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e *TextExporter[W]) exportState(w io.Writer, s fstkit.StateID) error {
	format := e.opts.FormatWeight
	if format == nil {
		format = func(v any) string { return fmt.Sprint(v) }
	}
	one := fstkit.One[W]()
	isyms := e.fst.InputSymbols()
	osyms := e.fst.OutputSymbols()
	for arc := range e.fst.Arcs(s) {
		fields := []string{fmt.Sprint(s), fmt.Sprint(arc.NextState), symbolOf(arc.ILabel, isyms)}
		if !e.opts.Acceptor {
			fields = append(fields, symbolOf(arc.OLabel, osyms))
		}
		if !arc.Weight.Equal(one) {
			fields = append(fields, format(arc.Weight))
		}
		if _, err := fmt.Fprintln(w, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	final := e.fst.Final(s)
	if !final.Equal(fstkit.Zero[W]()) {
		record := fmt.Sprint(s)
		if !final.Equal(one) {
			record += "\t" + format(final)
		}
		if _, err := fmt.Fprintln(w, record); err != nil {
			return err
		}
	}
	return nil
}
