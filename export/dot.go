// Package export renders automata to external formats: Graphviz DOT
// for visualization and the tabular text format for interchange with
// other toolkits.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/fstkit/fstkit"
)

// DotOptions configures the Graphviz rendering.
type DotOptions struct {
	// Title is the graph label; empty for none.
	Title string
	// Vertical draws top-to-bottom instead of left-to-right.
	Vertical bool
	// Acceptor renders a single label per arc instead of an
	// input:output pair.
	Acceptor bool
	// FormatWeight renders weights; nil means fmt.Sprint. Weights
	// equal to One are omitted from labels.
	FormatWeight func(any) string
}

// DotExporter renders an automaton as a Graphviz digraph. The start
// state gets an entry arrow, final states a double circle with their
// final weight.
type DotExporter[W fstkit.Weight[W]] struct {
	fst  fstkit.Fst[W]
	opts DotOptions
}

// NewDotExporter creates an exporter for the given automaton.
func NewDotExporter[W fstkit.Weight[W]](fst fstkit.Fst[W], opts DotOptions) *DotExporter[W] {
	return &DotExporter[W]{fst: fst, opts: opts}
}

// Export writes the digraph to w.
func (e *DotExporter[W]) Export(w io.Writer) error {
	format := e.opts.FormatWeight
	if format == nil {
		format = func(v any) string { return fmt.Sprint(v) }
	}
	one := fstkit.One[W]()
	isyms := e.fst.InputSymbols()
	osyms := e.fst.OutputSymbols()

	var b strings.Builder
	b.WriteString("digraph FST {\n")
	if e.opts.Vertical {
		b.WriteString("  rankdir = TB;\n")
	} else {
		b.WriteString("  rankdir = LR;\n")
	}
	if e.opts.Title != "" {
		fmt.Fprintf(&b, "  label = %q;\n", e.opts.Title)
	}
	b.WriteString("  node [shape = circle];\n")

	start := e.fst.Start()
	if start != fstkit.NoStateID {
		b.WriteString("  __start [shape = point, style = invis];\n")
		fmt.Fprintf(&b, "  __start -> %d;\n", start)
	}
	for s := range e.fst.States() {
		final := e.fst.Final(s)
		if !final.Equal(fstkit.Zero[W]()) {
			label := fmt.Sprint(s)
			if !final.Equal(one) {
				label = fmt.Sprintf("%d/%s", s, format(final))
			}
			fmt.Fprintf(&b, "  %d [shape = doublecircle, label = %q];\n", s, label)
		}
		for arc := range e.fst.Arcs(s) {
			label := symbolOf(arc.ILabel, isyms)
			if !e.opts.Acceptor {
				label += ":" + symbolOf(arc.OLabel, osyms)
			}
			if !arc.Weight.Equal(one) {
				label += "/" + format(arc.Weight)
			}
			fmt.Fprintf(&b, "  %d -> %d [label = %q];\n", s, arc.NextState, label)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ExportString returns the digraph as a string.
func (e *DotExporter[W]) ExportString() (string, error) {
	var b strings.Builder
	if err := e.Export(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// symbolOf renders a label through its optional symbol table.
func symbolOf(l fstkit.Label, syms *fstkit.SymbolTable) string {
	if syms != nil {
		if s, ok := syms.Symbol(l); ok {
			return s
		}
	}
	return fmt.Sprint(int32(l))
}
