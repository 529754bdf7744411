package export_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fstkit/fstkit"
	"github.com/fstkit/fstkit/export"
	"github.com/fstkit/fstkit/semiring"
)

func buildSample() *fstkit.VectorFst[semiring.Tropical] {
	f := fstkit.NewVectorFst[semiring.Tropical]()
	s0 := f.AddState()
	s1 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, fstkit.Arc[semiring.Tropical]{ILabel: 1, OLabel: 2, Weight: semiring.Tropical(0.5), NextState: s1})
	f.AddArc(s1, fstkit.Arc[semiring.Tropical]{ILabel: 3, OLabel: 3, Weight: semiring.Tropical(0).One(), NextState: s0})
	f.SetFinal(s1, semiring.Tropical(1.5))
	return f
}

func TestDotExporter(t *testing.T) {
	f := buildSample()
	out, err := export.NewDotExporter[semiring.Tropical](f, export.DotOptions{Title: "sample"}).ExportString()
	require.NoError(t, err)

	assert.Contains(t, out, "digraph FST {")
	assert.Contains(t, out, "rankdir = LR;")
	assert.Contains(t, out, `label = "sample";`)
	assert.Contains(t, out, "__start -> 0;")
	assert.Contains(t, out, `0 -> 1 [label = "1:2/0.5"];`)
	// One weights are omitted from arc labels.
	assert.Contains(t, out, `1 -> 0 [label = "3:3"];`)
	assert.Contains(t, out, `1 [shape = doublecircle, label = "1/1.5"];`)
}

func TestDotExporterAcceptorVertical(t *testing.T) {
	f := buildSample()
	out, err := export.NewDotExporter[semiring.Tropical](f, export.DotOptions{Vertical: true, Acceptor: true}).ExportString()
	require.NoError(t, err)
	assert.Contains(t, out, "rankdir = TB;")
	assert.Contains(t, out, `1 -> 0 [label = "3"];`)
}

func TestDotExporterSymbols(t *testing.T) {
	f := buildSample()
	syms := fstkit.NewSymbolTable("letters")
	syms.SetSymbol("a", 1)
	syms.SetSymbol("c", 3)
	f.SetInputSymbols(syms)
	out, err := export.NewDotExporter[semiring.Tropical](f, export.DotOptions{Acceptor: true}).ExportString()
	require.NoError(t, err)
	assert.Contains(t, out, `0 -> 1 [label = "a/0.5"];`)
}

func TestTextExporter(t *testing.T) {
	f := buildSample()
	out, err := export.NewTextExporter[semiring.Tropical](f, export.TextOptions{}).ExportString()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{
		"0\t1\t1\t2\t0.5",
		"1\t0\t3\t3",
		"1\t1.5",
	}, lines)
}

// Exported text must compile back to an equal automaton.
func TestTextExporterRoundTrip(t *testing.T) {
	f := buildSample()
	out, err := export.NewTextExporter[semiring.Tropical](f, export.TextOptions{}).ExportString()
	require.NoError(t, err)

	got, err := fstkit.CompileText(strings.NewReader(out), semiring.ParseTropical, fstkit.TextOptions{})
	require.NoError(t, err)

	require.Equal(t, f.Start(), got.Start())
	require.Equal(t, f.NumStates(), got.NumStates())
	for s := range f.States() {
		assert.True(t, f.Final(s).Equal(got.Final(s)))
		assert.Equal(t, f.NumArcs(s), got.NumArcs(s))
	}
}

func TestExportersEmptyAutomaton(t *testing.T) {
	f := fstkit.NewVectorFst[semiring.Tropical]()
	text, err := export.NewTextExporter[semiring.Tropical](f, export.TextOptions{}).ExportString()
	require.NoError(t, err)
	assert.Empty(t, text)

	dot, err := export.NewDotExporter[semiring.Tropical](f, export.DotOptions{}).ExportString()
	require.NoError(t, err)
	assert.NotContains(t, dot, "__start")
}
