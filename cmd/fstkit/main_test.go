package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	cfg = Config{}
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), "fstkit %v", args)
	return out.String()
}

// Drives the full pipeline over real files: compile a text automaton,
// inspect it, print and draw it, union it with itself and map it.
func TestCommandPipeline(t *testing.T) {
	registerReaders()
	dir := t.TempDir()

	text := filepath.Join(dir, "chain.txt")
	require.NoError(t, os.WriteFile(text, []byte("0 1 1 1 0.5\n1 2 2 2 1.5\n2 0.25\n"), 0o644))

	bin := filepath.Join(dir, "chain.fst")
	runCLI(t, "compile", text, "-o", bin)

	info := runCLI(t, "info", bin)
	assert.Contains(t, info, "vector")
	assert.Contains(t, info, "semiring.Tropical")
	assert.Contains(t, info, "# of states   3")
	assert.Contains(t, info, "# of arcs     2")
	assert.Contains(t, info, "start state   0")

	printed := filepath.Join(dir, "chain.out.txt")
	runCLI(t, "print", bin, "-o", printed)
	data, err := os.ReadFile(printed)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// The printed text must compile back to the same shape.
	rebin := filepath.Join(dir, "chain2.fst")
	runCLI(t, "compile", printed, "-o", rebin)
	assert.Contains(t, runCLI(t, "info", rebin), "# of states   3")

	dot := filepath.Join(dir, "chain.dot")
	runCLI(t, "draw", bin, "-o", dot, "--title", "chain")
	data, err = os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")

	// Union of two chains with acyclic starts uses the epsilon bridge:
	// no synthesized start, state counts add up.
	unioned := filepath.Join(dir, "union.fst")
	runCLI(t, "union", bin, bin, "-o", unioned)
	assert.Contains(t, runCLI(t, "info", unioned), "# of states   6")

	mapped := filepath.Join(dir, "mapped.fst")
	runCLI(t, "map", bin, "--op", "plus", "--value", "1", "-o", mapped)
	assert.Contains(t, runCLI(t, "info", mapped), "# of states   3")
}

func TestConfigFileSelectsSemiring(t *testing.T) {
	registerReaders()
	dir := t.TempDir()

	cfgFile := filepath.Join(dir, "fstkit.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("semiring: boolean\n"), 0o644))

	text := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(text, []byte("0 1 1 1 true\n1 true\n"), 0o644))

	bin := filepath.Join(dir, "a.fst")
	runCLI(t, "--config", cfgFile, "compile", text, "-o", bin)
	assert.Contains(t, runCLI(t, "--config", cfgFile, "info", bin), "semiring.Boolean")
}

func TestUnknownOperationFails(t *testing.T) {
	cfg = Config{}
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"map", "--op", "no-such-op", "nonexistent.fst"})
	assert.Error(t, root.Execute())
}
