package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fstkit/fstkit"
	"github.com/fstkit/fstkit/export"
	"github.com/fstkit/fstkit/semiring"
)

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func readFst[W fstkit.Weight[W]](path string) (fstkit.Fst[W], error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return fstkit.Read[W](in)
}

func writeVector[W fstkit.Weight[W]](f *fstkit.VectorFst[W], path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func loadSymbols(path, name string) (*fstkit.SymbolTable, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fstkit.ReadSymbolTable(f, name)
}

func newCompileCmd() *cobra.Command {
	var out, isymPath, osymPath string
	var acceptor, addSymbols bool
	cmd := &cobra.Command{
		Use:   "compile [text-file]",
		Short: "Compile the tabular text format into a binary automaton",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			isyms, err := loadSymbols(isymPath, "input")
			if err != nil {
				return err
			}
			osyms, err := loadSymbols(osymPath, "output")
			if err != nil {
				return err
			}
			opts := fstkit.TextOptions{
				Acceptor:   acceptor,
				ISymbols:   isyms,
				OSymbols:   osyms,
				AddSymbols: addSymbols,
			}
			switch semiringName() {
			case "tropical":
				return runCompile(arg, out, semiring.ParseTropical, opts)
			case "log":
				return runCompile(arg, out, semiring.ParseLog, opts)
			case "boolean":
				return runCompile(arg, out, semiring.ParseBoolean, opts)
			}
			return fmt.Errorf("unknown semiring %q", semiringName())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	cmd.Flags().StringVar(&isymPath, "isymbols", "", "input symbol table file")
	cmd.Flags().StringVar(&osymPath, "osymbols", "", "output symbol table file")
	cmd.Flags().BoolVar(&acceptor, "acceptor", false, "records carry one label per arc")
	cmd.Flags().BoolVar(&addSymbols, "add-symbols", false, "grow symbol tables with unknown symbols")
	return cmd
}

func runCompile[W fstkit.Weight[W]](in, out string, parse func(string) (W, error), opts fstkit.TextOptions) error {
	r, err := openInput(in)
	if err != nil {
		return err
	}
	defer r.Close()
	f, err := fstkit.CompileText(r, parse, opts)
	if err != nil {
		return err
	}
	if err := fstkit.Verify[W](f); err != nil {
		return err
	}
	return writeVector(f, out)
}

func newPrintCmd() *cobra.Command {
	var out string
	var acceptor bool
	cmd := &cobra.Command{
		Use:   "print [binary-file]",
		Short: "Print a binary automaton in the tabular text format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			switch semiringName() {
			case "tropical":
				return runPrint[semiring.Tropical](arg, out, acceptor)
			case "log":
				return runPrint[semiring.Log](arg, out, acceptor)
			case "boolean":
				return runPrint[semiring.Boolean](arg, out, acceptor)
			}
			return fmt.Errorf("unknown semiring %q", semiringName())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	cmd.Flags().BoolVar(&acceptor, "acceptor", false, "print one label per arc")
	return cmd
}

func runPrint[W fstkit.Weight[W]](in, out string, acceptor bool) error {
	f, err := readFst[W](in)
	if err != nil {
		return err
	}
	w, err := openOutput(out)
	if err != nil {
		return err
	}
	exp := export.NewTextExporter(f, export.TextOptions{Acceptor: acceptor})
	if err := exp.Export(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [binary-file]",
		Short: "Show the header of a binary automaton",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			in, err := openInput(arg)
			if err != nil {
				return err
			}
			defer in.Close()
			hdr, err := fstkit.ReadHeader(in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "fst type      %s\n", hdr.FstType)
			fmt.Fprintf(w, "weight type   %s\n", hdr.WeightType)
			fmt.Fprintf(w, "# of states   %d\n", hdr.NumStates)
			fmt.Fprintf(w, "# of arcs     %d\n", hdr.NumArcs)
			fmt.Fprintf(w, "start state   %d\n", hdr.Start)
			fmt.Fprintf(w, "properties    %s\n", hdr.Props)
			return nil
		},
	}
	return cmd
}

func newDrawCmd() *cobra.Command {
	var out, title string
	var vertical, acceptor bool
	cmd := &cobra.Command{
		Use:   "draw [binary-file]",
		Short: "Render a binary automaton as a Graphviz digraph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			opts := export.DotOptions{Title: title, Vertical: vertical, Acceptor: acceptor}
			switch semiringName() {
			case "tropical":
				return runDraw[semiring.Tropical](arg, out, opts)
			case "log":
				return runDraw[semiring.Log](arg, out, opts)
			case "boolean":
				return runDraw[semiring.Boolean](arg, out, opts)
			}
			return fmt.Errorf("unknown semiring %q", semiringName())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	cmd.Flags().StringVar(&title, "title", "", "graph title")
	cmd.Flags().BoolVar(&vertical, "vertical", false, "draw top to bottom")
	cmd.Flags().BoolVar(&acceptor, "acceptor", false, "render one label per arc")
	return cmd
}

func runDraw[W fstkit.Weight[W]](in, out string, opts export.DotOptions) error {
	f, err := readFst[W](in)
	if err != nil {
		return err
	}
	w, err := openOutput(out)
	if err != nil {
		return err
	}
	exp := export.NewDotExporter(f, opts)
	if err := exp.Export(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func newUnionCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "union <binary-file> <binary-file>...",
		Short: "Union two or more binary automata",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch semiringName() {
			case "tropical":
				return runUnion[semiring.Tropical](args, out)
			case "log":
				return runUnion[semiring.Log](args, out)
			case "boolean":
				return runUnion[semiring.Boolean](args, out)
			}
			return fmt.Errorf("unknown semiring %q", semiringName())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	return cmd
}

func runUnion[W fstkit.Weight[W]](paths []string, out string) error {
	first, err := readFst[W](paths[0])
	if err != nil {
		return err
	}
	dst := fstkit.NewVectorFst[W]()
	fstkit.ArcMapInto(first, dst, fstkit.IdentityMapper[W]{})
	rest := make([]fstkit.Fst[W], 0, len(paths)-1)
	for _, path := range paths[1:] {
		f, err := readFst[W](path)
		if err != nil {
			return err
		}
		rest = append(rest, f)
	}
	fstkit.UnionAll(dst, rest...)
	if dst.Properties(fstkit.PropError, false) != 0 {
		return fmt.Errorf("union failed: result carries the error property")
	}
	return writeVector(dst, out)
}

func newMapCmd() *cobra.Command {
	var out, op, value string
	var delta float64
	cmd := &cobra.Command{
		Use:   "map [binary-file]",
		Short: "Apply an arc mapping to a binary automaton",
		Long: "Apply an arc mapping to a binary automaton.\n\n" +
			"Operations: identity, input-epsilon, output-epsilon, superfinal,\n" +
			"plus, times, rmweight, quantize.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			switch semiringName() {
			case "tropical":
				m, err := tropicalMapper(op, value, delta)
				if err != nil {
					return err
				}
				return runMap(arg, out, m)
			case "log":
				m, err := logMapper(op, value, delta)
				if err != nil {
					return err
				}
				return runMap(arg, out, m)
			case "boolean":
				m, err := buildMapper(op, value, semiring.ParseBoolean)
				if err != nil {
					return err
				}
				return runMap(arg, out, m)
			}
			return fmt.Errorf("unknown semiring %q", semiringName())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file")
	cmd.Flags().StringVar(&op, "op", "identity", "mapping operation")
	cmd.Flags().StringVar(&value, "value", "", "weight constant for plus/times")
	cmd.Flags().Float64Var(&delta, "delta", 0, "quantization interval (0 for default)")
	return cmd
}

func tropicalMapper(op, value string, delta float64) (fstkit.ArcMapper[semiring.Tropical, semiring.Tropical], error) {
	if op == "quantize" {
		return fstkit.QuantizeMapper[semiring.Tropical]{Delta: delta}, nil
	}
	return buildMapper(op, value, semiring.ParseTropical)
}

func logMapper(op, value string, delta float64) (fstkit.ArcMapper[semiring.Log, semiring.Log], error) {
	if op == "quantize" {
		return fstkit.QuantizeMapper[semiring.Log]{Delta: delta}, nil
	}
	return buildMapper(op, value, semiring.ParseLog)
}

func buildMapper[W fstkit.Weight[W]](op, value string, parse func(string) (W, error)) (fstkit.ArcMapper[W, W], error) {
	switch op {
	case "identity":
		return fstkit.IdentityMapper[W]{}, nil
	case "input-epsilon":
		return fstkit.InputEpsilonMapper[W]{}, nil
	case "output-epsilon":
		return fstkit.OutputEpsilonMapper[W]{}, nil
	case "superfinal":
		return fstkit.SuperFinalMapper[W]{}, nil
	case "rmweight":
		return fstkit.RmWeightMapper[W]{}, nil
	case "plus", "times":
		w, err := parse(value)
		if err != nil {
			return nil, fmt.Errorf("bad --value %q: %w", value, err)
		}
		if op == "plus" {
			return fstkit.PlusMapper[W]{Weight: w}, nil
		}
		return fstkit.TimesMapper[W]{Weight: w}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

func runMap[W fstkit.Weight[W]](in, out string, mapper fstkit.ArcMapper[W, W]) error {
	f, err := readFst[W](in)
	if err != nil {
		return err
	}
	dst := fstkit.NewVectorFst[W]()
	fstkit.ArcMapInto(f, dst, mapper)
	return writeVector(dst, out)
}
