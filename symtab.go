package fstkit

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"sort"
	"strconv"
	"strings"
)

// SymbolTable maps symbol strings to arc labels. The core only relies
// on the boundary operations below: compatibility checking, lookup in
// both directions and copying. Tables follow the package's
// single-threaded mutation contract.
type SymbolTable struct {
	name    string
	byName  map[string]Label
	byLabel map[Label]string
	next    Label
}

// NewSymbolTable returns an empty table with the given name.
func NewSymbolTable(name string) *SymbolTable {
	return &SymbolTable{
		name:    name,
		byName:  make(map[string]Label),
		byLabel: make(map[Label]string),
	}
}

// Name returns the table name.
func (t *SymbolTable) Name() string { return t.name }

// NumSymbols returns the number of symbols in the table.
func (t *SymbolTable) NumSymbols() int { return len(t.byName) }

// AddSymbol inserts sym at the next free label and returns it. Adding
// an existing symbol returns its current label.
func (t *SymbolTable) AddSymbol(sym string) Label {
	if l, ok := t.byName[sym]; ok {
		return l
	}
	for {
		if _, used := t.byLabel[t.next]; !used {
			break
		}
		t.next++
	}
	l := t.next
	t.next++
	t.byName[sym] = l
	t.byLabel[l] = sym
	return l
}

// SetSymbol binds sym to an explicit label, replacing any previous
// binding of either.
func (t *SymbolTable) SetSymbol(sym string, l Label) {
	if old, ok := t.byLabel[l]; ok {
		delete(t.byName, old)
	}
	if old, ok := t.byName[sym]; ok {
		delete(t.byLabel, old)
	}
	t.byName[sym] = l
	t.byLabel[l] = sym
}

// Find returns the label bound to sym.
func (t *SymbolTable) Find(sym string) (Label, bool) {
	l, ok := t.byName[sym]
	return l, ok
}

// Symbol returns the symbol bound to l.
func (t *SymbolTable) Symbol(l Label) (string, bool) {
	s, ok := t.byLabel[l]
	return s, ok
}

// Copy returns an independent copy of the table.
func (t *SymbolTable) Copy() *SymbolTable {
	if t == nil {
		return nil
	}
	c := NewSymbolTable(t.name)
	for sym, l := range t.byName {
		c.byName[sym] = l
		c.byLabel[l] = sym
	}
	c.next = t.next
	return c
}

// CompatSymbols reports whether two optional tables agree. A nil table
// is compatible with anything; two tables are compatible when they
// assign identical labels to identical symbols.
func CompatSymbols(a, b *SymbolTable) bool {
	if a == nil || b == nil {
		return true
	}
	if len(a.byName) != len(b.byName) {
		return false
	}
	for sym, l := range a.byName {
		if bl, ok := b.byName[sym]; !ok || bl != l {
			return false
		}
	}
	return true
}

// sorted iterates over the table's bindings in label order.
func (t *SymbolTable) sorted() iter.Seq2[Label, string] {
	labels := make([]Label, 0, len(t.byLabel))
	for l := range t.byLabel {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return func(yield func(Label, string) bool) {
		for _, l := range labels {
			if !yield(l, t.byLabel[l]) {
				return
			}
		}
	}
}

// ReadSymbolTable parses the text format: one "symbol<ws>label" pair
// per line, blank lines and #-comments ignored.
func ReadSymbolTable(r io.Reader, name string) (*SymbolTable, error) {
	t := NewSymbolTable(name)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("symbol table %s line %d: expected 2 fields, got %d", name, lineno, len(fields))
		}
		l, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("symbol table %s line %d: bad label %q: %w", name, lineno, fields[1], err)
		}
		t.SetSymbol(fields[0], Label(l))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("symbol table %s: %w", name, err)
	}
	return t, nil
}

// WriteTo writes the table in the text format, sorted by label.
func (t *SymbolTable) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for l, sym := range t.sorted() {
		n, err := fmt.Fprintf(w, "%s\t%d\n", sym, l)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
