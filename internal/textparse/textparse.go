// Package textparse tokenizes the tabular automaton text format: one
// whitespace-separated record per line, describing either an arc or a
// final state. The package knows nothing about weights or symbol
// tables; it hands the caller raw fields with line positions for error
// reporting.
package textparse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Entry is one non-empty line of input, split into fields.
type Entry struct {
	Fields []string
	Line   int
}

// MaxFields is the widest legal record: source, destination, input
// label, output label, weight.
const MaxFields = 5

// Parse reads all records from r. Blank lines and lines starting with
// '#' are skipped. Records wider than MaxFields are rejected here;
// narrower ambiguity (acceptor vs transducer, optional weight) is the
// caller's to resolve.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > MaxFields {
			return nil, fmt.Errorf("line %d: %d fields, at most %d allowed", lineno, len(fields), MaxFields)
		}
		entries = append(entries, Entry{Fields: fields, Line: lineno})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
