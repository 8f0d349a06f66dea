// Package render formats computed closures for people: the legacy "R* Table"
// text form for console and file output, and node-link DOT/SVG diagrams for
// graphical inspection.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reachmap/reachmap/pkg/relation"
)

// WriteTable writes the closure in the legacy text form: an "R* Table"
// header followed by one "source -> destination" line per pair, in the
// closure's insertion order.
func WriteTable(w io.Writer, closure relation.List) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "R* Table")
	for _, p := range closure {
		fmt.Fprintf(bw, "%d -> %d\n", p.Src, p.Dst)
	}
	return bw.Flush()
}

// WriteTableFile writes the closure table to the file at path.
func WriteTableFile(closure relation.List, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTable(f, closure)
}

// OutputPath derives the closure output file name from the input file,
// following the legacy "out-<name>.txt" convention: cities1.txt becomes
// out-cities1.txt, placed next to the input file.
func OutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	name := "out-" + strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	return filepath.Join(filepath.Dir(inputPath), name)
}
