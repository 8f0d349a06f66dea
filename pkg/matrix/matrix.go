// Package matrix reads and validates the dense adjacency-matrix input
// format: the first token is the dimension N, followed by N rows of N
// space-separated 0/1 cells. Malformed input is rejected here so the
// reachability core can assume a well-formed matrix.
//
//	3
//	0 1 0
//	0 0 1
//	0 0 0
package matrix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/reachmap/reachmap/pkg/errors"
)

// MaxSize caps the accepted matrix dimension. The closure algorithm is
// intentionally naive and dense matrices are held fully in memory, so large
// inputs are rejected up front rather than ground through.
const MaxSize = 512

// Matrix is a dense N×N adjacency matrix of 0/1 cells. Cell (i, j) == 1
// means a direct connection i → j. A Matrix is immutable after parsing.
type Matrix struct {
	n     int
	cells [][]int
}

// Size returns the dimension N.
func (m *Matrix) Size() int { return m.n }

// At returns the cell value at row i, column j.
func (m *Matrix) At(i, j int) int { return m.cells[i][j] }

// String renders the matrix in the console "Neighbor table" form used by
// the close and route commands.
func (m *Matrix) String() string {
	var b strings.Builder
	b.WriteString("Neighbor table\n")
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(m.cells[i][j]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FromRows builds a Matrix from pre-parsed rows, validating squareness and
// cell values. Useful for tests and callers that already hold the data.
func FromRows(rows [][]int) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "matrix must have at least one row")
	}
	if n > MaxSize {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "matrix dimension %d exceeds maximum %d", n, MaxSize)
	}
	cells := make([][]int, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, errors.New(errors.ErrCodeInvalidMatrix, "row %d has %d cells, expected %d", i, len(row), n)
		}
		cells[i] = make([]int, n)
		for j, v := range row {
			if v != 0 && v != 1 {
				return nil, errors.New(errors.ErrCodeInvalidMatrix, "cell (%d,%d) is %d, expected 0 or 1", i, j, v)
			}
			cells[i][j] = v
		}
	}
	return &Matrix{n: n, cells: cells}, nil
}

// Read parses a matrix from r. The first token must be the dimension N,
// followed by exactly N×N cell tokens of value 0 or 1. Any other token, a
// short read, or trailing garbage is an INVALID_MATRIX error.
func Read(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	tok, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "read dimension")
		}
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "empty input")
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "dimension %q is not an integer", tok)
	}
	if n <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "dimension must be positive, got %d", n)
	}
	if n > MaxSize {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "dimension %d exceeds maximum %d", n, MaxSize)
	}

	cells := make([][]int, n)
	for i := 0; i < n; i++ {
		cells[i] = make([]int, n)
		for j := 0; j < n; j++ {
			tok, ok := next()
			if !ok {
				if err := sc.Err(); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidMatrix, err, "read cell (%d,%d)", i, j)
				}
				return nil, errors.New(errors.ErrCodeInvalidMatrix, "input ends at cell (%d,%d), expected %d×%d cells", i, j, n, n)
			}
			switch tok {
			case "0":
				cells[i][j] = 0
			case "1":
				cells[i][j] = 1
			default:
				return nil, errors.New(errors.ErrCodeInvalidMatrix, "cell (%d,%d) is %q, expected 0 or 1", i, j, tok)
			}
		}
	}

	if tok, ok := next(); ok {
		return nil, errors.New(errors.ErrCodeInvalidMatrix, "unexpected trailing token %q after %d×%d cells", tok, n, n)
	}
	return &Matrix{n: n, cells: cells}, nil
}

// ReadFile reads and parses the matrix file at path.
func ReadFile(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
