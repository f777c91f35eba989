// Package table holds the in-memory typed table that every pipeline step
// works on, and the operations that clean, project and chart it.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
)

func (k Kind) String() string {
	if k == KindNumber {
		return "number"
	}
	return "text"
}

// CellKind is the type of a single value.
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// Cell is one value. Text keeps the source spelling of a number so that an
// untouched file is written back the way it was read.
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

func Missing() Cell { return Cell{Kind: CellMissing} }

func Number(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

func Text(s string) Cell { return Cell{Kind: CellText, Text: s} }

func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// String renders the cell the way it is written to CSV. Missing cells are empty.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if c.Text != "" {
			return c.Text
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Text
	}
	return ""
}

// Equal compares by value: numbers by magnitude, text byte for byte.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellNumber:
		return c.Num == o.Num
	case CellText:
		return c.Text == o.Text
	}
	return true
}

type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// Table is an ordered set of uniquely named columns of equal length.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// DefaultNAValues are the tokens read as a missing value. Cells must match
// one exactly; surrounding whitespace is kept.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// FromRecords builds a typed table from a header row and string rows. Short
// rows are padded with missing cells; cells past the header get unnamed columns.
func FromRecords(headers []string, rows [][]string, naValues []string) *Table {
	if naValues == nil {
		naValues = DefaultNAValues
	}
	na := make(map[string]struct{}, len(naValues))
	for _, v := range naValues {
		na[v] = struct{}{}
	}

	width := len(headers)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	names := make([]string, width)
	copy(names, headers)
	names = uniqueNames(names)

	cols := make([]*Column, width)
	for i := range cols {
		cols[i] = &Column{Name: names[i], Cells: make([]Cell, len(rows))}
	}

	for r, row := range rows {
		for c := 0; c < width; c++ {
			if c >= len(row) {
				cols[c].Cells[r] = Missing()
				continue
			}
			raw := row[c]
			if _, ok := na[raw]; ok {
				cols[c].Cells[r] = Missing()
				continue
			}
			cols[c].Cells[r] = Text(raw)
		}
	}

	for _, col := range cols {
		inferKind(col, len(rows))
	}

	return build(cols, len(rows))
}

// inferKind turns a column numeric when every present value parses as a
// finite number. A column whose rows are all missing counts as numeric.
func inferKind(col *Column, rows int) {
	if rows == 0 {
		col.Kind = KindText
		return
	}
	parsed := make([]float64, len(col.Cells))
	for i, c := range col.Cells {
		if c.IsMissing() {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			col.Kind = KindText
			return
		}
		parsed[i] = v
	}
	col.Kind = KindNumber
	for i, c := range col.Cells {
		if c.IsMissing() {
			continue
		}
		col.Cells[i] = Cell{Kind: CellNumber, Num: parsed[i], Text: strings.TrimSpace(c.Text)}
	}
}

// New builds a table from already typed columns. Names must be unique and
// every column must have the same number of cells.
func New(cols ...*Column) (*Table, error) {
	rows := 0
	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if _, dup := seen[col.Name]; dup {
			return nil, &ColumnError{Column: col.Name, Err: ErrDuplicateColumn}
		}
		seen[col.Name] = struct{}{}
		if i == 0 {
			rows = len(col.Cells)
		} else if len(col.Cells) != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", col.Name, len(col.Cells), rows)
		}
	}
	return build(cols, rows), nil
}

func build(cols []*Column, rows int) *Table {
	t := &Table{cols: cols, index: make(map[string]int, len(cols)), rows: rows}
	for i, c := range cols {
		t.index[c.Name] = i
	}
	return t
}

// uniqueNames renames blank headers to "Unnamed: i" and repeated ones to
// "name.1", "name.2", the same scheme pandas uses.
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	counts := make(map[string]int, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		cur := counts[name]
		for cur > 0 {
			counts[name] = cur + 1
			name = fmt.Sprintf("%s.%d", name, cur)
			cur = counts[name]
		}
		out[i] = name
		counts[name] = cur + 1
	}
	return out
}

func (t *Table) NumRows() int { return t.rows }

func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column. The returned column must not be resized.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Columns returns the columns in order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Row returns a copy of the cells at row i.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.cols))
	for c, col := range t.cols {
		row[c] = col.Cells[i]
	}
	return row
}

// Records renders the header followed by at most limit rows. A negative
// limit renders every row.
func (t *Table) Records(limit int) [][]string {
	n := t.rows
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([][]string, 0, n+1)
	out = append(out, t.Names())
	for r := 0; r < n; r++ {
		rec := make([]string, len(t.cols))
		for c, col := range t.cols {
			rec[c] = col.Cells[r].String()
		}
		out = append(out, rec)
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cells := make([]Cell, len(c.Cells))
		copy(cells, c.Cells)
		cols[i] = &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
	}
	return build(cols, t.rows)
}

// NumericNames returns the names of numeric columns in table order.
func (t *Table) NumericNames() []string {
	var names []string
	for _, c := range t.cols {
		if c.Kind == KindNumber {
			names = append(names, c.Name)
		}
	}
	return names
}
