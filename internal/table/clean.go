package table

import (
	"fmt"
	"strconv"
	"strings"
)

// EmptyColumnPolicy decides what FillMissingNumeric does with a numeric
// column that has no values to average.
type EmptyColumnPolicy string

const (
	// EmptyColumnLeave keeps the column missing and reports it as skipped.
	EmptyColumnLeave EmptyColumnPolicy = "leave"
	// EmptyColumnFail aborts the fill with ErrEmptyNumericColumn.
	EmptyColumnFail EmptyColumnPolicy = "fail"
)

func ParseEmptyColumnPolicy(s string) (EmptyColumnPolicy, error) {
	switch p := EmptyColumnPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return EmptyColumnLeave, nil
	case EmptyColumnLeave, EmptyColumnFail:
		return p, nil
	}
	return "", fmt.Errorf("invalid empty column policy %q (must be leave or fail)", s)
}

// Deduplicate drops every row equal to an earlier one, keeping the first
// occurrence and the order of the rest. It returns how many rows it removed.
func (t *Table) Deduplicate() int {
	seen := make(map[string]struct{}, t.rows)
	keep := make([]int, 0, t.rows)
	var key strings.Builder
	for r := 0; r < t.rows; r++ {
		key.Reset()
		for _, col := range t.cols {
			writeKey(&key, col.Cells[r])
		}
		k := key.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, r)
	}

	removed := t.rows - len(keep)
	if removed == 0 {
		return 0
	}
	for _, col := range t.cols {
		cells := make([]Cell, len(keep))
		for i, r := range keep {
			cells[i] = col.Cells[r]
		}
		col.Cells = cells
	}
	t.rows = len(keep)
	return removed
}

// writeKey appends a length-prefixed encoding of c so that no two distinct
// rows share a key.
func writeKey(b *strings.Builder, c Cell) {
	var v string
	switch c.Kind {
	case CellMissing:
		b.WriteString("m;")
		return
	case CellNumber:
		b.WriteByte('n')
		v = strconv.FormatFloat(c.Num, 'g', -1, 64)
	case CellText:
		b.WriteByte('t')
		v = c.Text
	}
	b.WriteString(strconv.Itoa(len(v)))
	b.WriteByte(':')
	b.WriteString(v)
}

type FillResult struct {
	// Columns lists the numeric columns that had at least one cell filled.
	Columns []string
	// Cells is the total number of cells filled.
	Cells int
	// Skipped lists numeric columns left missing because they had no values.
	Skipped []string
}

// FillMissingNumeric replaces missing cells in each numeric column with the
// mean of that column's present values. Text columns are not touched. With
// EmptyColumnFail nothing is written if any numeric column is entirely missing.
func (t *Table) FillMissingNumeric(policy EmptyColumnPolicy) (FillResult, error) {
	var res FillResult
	means := make(map[int]float64)
	for i, col := range t.cols {
		if col.Kind != KindNumber {
			continue
		}
		var sum float64
		var n int
		for _, c := range col.Cells {
			if c.Kind == CellNumber {
				sum += c.Num
				n++
			}
		}
		if n == 0 {
			if t.rows > 0 && policy == EmptyColumnFail {
				return FillResult{}, &ColumnError{Column: col.Name, Err: ErrEmptyNumericColumn}
			}
			if t.rows > 0 {
				res.Skipped = append(res.Skipped, col.Name)
			}
			continue
		}
		means[i] = sum / float64(n)
	}

	for i, col := range t.cols {
		mean, ok := means[i]
		if !ok {
			continue
		}
		filled := 0
		for r, c := range col.Cells {
			if c.IsMissing() {
				col.Cells[r] = Number(mean)
				filled++
			}
		}
		if filled > 0 {
			res.Columns = append(res.Columns, col.Name)
			res.Cells += filled
		}
	}
	return res, nil
}
