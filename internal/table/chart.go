package table

import "strconv"

// DefaultChartColumns is how many numeric columns a chart shows.
const DefaultChartColumns = 2

type Series struct {
	Name    string
	Values  []float64
	Missing []bool
}

// Chart is bar chart data: one label per row and one series per column.
type Chart struct {
	Labels []string
	Series []Series
}

func (c Chart) Empty() bool { return len(c.Series) == 0 }

// Max returns the largest value across all series, or 0.
func (c Chart) Max() float64 {
	var m float64
	for _, s := range c.Series {
		for _, v := range s.Values {
			if v > m {
				m = v
			}
		}
	}
	return m
}

// Chart takes the first maxCols numeric columns. Missing values plot as 0.
func (t *Table) Chart(maxCols int) Chart {
	if maxCols <= 0 {
		maxCols = DefaultChartColumns
	}
	var ch Chart
	for _, col := range t.cols {
		if len(ch.Series) == maxCols {
			break
		}
		if col.Kind != KindNumber {
			continue
		}
		s := Series{
			Name:    col.Name,
			Values:  make([]float64, t.rows),
			Missing: make([]bool, t.rows),
		}
		for r, c := range col.Cells {
			if c.Kind == CellNumber {
				s.Values[r] = c.Num
			} else {
				s.Missing[r] = true
			}
		}
		ch.Series = append(ch.Series, s)
	}
	if len(ch.Series) > 0 {
		ch.Labels = make([]string, t.rows)
		for r := range ch.Labels {
			ch.Labels[r] = strconv.Itoa(r + 1)
		}
	}
	return ch
}
