package table

// Project returns a new table holding copies of the named columns in the
// given order. An empty selection keeps every column.
func (t *Table) Project(names []string) (*Table, error) {
	if len(names) == 0 {
		return t.Clone(), nil
	}
	seen := make(map[string]struct{}, len(names))
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, &ColumnError{Column: name, Err: ErrDuplicateColumn}
		}
		seen[name] = struct{}{}
		src, ok := t.Column(name)
		if !ok {
			return nil, &ColumnError{Column: name, Err: ErrUnknownColumn}
		}
		cells := make([]Cell, len(src.Cells))
		copy(cells, src.Cells)
		cols = append(cols, &Column{Name: src.Name, Kind: src.Kind, Cells: cells})
	}
	return build(cols, t.rows), nil
}
