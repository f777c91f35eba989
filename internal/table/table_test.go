package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords_InfersKinds(t *testing.T) {
	tbl := FromRecords(
		[]string{"id", "name", "score", "empty"},
		[][]string{
			{"1", "Alice", "8.5", ""},
			{"2", "Bob", "NA", ""},
			{"3", "42", "7", "NaN"},
		},
		nil,
	)

	require.Equal(t, 3, tbl.NumRows())
	require.Equal(t, []string{"id", "name", "score", "empty"}, tbl.Names())

	tests := []struct {
		name string
		kind Kind
	}{
		{"id", KindNumber},
		{"name", KindText},
		{"score", KindNumber},
		{"empty", KindNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := tbl.Column(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, col.Kind)
		})
	}

	name, _ := tbl.Column("name")
	assert.Equal(t, Text("42"), name.Cells[2])
	score, _ := tbl.Column("score")
	assert.True(t, score.Cells[1].IsMissing())
}

func TestFromRecords_PadsAndNamesColumns(t *testing.T) {
	tbl := FromRecords(
		[]string{"a", "a", "", "a.1"},
		[][]string{
			{"1"},
			{"1", "2", "3", "4", "5"},
		},
		nil,
	)

	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.1.1", "Unnamed: 4"}, tbl.Names())
	assert.Equal(t, 2, tbl.NumRows())
	for _, col := range tbl.Columns() {
		assert.Len(t, col.Cells, 2, col.Name)
	}
	assert.True(t, tbl.Row(0)[4].IsMissing())
}

func TestFromRecords_NATokensMatchExactly(t *testing.T) {
	tbl := FromRecords(
		[]string{"code", "v"},
		[][]string{
			{" NA", "#N/A N/A"},
			{"x", "1.#QNAN"},
			{"y", "2"},
		},
		nil,
	)

	code, _ := tbl.Column("code")
	assert.Equal(t, KindText, code.Kind)
	assert.Equal(t, Text(" NA"), code.Cells[0])

	v, _ := tbl.Column("v")
	assert.Equal(t, KindNumber, v.Kind)
	assert.True(t, v.Cells[0].IsMissing())
	assert.True(t, v.Cells[1].IsMissing())
	assert.Equal(t, 2.0, v.Cells[2].Num)
}

func TestFromRecords_NonFiniteIsText(t *testing.T) {
	for _, raw := range []string{"inf", "-Infinity", "+Inf"} {
		t.Run(raw, func(t *testing.T) {
			tbl := FromRecords([]string{"v"}, [][]string{{"1"}, {raw}}, nil)
			v, _ := tbl.Column("v")
			assert.Equal(t, KindText, v.Kind)
			assert.Equal(t, Text(raw), v.Cells[1])
			assert.Empty(t, tbl.NumericNames())
		})
	}
}

func TestFromRecords_HeaderOnly(t *testing.T) {
	tbl := FromRecords([]string{"a", "b"}, nil, nil)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Empty(t, tbl.NumericNames())
	assert.Equal(t, [][]string{{"a", "b"}}, tbl.Records(-1))
}

func TestNew_Validates(t *testing.T) {
	_, err := New(
		&Column{Name: "a", Cells: []Cell{Number(1)}},
		&Column{Name: "a", Cells: []Cell{Number(2)}},
	)
	require.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New(
		&Column{Name: "a", Cells: []Cell{Number(1)}},
		&Column{Name: "b", Cells: []Cell{Number(1), Number(2)}},
	)
	require.Error(t, err)

	tbl, err := New(&Column{Name: "a", Kind: KindNumber, Cells: []Cell{Number(1), Missing()}})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"Missing", Missing(), ""},
		{"Computed integer", Number(4), "4"},
		{"Computed fraction", Number(2.5), "2.5"},
		{"Source spelling kept", Cell{Kind: CellNumber, Num: 1, Text: "1.0"}, "1.0"},
		{"Text", Text(" hi "), " hi "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.String())
		})
	}
}

func TestRecords_Limit(t *testing.T) {
	tbl := FromRecords([]string{"x"}, [][]string{{"1"}, {"2"}, {"3"}}, nil)
	assert.Equal(t, [][]string{{"x"}, {"1"}, {"2"}}, tbl.Records(2))
	assert.Len(t, tbl.Records(-1), 4)
	assert.Len(t, tbl.Records(10), 4)
}

func TestClone_IsIndependent(t *testing.T) {
	tbl := FromRecords([]string{"x"}, [][]string{{"1"}, {"1"}}, nil)
	cp := tbl.Clone()
	cp.Deduplicate()
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 1, cp.NumRows())
}
