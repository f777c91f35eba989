package converter

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nconklindev/datasweep/internal/table"
	"github.com/nconklindev/datasweep/internal/types"

	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheetName, cell, &r); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

func TestParse_Extensions(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		wantErr error
	}{
		{"CSV", "data.csv", []byte("a,b\n1,2\n"), nil},
		{"Upper case CSV", "DATA.CSV", []byte("a,b\n1,2\n"), nil},
		{"Text file", "data.txt", []byte("a,b\n1,2\n"), ErrUnsupportedFormat},
		{"Legacy Excel", "data.xls", []byte("a,b\n1,2\n"), ErrUnsupportedFormat},
		{"No extension", "data", []byte("a,b\n1,2\n"), ErrUnsupportedFormat},
		{"Empty CSV", "empty.csv", []byte(""), ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Parse(types.Blob{Name: tt.file, Content: tt.content}, ParseOptions{})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Parse(%s) failed: %v", tt.file, err)
				}
				if tbl.NumRows() != 1 {
					t.Errorf("Expected 1 row, got %d", tbl.NumRows())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%s) error = %v; want %v", tt.file, err, tt.wantErr)
			}
			if tbl != nil {
				t.Errorf("Expected no table on error")
			}
			var fileErr *FileError
			if !errors.As(err, &fileErr) || fileErr.Name != tt.file {
				t.Errorf("Expected FileError naming %s, got %v", tt.file, err)
			}
		})
	}
}

func TestParse_RaggedCSV(t *testing.T) {
	tbl, err := Parse(types.Blob{Name: "short.csv", Content: []byte("a,b,c\n1,2,3\n4,5\n")}, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse with a short row failed: %v", err)
	}
	want := [][]string{{"a", "b", "c"}, {"1", "2", "3"}, {"4", "5", ""}}
	if got := tbl.Records(-1); !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %v; want %v", got, want)
	}
	c, _ := tbl.Column("c")
	if c.Kind != table.KindNumber || !c.Cells[1].IsMissing() {
		t.Errorf("Expected the padded cell to be a missing number")
	}

	_, err = Parse(types.Blob{Name: "long.csv", Content: []byte("a,b\n1,2\n1,2,3\n")}, ParseOptions{})
	if !errors.Is(err, ErrTooManyFields) {
		t.Fatalf("Expected ErrTooManyFields for a row longer than the header, got %v", err)
	}
	var fileErr *FileError
	if !errors.As(err, &fileErr) || fileErr.Name != "long.csv" {
		t.Errorf("Expected FileError naming long.csv, got %v", err)
	}
}

func TestParse_CSVWithBOM(t *testing.T) {
	tbl, err := Parse(types.Blob{Name: "excel-export.csv", Content: []byte("\xEF\xBB\xBFa,b\n1,2\n")}, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := tbl.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %q; want [a b]", got)
	}
	if _, err := tbl.Project([]string{"a"}); err != nil {
		t.Errorf("Project(a) failed: %v", err)
	}

	out, err := Serialize(tbl, types.NewConversionRequest(types.Blob{Name: "excel-export.csv"}, types.FormatCSV))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out.Content); got != "a,b\n1,2\n" {
		t.Errorf("Unexpected CSV output %q", got)
	}
}

func TestParse_XLSX(t *testing.T) {
	content := buildXLSX(t, [][]interface{}{
		{"Name", "Hours", "Rate"},
		{"Alice", 8.5, 20},
		{},
		{"Bob", nil, 22.25},
	})

	tbl, err := Parse(types.Blob{Name: "Timesheet.XLSX", Content: content}, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := [][]string{
		{"Name", "Hours", "Rate"},
		{"Alice", "8.5", "20"},
		{"Bob", "", "22.25"},
	}
	if got := tbl.Records(-1); !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %v; want %v", got, want)
	}

	hours, _ := tbl.Column("Hours")
	if hours.Kind != table.KindNumber {
		t.Errorf("Expected Hours to be numeric")
	}
}

func TestParse_CustomNAValues(t *testing.T) {
	blob := types.Blob{Name: "x.csv", Content: []byte("v\n1\n-\n3\n")}
	tbl, err := Parse(blob, ParseOptions{NAValues: []string{"", "-"}})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tbl.Column("v")
	if v.Kind != table.KindNumber || !v.Cells[1].IsMissing() {
		t.Errorf("Expected '-' to be read as missing in a numeric column")
	}
}

func TestRoundTrip(t *testing.T) {
	source := []byte("id,name,score\n1,Alice,8.5\n2,\"Smith, Bob\",\n3,Carol,7\n")

	for _, target := range types.Formats {
		t.Run(target.Label(), func(t *testing.T) {
			in := types.Blob{Name: "people.csv", Content: source}
			tbl, err := Parse(in, ParseOptions{})
			if err != nil {
				t.Fatal(err)
			}

			req := types.NewConversionRequest(in, target)
			out, err := Serialize(tbl, req)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if out.Name != "people"+target.Ext() {
				t.Errorf("Expected output name people%s, got %s", target.Ext(), out.Name)
			}

			again, err := Parse(out, ParseOptions{})
			if err != nil {
				t.Fatalf("Parse of output failed: %v", err)
			}
			if !reflect.DeepEqual(again.Records(-1), tbl.Records(-1)) {
				t.Errorf("Round trip mismatch:\n got %v\nwant %v", again.Records(-1), tbl.Records(-1))
			}
		})
	}
}

func TestSerialize_CSVText(t *testing.T) {
	tbl := table.FromRecords([]string{"a", "b"}, [][]string{{"1", ""}, {"1", "4"}}, nil)
	if _, err := tbl.FillMissingNumeric(table.EmptyColumnLeave); err != nil {
		t.Fatal(err)
	}

	out, err := Serialize(tbl, types.NewConversionRequest(types.Blob{Name: "in.xlsx"}, types.FormatCSV))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out.Content); got != "a,b\n1,4\n1,4\n" {
		t.Errorf("Unexpected CSV output %q", got)
	}
}

func TestSerialize_ExcelWithChart(t *testing.T) {
	tbl := table.FromRecords(
		[]string{"name", "x", "y"},
		[][]string{{"a", "1", "2"}, {"b", "3", ""}},
		nil,
	)
	req := types.NewConversionRequest(types.Blob{Name: "chart.csv"}, types.FormatExcel)
	req.EmbedChart = true

	out, err := Serialize(tbl, req)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out.Content))
	if err != nil {
		t.Fatalf("Output is not a workbook: %v", err)
	}
	defer f.Close()

	val, _ := f.GetCellValue("Sheet1", "B3")
	if val != "3" {
		t.Errorf("Expected B3 = 3, got %q", val)
	}
	val, _ = f.GetCellValue("Sheet1", "C3")
	if val != "" {
		t.Errorf("Expected C3 to be blank, got %q", val)
	}

	if got := chartSeries(t, out.Content); got != 2 {
		t.Errorf("Expected a chart with 2 series, got %d", got)
	}
}

// chartSeries counts the series of the first chart part in a workbook, or
// returns -1 when the workbook has no chart.
func chartSeries(t *testing.T, content []byte) int {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("Output is not a zip archive: %v", err)
	}
	for _, file := range zr.File {
		if file.Name != "xl/charts/chart1.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return strings.Count(string(body), "<c:ser>")
	}
	return -1
}

func TestSerialize_ExcelChartColumns(t *testing.T) {
	tbl := table.FromRecords(
		[]string{"w", "x", "y", "z"},
		[][]string{{"1", "2", "3", "4"}, {"5", "6", "7", "8"}},
		nil,
	)
	tests := []struct {
		name  string
		embed bool
		cols  int
		want  int
	}{
		{"Default", true, 0, table.DefaultChartColumns},
		{"Three", true, 3, 3},
		{"More than available", true, 10, 4},
		{"No chart", false, 3, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := types.NewConversionRequest(types.Blob{Name: "wide.csv"}, types.FormatExcel)
			req.EmbedChart = tt.embed
			req.ChartColumns = tt.cols

			out, err := Serialize(tbl, req)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if got := chartSeries(t, out.Content); got != tt.want {
				t.Errorf("Expected %d chart series, got %d", tt.want, got)
			}
		})
	}
}

func TestSerialize_ExcelNonFinite(t *testing.T) {
	in := types.Blob{Name: "inf.csv", Content: []byte("v\n1\ninf\n")}
	tbl, err := Parse(in, ParseOptions{})
	if err != nil {
		t.Fatal(err)
	}

	out, err := Serialize(tbl, types.NewConversionRequest(in, types.FormatExcel))
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	again, err := Parse(out, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse of output failed: %v", err)
	}
	want := [][]string{{"v"}, {"1"}, {"inf"}}
	if got := again.Records(-1); !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %v; want %v", got, want)
	}
}

func TestSerialize_ExcelInfiniteNumberAsText(t *testing.T) {
	tbl, err := table.New(&table.Column{
		Name:  "n",
		Kind:  table.KindNumber,
		Cells: []table.Cell{table.Number(1), table.Number(math.Inf(1))},
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := Serialize(tbl, types.NewConversionRequest(types.Blob{Name: "n.csv"}, types.FormatExcel))
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out.Content))
	if err != nil {
		t.Fatalf("Output is not a workbook: %v", err)
	}
	defer f.Close()

	typ, err := f.GetCellType("Sheet1", "A3")
	if err != nil {
		t.Fatal(err)
	}
	if typ != excelize.CellTypeSharedString && typ != excelize.CellTypeInlineString {
		t.Errorf("Expected A3 to be written as text, got cell type %v", typ)
	}
	if val, _ := f.GetCellValue("Sheet1", "A3"); val != "+Inf" {
		t.Errorf("Expected A3 = +Inf, got %q", val)
	}
}

func TestSerialize_UnsupportedTarget(t *testing.T) {
	tbl := table.FromRecords([]string{"a"}, nil, nil)
	_, err := Serialize(tbl, types.ConversionRequest{Target: "parquet", OutputName: "a.parquet"})
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("Expected ErrUnsupportedTarget, got %v", err)
	}
}

func TestWriteFile_DoesNotOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "input.csv")
	if err := os.WriteFile(inputFile, []byte("a\n1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	blob, err := ReadFile(inputFile)
	if err != nil {
		t.Fatal(err)
	}
	if blob.Size() != 4 {
		t.Errorf("Expected size 4, got %d", blob.Size())
	}

	out := types.Blob{Name: "input.csv", Content: []byte("a\n1\n")}

	first, err := WriteFile("", inputFile, out)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(first) != "input_converted.csv" {
		t.Errorf("Expected input_converted.csv, got %s", filepath.Base(first))
	}

	second, err := WriteFile("", inputFile, out)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(second) != "input_converted_2.csv" {
		t.Errorf("Expected input_converted_2.csv, got %s", filepath.Base(second))
	}

	outDir := filepath.Join(tmpDir, "out")
	third, err := WriteFile(outDir, inputFile, types.Blob{Name: "input.xlsx", Content: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	if third != filepath.Join(outDir, "input.xlsx") {
		t.Errorf("Unexpected path %s", third)
	}
}
