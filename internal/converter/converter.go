package converter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/datasweep/internal/table"
	"github.com/nconklindev/datasweep/internal/types"

	"github.com/xuri/excelize/v2"
)

const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
)

// SupportedExts are the input extensions Parse accepts.
var SupportedExts = []string{ExtCSV, ExtXLSX}

type ParseOptions struct {
	// NAValues are read as missing cells. Nil means table.DefaultNAValues.
	NAValues []string
}

// Parse reads a blob into a table, choosing the reader by extension. The
// first row is always the header.
func Parse(blob types.Blob, opts ParseOptions) (*table.Table, error) {
	ext := blob.Ext()

	var (
		records [][]string
		err     error
	)
	switch ext {
	case ExtCSV:
		records, err = readCSVData(blob.Content)
	case ExtXLSX:
		records, err = readXLSXData(blob.Content)
	default:
		return nil, &FileError{Name: blob.Name, Op: "parse", Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}
	if err != nil {
		return nil, &FileError{Name: blob.Name, Op: "parse", Err: err}
	}

	if len(records) == 0 {
		return nil, &FileError{Name: blob.Name, Op: "parse", Err: ErrEmptyInput}
	}

	return table.FromRecords(records[0], records[1:], opts.NAValues), nil
}

var utf8BOM = []byte("\xEF\xBB\xBF")

// readCSVData returns every record of a CSV file. Rows shorter than the
// header are kept and padded later; rows longer than it are an error.
func readCSVData(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}
	width := len(records[0])
	for i, record := range records[1:] {
		if len(record) > width {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrTooManyFields, i+1, len(record), width)
		}
	}
	return records, nil
}

// readXLSXData returns the raw cell values of the first sheet, skipping rows
// that are entirely blank.
func readXLSXData(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		records = append(records, row)
	}
	return records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Serialize encodes the table in the requested format, headers first.
func Serialize(tbl *table.Table, req types.ConversionRequest) (types.Blob, error) {
	var (
		content []byte
		err     error
	)
	switch req.Target {
	case types.FormatCSV:
		content, err = writeCSV(tbl)
	case types.FormatExcel:
		content, err = writeXLSX(tbl, req)
	default:
		return types.Blob{}, &FileError{Name: req.OutputName, Op: "serialize", Err: fmt.Errorf("%w: %q", ErrUnsupportedTarget, req.Target)}
	}
	if err != nil {
		return types.Blob{}, &FileError{Name: req.OutputName, Op: "serialize", Err: err}
	}
	return types.Blob{Name: req.OutputName, Content: content}, nil
}

func writeCSV(tbl *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(tbl.Records(-1)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(tbl *table.Table, req types.ConversionRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)

	header := make([]interface{}, 0, tbl.NumCols())
	for _, name := range tbl.Names() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	cols := tbl.Columns()
	for r := 0; r < tbl.NumRows(); r++ {
		row := make([]interface{}, len(cols))
		for c, col := range cols {
			cell := col.Cells[r]
			switch cell.Kind {
			case table.CellNumber:
				if math.IsInf(cell.Num, 0) || math.IsNaN(cell.Num) {
					row[c] = cell.String()
					break
				}
				row[c] = cell.Num
			case table.CellText:
				row[c] = cell.Text
			default:
				row[c] = nil
			}
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, start, &row); err != nil {
			return nil, err
		}
	}

	if req.EmbedChart {
		if err := addChart(f, sheetName, tbl, req.ChartColumns); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// addChart places a column chart of the table's chart series to the right of
// the data, one series per numeric column up to maxCols. Tables without
// numeric columns or rows get no chart.
func addChart(f *excelize.File, sheetName string, tbl *table.Table, maxCols int) error {
	ch := tbl.Chart(maxCols)
	if ch.Empty() || tbl.NumRows() == 0 {
		return nil
	}

	position := make(map[string]int, tbl.NumCols())
	for i, name := range tbl.Names() {
		position[name] = i + 1
	}

	var series []excelize.ChartSeries
	for _, s := range ch.Series {
		col, err := excelize.ColumnNumberToName(position[s.Name])
		if err != nil {
			return err
		}
		series = append(series, excelize.ChartSeries{
			Name:   fmt.Sprintf("%s!$%s$1", sheetName, col),
			Values: fmt.Sprintf("%s!$%s$2:$%s$%d", sheetName, col, col, tbl.NumRows()+1),
		})
	}

	anchor, err := excelize.CoordinatesToCellName(tbl.NumCols()+2, 1)
	if err != nil {
		return err
	}
	return f.AddChart(sheetName, anchor, &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Data Visualization"}},
	})
}

// ReadFile loads a file from disk as a blob named by its path.
func ReadFile(path string) (types.Blob, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Blob{}, &FileError{Name: path, Op: "read", Err: err}
	}
	return types.Blob{Name: path, Content: content}, nil
}

// OutputPath picks where an output blob for inputFile is written. An empty
// dir means next to the input. Existing files are never overwritten: the
// stem gets a "_converted" suffix, then a counter.
func OutputPath(dir, inputFile, outputName string) (string, error) {
	if dir == "" {
		dir = filepath.Dir(inputFile)
	}
	ext := filepath.Ext(outputName)
	base := strings.TrimSuffix(outputName, ext)

	candidate := filepath.Join(dir, outputName)
	for i := 1; ; i++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		suffix := "_converted"
		if i > 1 {
			suffix = fmt.Sprintf("_converted_%d", i)
		}
		candidate = filepath.Join(dir, base+suffix+ext)
	}
}

// WriteFile writes an output blob for inputFile into dir and returns its path.
func WriteFile(dir, inputFile string, out types.Blob) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", &FileError{Name: out.Name, Op: "write", Err: err}
		}
	}
	path, err := OutputPath(dir, inputFile, out.Name)
	if err != nil {
		return "", &FileError{Name: out.Name, Op: "write", Err: err}
	}
	if err := os.WriteFile(path, out.Content, 0644); err != nil {
		return "", &FileError{Name: out.Name, Op: "write", Err: err}
	}
	return path, nil
}
