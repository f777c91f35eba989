package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output target for a conversion.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

const (
	MIMECSV   = "text/csv"
	MIMEExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Formats lists the supported targets in display order.
var Formats = []Format{FormatCSV, FormatExcel}

// ParseFormat accepts the names a user is likely to type for a target.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", ".csv":
		return FormatCSV, nil
	case "excel", "xlsx", ".xlsx":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unknown format %q (must be csv or excel)", s)
	}
}

// Ext returns the file extension written for the format, or "" if unknown.
func (f Format) Ext() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatExcel:
		return ".xlsx"
	}
	return ""
}

// MIME returns the content type for the format, or "" if unknown.
func (f Format) MIME() string {
	switch f {
	case FormatCSV:
		return MIMECSV
	case FormatExcel:
		return MIMEExcel
	}
	return ""
}

func (f Format) Label() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatExcel:
		return "Excel"
	}
	return string(f)
}

// Blob is a named file payload.
type Blob struct {
	Name    string
	Content []byte
}

func (b Blob) Size() int { return len(b.Content) }

// Ext returns the lower-cased extension of the blob name.
func (b Blob) Ext() string {
	return strings.ToLower(filepath.Ext(b.Name))
}

// Stem returns the base name without its extension.
func (b Blob) Stem() string {
	base := filepath.Base(b.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type ConversionRequest struct {
	Target       Format
	OutputName   string
	MIMEType     string
	// EmbedChart adds a native bar chart to Excel output.
	EmbedChart   bool
	// ChartColumns caps the chart series; zero or less means the default.
	ChartColumns int
}

// NewConversionRequest derives the output name and MIME type for source.
func NewConversionRequest(source Blob, target Format) ConversionRequest {
	return ConversionRequest{
		Target:     target,
		OutputName: source.Stem() + target.Ext(),
		MIMEType:   target.MIME(),
	}
}

type ConversionResult struct {
	InputFile  string
	OutputFile string
	Columns    []string
	Rows       int
	Target     Format
	MIMEType   string
	Bytes      int
}
