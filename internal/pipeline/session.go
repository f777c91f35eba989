// Package pipeline keeps the per-file state a user works on: the parsed
// table, the cleaning applied to it, the chosen columns and the output
// format. Every shell (TUI or CLI) drives files through a Session.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/nconklindev/datasweep/internal/config"
	"github.com/nconklindev/datasweep/internal/converter"
	"github.com/nconklindev/datasweep/internal/logging"
	"github.com/nconklindev/datasweep/internal/table"
	"github.com/nconklindev/datasweep/internal/telemetry"
	"github.com/nconklindev/datasweep/internal/types"
)

// ErrNoColumns indicates a conversion with every column deselected.
var ErrNoColumns = errors.New("no columns selected")

type Options struct {
	Parse        converter.ParseOptions
	EmptyColumn  table.EmptyColumnPolicy
	PreviewRows  int
	ChartColumns int
	EmbedChart   bool
	Target       types.Format
}

// OptionsFrom maps the loaded configuration onto pipeline options.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		Parse:        converter.ParseOptions{NAValues: cfg.Parse.NAValues},
		EmptyColumn:  cfg.EmptyColumnPolicy(),
		PreviewRows:  cfg.Preview.Rows,
		ChartColumns: cfg.Chart.MaxColumns,
		EmbedChart:   cfg.Chart.Embed,
		Target:       cfg.Target(),
	}
}

// Session is the state of one loaded file. Sessions are not safe for
// concurrent use; each is owned by whoever is driving that file.
type Session struct {
	ID     string
	Source types.Blob

	ShowClean bool
	ShowChart bool
	Target    types.Format
	Status    string

	table    *table.Table
	selected []string
	opts     Options
	log      *slog.Logger
}

// Open parses blob into a new session. index keeps IDs unique when two
// files in a batch share a name.
func Open(index int, blob types.Blob, opts Options) (*Session, error) {
	id := fmt.Sprintf("%d-%s", index, filepath.Base(blob.Name))
	log := logging.L().With("session", id, "file", blob.Name)

	tbl, err := converter.Parse(blob, opts.Parse)
	if err != nil {
		telemetry.FilesTotal.WithLabelValues(blob.Ext(), "error").Inc()
		log.Warn("parse failed", "err", err)
		return nil, err
	}
	telemetry.FilesTotal.WithLabelValues(blob.Ext(), "ok").Inc()
	log.Debug("parsed", "op", "parse", "rows", tbl.NumRows(), "columns", tbl.NumCols())

	target := opts.Target
	if target == "" {
		target = types.FormatCSV
	}
	return &Session{
		ID:       id,
		Source:   blob,
		Target:   target,
		table:    tbl,
		selected: tbl.Names(),
		opts:     opts,
		log:      log,
	}, nil
}

// Name is the base name of the source file.
func (s *Session) Name() string { return filepath.Base(s.Source.Name) }

// SizeKB is the source size in KiB.
func (s *Session) SizeKB() float64 { return float64(s.Source.Size()) / 1024 }

// Table is the working table with every cleaning step applied and all columns.
func (s *Session) Table() *table.Table { return s.table }

// Columns returns every column name of the working table.
func (s *Session) Columns() []string { return s.table.Names() }

func (s *Session) Selected() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

func (s *Session) IsSelected(name string) bool {
	for _, n := range s.selected {
		if n == name {
			return true
		}
	}
	return false
}

// SetSelected replaces the column selection, keeping the given order. An
// empty selection selects every column.
func (s *Session) SetSelected(names []string) error {
	if len(names) == 0 {
		s.selected = s.table.Names()
		return nil
	}
	if _, err := s.table.Project(names); err != nil {
		return err
	}
	s.selected = append([]string(nil), names...)
	return nil
}

// ToggleColumn flips one column in or out of the selection. Columns added
// back return to their table position.
func (s *Session) ToggleColumn(name string) {
	if _, ok := s.table.Column(name); !ok {
		return
	}
	if s.IsSelected(name) {
		kept := s.selected[:0:0]
		for _, n := range s.selected {
			if n != name {
				kept = append(kept, n)
			}
		}
		s.selected = kept
		return
	}
	var next []string
	for _, n := range s.table.Names() {
		if n == name || s.IsSelected(n) {
			next = append(next, n)
		}
	}
	s.selected = next
}

func (s *Session) RemoveDuplicates() int {
	removed := s.table.Deduplicate()
	telemetry.RowsRemoved.Add(float64(removed))
	s.Status = "Duplicates removed!"
	s.log.Debug("deduplicated", "op", "dedupe", "removed", removed, "rows", s.table.NumRows())
	return removed
}

func (s *Session) FillMissing() (table.FillResult, error) {
	res, err := s.table.FillMissingNumeric(s.opts.EmptyColumn)
	if err != nil {
		s.log.Warn("fill failed", "op", "fill", "err", err)
		return res, err
	}
	telemetry.CellsFilled.Add(float64(res.Cells))
	s.Status = "Missing values have been filled!"
	if len(res.Skipped) > 0 {
		s.Status = fmt.Sprintf("Missing values have been filled! (no values to average in %v)", res.Skipped)
	}
	s.log.Debug("filled", "op", "fill", "cells", res.Cells, "skipped", res.Skipped)
	return res, nil
}

// Projected is the working table reduced to the selected columns. With
// nothing selected it has no columns.
func (s *Session) Projected() (*table.Table, error) {
	if len(s.selected) == 0 {
		return table.New()
	}
	return s.table.Project(s.selected)
}

// Preview renders the header and the first preview rows of the projection.
func (s *Session) Preview() ([][]string, error) {
	tbl, err := s.Projected()
	if err != nil {
		return nil, err
	}
	return tbl.Records(s.opts.PreviewRows), nil
}

func (s *Session) Chart() (table.Chart, error) {
	tbl, err := s.Projected()
	if err != nil {
		return table.Chart{}, err
	}
	return tbl.Chart(s.opts.ChartColumns), nil
}

// ToggleTarget switches between the two output formats.
func (s *Session) ToggleTarget() {
	if s.Target == types.FormatCSV {
		s.Target = types.FormatExcel
	} else {
		s.Target = types.FormatCSV
	}
}

// Convert serializes the projection in the current target format.
func (s *Session) Convert() (types.Blob, types.ConversionRequest, error) {
	req := types.NewConversionRequest(s.Source, s.Target)
	req.EmbedChart = s.opts.EmbedChart
	req.ChartColumns = s.opts.ChartColumns

	if len(s.selected) == 0 {
		return types.Blob{}, req, ErrNoColumns
	}
	tbl, err := s.Projected()
	if err != nil {
		return types.Blob{}, req, err
	}
	out, err := converter.Serialize(tbl, req)
	if err != nil {
		return types.Blob{}, req, err
	}
	telemetry.Conversions.WithLabelValues(string(s.Target)).Inc()
	s.log.Debug("converted", "op", "serialize", "target", s.Target, "bytes", out.Size())
	return out, req, nil
}

// Save converts and writes the result into dir (next to the source when
// dir is empty).
func (s *Session) Save(dir string) (*types.ConversionResult, error) {
	out, req, err := s.Convert()
	if err != nil {
		return nil, err
	}
	path, err := converter.WriteFile(dir, s.Source.Name, out)
	if err != nil {
		return nil, err
	}
	s.Status = fmt.Sprintf("Saved %s as %s", s.Name(), s.Target.Label())
	s.log.Info("saved", "op", "write", "output", path)
	return &types.ConversionResult{
		InputFile:  s.Source.Name,
		OutputFile: path,
		Columns:    s.Selected(),
		Rows:       s.table.NumRows(),
		Target:     req.Target,
		MIMEType:   req.MIMEType,
		Bytes:      out.Size(),
	}, nil
}
