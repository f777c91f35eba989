package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nconklindev/datasweep/internal/config"
	"github.com/nconklindev/datasweep/internal/logging"
	"github.com/nconklindev/datasweep/internal/pipeline"
	"github.com/nconklindev/datasweep/internal/telemetry"
	"github.com/nconklindev/datasweep/internal/types"
	"github.com/nconklindev/datasweep/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	outputDir  string

	target  string
	dedupe  bool
	fill    bool
	columns []string
	chart   bool
	preview bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "datasweep [files...]",
		Short:        "Clean, trim and convert CSV and Excel files",
		Long:         "datasweep loads CSV and XLSX files, removes duplicates, fills missing numbers,\nselects columns and converts between CSV and Excel.",
		Version:      fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", version, commit, date),
		SilenceUsage: true,
		RunE:         runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "out", "o", "", "Output directory (default: next to each input)")

	convertCmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert files without the interactive UI",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVar(&target, "to", "", "Target format: csv or excel (default from config)")
	convertCmd.Flags().BoolVar(&dedupe, "dedupe", false, "Remove duplicate rows")
	convertCmd.Flags().BoolVar(&fill, "fill", false, "Fill missing numeric values with the column mean")
	convertCmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to keep, in order (default: all)")
	convertCmd.Flags().BoolVar(&chart, "chart", false, "Embed a bar chart in Excel output")
	convertCmd.Flags().BoolVar(&preview, "preview", false, "Print the first rows of each result")
	rootCmd.AddCommand(convertCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if cfg.Metrics.Port > 0 {
		telemetry.Expose(cfg.Metrics.Port)
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	closer, err := logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, File: cfg.LogFile()})
	if err != nil {
		logging.Discard()
	}
	defer closer.Close()

	m := ui.InitialModel(pipeline.OptionsFrom(cfg), cfg.Output.Dir, args)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if target != "" {
		cfg.Output.Format = target
	}
	if chart {
		cfg.Chart.Embed = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	closer, err := logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}
	defer closer.Close()

	plan := pipeline.Plan{Dedupe: dedupe, Fill: fill, Columns: columns}
	results := pipeline.LoadFiles(args, 0, pipeline.OptionsFrom(cfg))

	failed := 0
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(out, "✗ %v\n", res.Err)
			continue
		}
		result, err := convertOne(res.Session, plan, cfg.Output.Dir)
		if err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s: %v\n", res.Name, err)
			continue
		}
		fmt.Fprintf(out, "✓ %s (%.2f KB) -> %s [%s, %d rows, %d bytes]\n",
			filepath.Base(result.InputFile), res.Session.SizeKB(), result.OutputFile,
			result.MIMEType, result.Rows, result.Bytes)
		if preview {
			if err := printPreview(cmd, res.Session); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(out, "All files processed: %d converted, %d failed\n", len(results)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func convertOne(s *pipeline.Session, plan pipeline.Plan, dir string) (*types.ConversionResult, error) {
	if err := plan.Apply(s); err != nil {
		return nil, err
	}
	return s.Save(dir)
}

func printPreview(cmd *cobra.Command, s *pipeline.Session) error {
	records, err := s.Preview()
	if err != nil {
		return err
	}
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(records[0]...).
		Rows(records[1:]...)
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
