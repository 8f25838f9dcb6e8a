// Command gexcsv parses an option chain file, computes gamma exposure
// analytics, and writes the CSV export set without starting the server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gexcli/internal/config"
	"gexcli/internal/exporter"
	"gexcli/internal/gamma"
	"gexcli/internal/files"
	"gexcli/internal/infrastructure"
	"gexcli/internal/ingest"
	"gexcli/internal/validation"
	"gexcli/pkg/contracts/domain"
)

func main() {
	input := flag.String("input", "", "chain file to parse (.csv, .txt, .xlsx), or a directory to pick the newest chain file from")
	outDir := flag.String("out", "", "output directory for exports (defaults to data/exports relative to executable)")
	spot := flag.Float64("spot", 0, "override the underlying spot price")
	levels := flag.Int("levels", 0, "number of key levels (defaults to configured value)")
	curveRange := flag.Float64("range", 0, "exposure curve range in percent of spot (defaults to configured value)")
	curveSteps := flag.Int("steps", 0, "exposure curve step count (defaults to configured value)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: gexcsv -input <chain file> [-out dir] [-spot price]")
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("gexcsv.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	analytics := cfg.Analytics
	if *levels > 0 {
		analytics.TopLevelsCount = *levels
	}
	if *curveRange > 0 {
		analytics.CurveRangePercent = *curveRange
	}
	if *curveSteps > 0 {
		analytics.CurveSteps = *curveSteps
	}

	logger.Info("Starting chain analysis",
		slog.String("input", *input),
		slog.Int("top_levels", analytics.TopLevelsCount))

	// A directory input means "use the newest chain file in there"
	if info, statErr := os.Stat(*input); statErr == nil && info.IsDir() {
		found, err := files.NewDiscovery(*input).FindChainFiles(".")
		if err != nil {
			logger.Error("Failed to scan input directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		latest, ok := files.GetLatestFile(found)
		if !ok {
			fmt.Fprintf(os.Stderr, "no chain files (.csv, .xlsx, .xls) found in %s\n", *input)
			os.Exit(1)
		}
		logger.Info("Selected newest chain file",
			slog.String("directory", *input),
			slog.String("file", latest.Name))
		*input = latest.Path
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateChainFile(*input); err != nil {
		logger.Error("Input validation failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	start := time.Now()
	result, err := parseFile(ingest.NewParser(logger), *input)
	if err != nil {
		logger.Error("Failed to parse chain file",
			slog.String("input", *input),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if len(result.Records) == 0 {
		logger.Error("No valid option records in input",
			slog.Int("rows", result.RowCount),
			slog.Int("errors", len(result.Errors)))
		for i, msg := range result.Errors {
			if i >= 5 {
				break
			}
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
		os.Exit(1)
	}

	records := result.Records
	underlyingPrice := records[0].UnderlyingPrice
	if *spot > 0 {
		underlyingPrice = *spot
	}

	byStrike := gamma.AggregateByStrike(records)
	byExpiry := gamma.AggregateByExpiry(records)
	summary := gamma.Summarize(records)
	keyLevels := gamma.KeyLevels(byStrike, analytics.TopLevelsCount)
	curve := gamma.ExposureCurve(records, underlyingPrice, analytics.CurveRangePercent, analytics.CurveSteps)

	logger.Info("Analysis complete",
		slog.String("symbol", summary.Symbol),
		slog.Int("records", len(records)),
		slog.Int("dropped_rows", result.RowCount-result.ValidRowCount),
		slog.Duration("duration", time.Since(start)))

	if *outDir == "" {
		*outDir = paths.ExportsDir
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Cannot use output directory",
			slog.String("path", *outDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	exp := exporter.NewGammaExporter(paths)
	exports := map[string]func(string) error{
		"gamma_summary.csv":   func(p string) error { return exp.ExportSummary(summary, p) },
		"gamma_by_strike.csv": func(p string) error { return exp.ExportStrikeBuckets(byStrike, p) },
		"gamma_by_expiry.csv": func(p string) error { return exp.ExportExpiryBuckets(byExpiry, p) },
		"key_levels.csv":      func(p string) error { return exp.ExportKeyLevels(keyLevels, p) },
		"exposure_curve.csv":  func(p string) error { return exp.ExportCurve(curve, p) },
		"option_records.csv":  func(p string) error { return exp.ExportRecordsStreaming(records, p) },
	}

	for name, write := range exports {
		path := filepath.Join(*outDir, name)
		if err := write(path); err != nil {
			logger.Error("Export failed",
				slog.String("file", name),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Wrote export", slog.String("path", path))
	}

	printSummary(summary, keyLevels)
}

// parseFile routes the input through the workbook or text parser by extension
func parseFile(parser *ingest.Parser, path string) (*domain.ParseResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return parser.ParseWorkbook(path)
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		return parser.Parse(string(content)), nil
	}
}

func printSummary(summary domain.DashboardSummary, keyLevels []domain.KeyLevel) {
	fmt.Printf("\n%s  spot %.2f\n", summary.Symbol, summary.SpotPrice)
	fmt.Printf("  total gamma      %.4g\n", summary.TotalGamma)
	fmt.Printf("  net gamma        %.4g\n", summary.TotalNetGamma)
	if summary.GammaFlipLevel != nil {
		fmt.Printf("  gamma flip       %.2f\n", *summary.GammaFlipLevel)
	}
	if summary.TopPositiveStrike != nil {
		fmt.Printf("  top call wall    %.2f\n", *summary.TopPositiveStrike)
	}
	if summary.TopNegativeStrike != nil {
		fmt.Printf("  top put wall     %.2f\n", *summary.TopNegativeStrike)
	}
	fmt.Printf("  open interest    %d across %d strikes, %d expiries\n",
		summary.TotalOpenInterest, summary.UniqueStrikes, summary.UniqueExpiries)

	if len(keyLevels) > 0 {
		fmt.Println("\n  key levels:")
		for _, level := range keyLevels {
			fmt.Printf("    %8.2f  %-12s net %.4g\n", level.Strike, level.Type, level.NetGamma)
		}
	}
	fmt.Println()
}
