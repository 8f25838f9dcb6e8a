package exporter

import (
	"fmt"
	"sort"

	"gexcli/internal/config"
	"gexcli/pkg/contracts/domain"
)

// GammaExporter handles analytics report generation
type GammaExporter struct {
	csvWriter *CSVWriter
}

// NewGammaExporter creates a new analytics exporter
func NewGammaExporter(paths *config.Paths) *GammaExporter {
	return &GammaExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportStrikeBuckets writes per-strike gamma aggregates to a CSV file
func (g *GammaExporter) ExportStrikeBuckets(buckets []domain.StrikeGamma, outputPath string) error {
	sorted := make([]domain.StrikeGamma, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Strike < sorted[j].Strike })

	var csvRecords [][]string
	for _, b := range sorted {
		csvRecords = append(csvRecords, []string{
			formatFloat(b.Strike),
			formatFloat(b.CallGamma),
			formatFloat(b.PutGamma),
			formatFloat(b.NetGamma),
			formatFloat(b.TotalGamma),
			formatInt(b.CallOI),
			formatInt(b.PutOI),
			formatCompact(b.NetGamma),
		})
	}

	headers := []string{
		"Strike", "CallGamma", "PutGamma", "NetGamma", "TotalGamma",
		"CallOI", "PutOI", "NetGammaDisplay",
	}

	if err := g.csvWriter.WriteSimpleCSV(outputPath, headers, csvRecords); err != nil {
		return fmt.Errorf("failed to write strike buckets: %w", err)
	}
	return nil
}

// ExportExpiryBuckets writes per-expiry gamma aggregates to a CSV file
func (g *GammaExporter) ExportExpiryBuckets(buckets []domain.ExpiryGamma, outputPath string) error {
	sorted := make([]domain.ExpiryGamma, len(buckets))
	copy(sorted, buckets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DaysToExpiry < sorted[j].DaysToExpiry })

	var csvRecords [][]string
	for _, b := range sorted {
		csvRecords = append(csvRecords, []string{
			b.Expiry,
			fmt.Sprintf("%d", b.DaysToExpiry),
			formatFloat(b.CallGamma),
			formatFloat(b.PutGamma),
			formatFloat(b.NetGamma),
			formatFloat(b.TotalGamma),
			formatInt(b.CallOI),
			formatInt(b.PutOI),
		})
	}

	headers := []string{
		"Expiry", "DaysToExpiry", "CallGamma", "PutGamma", "NetGamma",
		"TotalGamma", "CallOI", "PutOI",
	}

	if err := g.csvWriter.WriteSimpleCSV(outputPath, headers, csvRecords); err != nil {
		return fmt.Errorf("failed to write expiry buckets: %w", err)
	}
	return nil
}

// ExportKeyLevels writes classified key levels to a CSV file
func (g *GammaExporter) ExportKeyLevels(levels []domain.KeyLevel, outputPath string) error {
	var csvRecords [][]string
	for _, l := range levels {
		csvRecords = append(csvRecords, []string{
			formatFloat(l.Strike),
			formatFloat(l.NetGamma),
			formatInt(l.TotalOI),
			string(l.Type),
			l.Description,
		})
	}

	headers := []string{"Strike", "NetGamma", "TotalOI", "Type", "Description"}

	if err := g.csvWriter.WriteSimpleCSV(outputPath, headers, csvRecords); err != nil {
		return fmt.Errorf("failed to write key levels: %w", err)
	}
	return nil
}

// ExportSummary writes the dashboard summary as a single-row CSV file
func (g *GammaExporter) ExportSummary(summary domain.DashboardSummary, outputPath string) error {
	row := []string{
		summary.Symbol,
		formatFloat(summary.SpotPrice),
		formatFloat(summary.TotalGamma),
		formatFloat(summary.TotalNetGamma),
		formatFloat(summary.CallGammaTotal),
		formatFloat(summary.PutGammaTotal),
		formatInt(summary.TotalOpenInterest),
		fmt.Sprintf("%d", summary.UniqueStrikes),
		fmt.Sprintf("%d", summary.UniqueExpiries),
		optionalFloat(summary.TopPositiveStrike),
		optionalFloat(summary.TopNegativeStrike),
		optionalFloat(summary.GammaFlipLevel),
	}

	headers := []string{
		"Symbol", "SpotPrice", "TotalGamma", "TotalNetGamma", "CallGammaTotal",
		"PutGammaTotal", "TotalOpenInterest", "UniqueStrikes", "UniqueExpiries",
		"TopPositiveStrike", "TopNegativeStrike", "GammaFlipLevel",
	}

	if err := g.csvWriter.WriteSimpleCSV(outputPath, headers, [][]string{row}); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// ExportCurve writes sampled exposure curve points to a CSV file
func (g *GammaExporter) ExportCurve(points []domain.ExposurePoint, outputPath string) error {
	var csvRecords [][]string
	for _, p := range points {
		csvRecords = append(csvRecords, []string{
			formatFloat(p.SpotPrice),
			formatFloat(p.GEX),
			formatFloat(p.CallGEX),
			formatFloat(p.PutGEX),
		})
	}

	headers := []string{"SpotPrice", "GEX", "CallGEX", "PutGEX"}

	if err := g.csvWriter.WriteSimpleCSV(outputPath, headers, csvRecords); err != nil {
		return fmt.Errorf("failed to write exposure curve: %w", err)
	}
	return nil
}

// ExportRecordsStreaming writes normalized option records using streaming for
// large chains. Records are sorted by expiry then strike for stable output.
func (g *GammaExporter) ExportRecordsStreaming(records []domain.OptionRecord, outputPath string) error {
	sorted := make([]domain.OptionRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Expiry == sorted[j].Expiry {
			return sorted[i].Strike < sorted[j].Strike
		}
		return sorted[i].Expiry < sorted[j].Expiry
	})

	stream, err := g.csvWriter.CreateStreamWriter(outputPath, recordHeaders())
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for _, record := range sorted {
		if err := stream.WriteRecord(recordToCSVRow(record)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

// recordHeaders returns the CSV headers for normalized option records
func recordHeaders() []string {
	return []string{
		"Symbol", "Underlying", "Expiry", "Strike", "Type", "Delta", "Gamma",
		"Theta", "Vega", "IV", "OpenInterest", "Volume", "Last", "Bid", "Ask",
		"UnderlyingPrice",
	}
}

// recordToCSVRow converts a normalized option record to a CSV row
func recordToCSVRow(record domain.OptionRecord) []string {
	return []string{
		record.Symbol,
		record.Underlying,
		record.Expiry,
		formatFloat(record.Strike),
		string(record.OptionType),
		fmt.Sprintf("%.4f", record.Delta),
		fmt.Sprintf("%.6f", record.Gamma),
		fmt.Sprintf("%.4f", record.Theta),
		fmt.Sprintf("%.4f", record.Vega),
		fmt.Sprintf("%.4f", record.ImpliedVolatility),
		formatInt(record.OpenInterest),
		formatInt(record.Volume),
		formatFloat(record.Last),
		formatFloat(record.Bid),
		formatFloat(record.Ask),
		formatFloat(record.UnderlyingPrice),
	}
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
