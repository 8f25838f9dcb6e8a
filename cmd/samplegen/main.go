// Command samplegen writes a synthetic option chain CSV for demos and tests.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gexcli/internal/samples"
)

func main() {
	out := flag.String("out", "sample_chain.csv", "output csv path")
	symbol := flag.String("symbol", "SPX", "underlying symbol")
	base := flag.Float64("base", 4500, "base price the strike ladder centers on")
	step := flag.Float64("step", 25, "strike spacing")
	strikes := flag.Int("strikes", 20, "strikes on each side of the base price")
	expiries := flag.Int("expiries", 3, "number of weekly expiries")
	seed := flag.Int64("seed", 0, "random seed (0 uses a time-based seed)")
	flag.Parse()

	opts := samples.DefaultOptions()
	opts.Underlying = *symbol
	opts.BasePrice = *base
	opts.StrikeStep = *step
	opts.StrikeCount = *strikes
	opts.ExpiryCount = *expiries
	opts.Seed = *seed

	csv := samples.GenerateCSV(opts)

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("Cannot create output directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	if err := os.WriteFile(*out, []byte(csv), 0644); err != nil {
		slog.Error("Failed to write sample chain", "path", *out, "error", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%d bytes, %d expiries, %d strikes per side)\n",
		*out, len(csv), *expiries, *strikes)
}
