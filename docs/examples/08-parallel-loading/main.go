package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jesperfjellin/sosilogikk/pkg/sosi"
)

func main() {
	// Collect every SOSI file in a delivery directory.
	paths, err := filepath.Glob("/data/fkb/*.sos")
	if err != nil || len(paths) == 0 {
		fmt.Println("no SOSI files found")
		return
	}

	// Load them with a worker pool and progress reporting.
	opts := sosi.DefaultLoadOptions()
	opts.Workers = 8
	opts.ErrorLog = os.Stderr
	opts.Progress = func(loaded, total int) {
		fmt.Printf("\rLoading: %d/%d (%.0f%%)",
			loaded, total, float64(loaded)/float64(total)*100)
	}

	datasets, errs := sosi.ReadFiles(paths, opts)
	fmt.Println()
	if len(errs) > 0 {
		fmt.Printf("Skipped %d files due to errors\n", len(errs))
	}

	// Combine everything into one dataset for cross-file queries.
	merged, err := sosi.Merge(datasets...)
	if err != nil {
		fmt.Printf("merge failed: %v\n", err)
		return
	}
	fmt.Printf("Merged %d features from %d files\n", merged.FeatureCount(), len(paths))
}
