package main

import (
	"fmt"
	"log"

	"github.com/jesperfjellin/sosilogikk/pkg/sosi"
)

func main() {
	// Index every SOSI file under a delivery directory.
	// Only headers are read, so this is fast even for large deliveries.
	idx, err := sosi.BuildIndexFromDir("/data/fkb")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Indexed %d files\n", len(idx.Entries()))
	for _, entry := range idx.Entries() {
		fmt.Printf("  %s (EPSG:%d, %s)\n", entry.Path, entry.EPSG, entry.ObjectCatalog)
	}

	// Find the files covering central Oslo.
	oslo := sosi.Bounds{
		MinE: 255000, MaxE: 275000,
		MinN: 6640000, MaxN: 6660000,
	}
	matches := idx.Query(oslo)
	fmt.Printf("\nFiles covering the query area: %d\n", len(matches))

	// Or index, query and load in one call.
	datasets, errs := sosi.LoadRegion("/data/fkb", oslo, sosi.DefaultLoadOptions())
	if len(errs) > 0 {
		fmt.Printf("Skipped %d files due to errors\n", len(errs))
	}
	for _, ds := range datasets {
		if ds != nil {
			fmt.Printf("Loaded %d features\n", ds.FeatureCount())
		}
	}
}
