package main

import (
	"fmt"
	"log"

	"github.com/jesperfjellin/sosilogikk/pkg/sosi"
)

func main() {
	// Create reader
	reader := sosi.NewReader()

	// Read SOSI file
	dataset, err := reader.Read("Arealdekke.sos")
	if err != nil {
		log.Fatal(err)
	}

	// Print dataset info
	fmt.Printf("SOSI version: %s\n", dataset.SOSIVersion())
	fmt.Printf("EPSG: %d\n", dataset.EPSG())
	fmt.Printf("Features: %d\n", dataset.FeatureCount())

	// Get dataset bounds
	bounds := dataset.Bounds()
	fmt.Printf("Bounds: [%.2f,%.2f] to [%.2f,%.2f]\n",
		bounds.MinE, bounds.MinN,
		bounds.MaxE, bounds.MaxN)
}
