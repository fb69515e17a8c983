package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jesperfjellin/sosilogikk/pkg/sosi"
)

func safeRead(path string) (*sosi.Dataset, error) {
	reader := sosi.NewReader()

	dataset, err := reader.Read(path)
	if err != nil {
		// Check if file exists
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("SOSI file not found: %s", path)
		}

		// Character set failures are the only other fatal read error;
		// everything else surfaces as diagnostics on the dataset.
		log.Printf("Failed to read %s: %v", path, err)
		return nil, err
	}

	// Per-object problems never abort the read. Dropped surfaces,
	// skipped lines and tolerance joins are all reported here.
	for _, diag := range dataset.Diagnostics() {
		log.Printf("Warning: %s %d: %s", diag.Kind, diag.ObjectID, diag.Reason)
	}

	if dataset.FeatureCount() == 0 {
		log.Printf("Warning: %s contains no features", path)
	}
	if dataset.EPSG() == 0 {
		log.Printf("Warning: %s declares no usable coordinate system", path)
	}

	return dataset, nil
}

func main() {
	dataset, err := safeRead("Arealdekke.sos")
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}

	fmt.Printf("Successfully loaded %d features\n", dataset.FeatureCount())

	// Try to read a non-existent file
	_, err = safeRead("NONEXISTENT.sos")
	if err != nil {
		log.Printf("Expected error: %v", err)
	}
}
