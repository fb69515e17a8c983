package main

import (
	"fmt"
	"log"

	"github.com/jesperfjellin/sosilogikk/pkg/sosi"
)

func main() {
	reader := sosi.NewReader()
	dataset, err := reader.Read("Arealdekke.sos")
	if err != nil {
		log.Fatal(err)
	}

	// Define a viewport in the dataset's projected coordinates,
	// here a 2x2 km square in UTM 32N (EPSG:25832).
	viewport := sosi.Bounds{
		MinE: 262000, MaxE: 264000,
		MinN: 6648000, MaxN: 6650000,
	}

	// Spatial query via the R-tree index, O(log n) in feature count.
	visible := dataset.FeaturesInBounds(viewport)

	fmt.Printf("Features in viewport: %d of %d\n", len(visible), dataset.FeatureCount())
	for _, feature := range visible {
		objtype, _ := feature.Attribute("OBJTYPE")
		fmt.Printf("  %s %d (%s): %s\n",
			feature.Kind(), feature.ID(),
			feature.Geometry().Type, objtype)
	}
}
