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

	// Count features per OBJTYPE
	counts := make(map[string]int)
	for _, feature := range dataset.Features() {
		objtype, ok := feature.Attribute("OBJTYPE")
		if !ok {
			objtype = "(none)"
		}
		counts[objtype]++
	}

	fmt.Println("Features per object type:")
	for objtype, n := range counts {
		fmt.Printf("  %-30s %d\n", objtype, n)
	}

	// Inspect all attributes of the first feature
	if dataset.FeatureCount() > 0 {
		first := dataset.Features()[0]
		fmt.Printf("\nAttributes of %s %d:\n", first.Kind(), first.ID())
		for key, value := range first.Attributes() {
			fmt.Printf("  %s = %s\n", key, value)
		}
	}
}
