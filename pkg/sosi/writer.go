package sosi

import (
	"fmt"
	"io"
	"os"

	"github.com/jesperfjellin/sosilogikk/internal/parser"
)

// Write serializes a dataset as SOSI text in its declared character set.
//
// Geometries are converted back to fixed-point coordinates with the
// dataset's unit scale and origin. Polygon features are written as a FLATE
// record referencing synthesized KURVE records, holes in a parenthesised
// reference group. Output from Write decodes back to the same features.
func Write(d *Dataset, w io.Writer) error {
	return parser.Encode(internalDataset(d), w)
}

// WriteFile serializes a dataset to a file.
func WriteFile(d *Dataset, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer f.Close()
	return Write(d, f)
}

func internalDataset(d *Dataset) *parser.Dataset {
	meta := &parser.Metadata{
		Charset:       d.charset,
		UnitScale:     d.unitScale,
		OriginE:       d.originE,
		OriginN:       d.originN,
		Koordsys:      d.koordsys,
		EPSG:          d.epsg,
		SOSIVersion:   d.sosiVersion,
		SOSILevel:     d.sosiLevel,
		ObjectCatalog: d.objectCatalog,
		VertDatum:     d.vertDatum,
	}
	if meta.Charset == "" {
		meta.Charset = "UTF-8"
	}
	if meta.UnitScale <= 0 {
		meta.UnitScale = 1.0
	}
	if d.bounds != (Bounds{}) {
		meta.DeclaredBounds = &parser.Bounds{
			MinE: d.bounds.MinE,
			MinN: d.bounds.MinN,
			MaxE: d.bounds.MaxE,
			MaxN: d.bounds.MaxN,
		}
	}

	features := make([]parser.Feature, len(d.features))
	for i, f := range d.features {
		features[i] = parser.Feature{
			ID:   f.id,
			Kind: f.kind,
			Geometry: parser.Geometry{
				Type:        parser.GeometryType(f.geometry.Type),
				Coordinates: f.geometry.Coordinates,
				Holes:       f.geometry.Holes,
			},
			Attributes: f.attributes,
		}
	}

	return &parser.Dataset{Metadata: meta, Features: features}
}
