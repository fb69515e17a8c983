package parser

// Bounds is the declared or computed extent of a dataset, in real-world
// units after scaling. SOSI declares extents north-first (MIN-NØ / MAX-NØ).
type Bounds struct {
	MinN float64
	MinE float64
	MaxN float64
	MaxE float64
}

// Metadata holds the global header values of one SOSI file. It is created
// once per file by the header parser and never mutated afterwards.
type Metadata struct {
	// Charset is the normalized TEGNSETT token the file was decoded with.
	Charset string
	// UnitScale is the ...ENHET factor: real value = origin + raw × UnitScale.
	UnitScale float64
	// UnitScaleDeclared reports whether ENHET was actually present in the
	// header, as opposed to the 1.0 default.
	UnitScaleDeclared bool
	// OriginN and OriginE are the ...ORIGO-NØ offsets added to scaled
	// coordinates. Zero when absent.
	OriginN float64
	OriginE float64
	// Koordsys is the ...KOORDSYS code, 0 when absent.
	Koordsys int
	// EPSG is the code derived from Koordsys, 0 when unmapped or absent.
	EPSG int
	// VertDatum, SOSIVersion, SOSILevel and ObjectCatalog are retained
	// verbatim for round-tripping; none affect decoding.
	VertDatum     string
	SOSIVersion   string
	SOSILevel     string
	ObjectCatalog string
	// DeclaredBounds is the ..OMRÅDE extent, nil when the header omits it.
	DeclaredBounds *Bounds
}

// defaultMetadata returns the metadata used when header keys are missing.
// ENHET defaults to 1.0 so that files without it still decode; the decoder
// warns when coordinates are later found without a declared scale.
func defaultMetadata() *Metadata {
	return &Metadata{
		Charset:   "UTF-8",
		UnitScale: 1.0,
	}
}
