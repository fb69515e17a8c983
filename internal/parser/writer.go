package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Encode writes a dataset back out as SOSI text in the dataset's declared
// character set. Coordinates are converted to fixed-point raw values with
// the metadata's unit scale and origin; polygon rings become synthesized
// KURVE records referenced from their FLATE.
func Encode(ds *Dataset, w io.Writer) error {
	meta := ds.Metadata
	if meta == nil {
		meta = defaultMetadata()
	}

	enc := newEncoder(meta)
	enc.writeHeader(ds)
	if err := enc.writeFeatures(ds.Features); err != nil {
		return err
	}
	enc.line(".SLUTT")

	raw, err := encodeAs(enc.buf.String(), meta.Charset)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// EncodeFile writes a dataset to a file.
func EncodeFile(ds *Dataset, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer f.Close()
	return Encode(ds, f)
}

type encoder struct {
	meta   *Metadata
	buf    strings.Builder
	nextID int64
}

func newEncoder(meta *Metadata) *encoder {
	return &encoder{meta: meta, nextID: 1}
}

func (e *encoder) line(s string) {
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

func (e *encoder) linef(format string, args ...interface{}) {
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *encoder) writeHeader(ds *Dataset) {
	m := e.meta

	e.line(".HODE")
	e.linef("..TEGNSETT %s", m.Charset)
	if m.SOSIVersion != "" {
		e.linef("..SOSI-VERSJON %s", m.SOSIVersion)
	}
	if m.SOSILevel != "" {
		e.linef("..SOSI-NIVÅ %s", m.SOSILevel)
	}
	if m.ObjectCatalog != "" {
		e.linef("..OBJEKTKATALOG %s", m.ObjectCatalog)
	}

	e.line("..TRANSPAR")
	if m.Koordsys != 0 {
		e.linef("...KOORDSYS %d", m.Koordsys)
	}
	if m.OriginN != 0 || m.OriginE != 0 {
		e.linef("...ORIGO-NØ %s %s", formatReal(m.OriginN), formatReal(m.OriginE))
	}
	e.linef("...ENHET %s", formatReal(m.UnitScale))
	if m.VertDatum != "" {
		e.linef("...VERT-DATUM %s", m.VertDatum)
	}

	bounds := m.DeclaredBounds
	if bounds == nil {
		bounds = computeBounds(ds.Features)
	}
	if bounds != nil {
		e.line("..OMRÅDE")
		e.linef("...MIN-NØ %s %s", formatReal(bounds.MinN), formatReal(bounds.MinE))
		e.linef("...MAX-NØ %s %s", formatReal(bounds.MaxN), formatReal(bounds.MaxE))
	}
}

// writeFeatures emits every feature as one or more object records.
// Synthesized curve identifiers start above the highest feature identifier
// so they never collide with real serial numbers.
func (e *encoder) writeFeatures(features []Feature) error {
	for _, f := range features {
		if f.ID >= e.nextID {
			e.nextID = f.ID + 1
		}
	}

	for _, f := range features {
		id := f.ID
		if id == 0 {
			id = e.nextID
			e.nextID++
		}

		switch f.Geometry.Type {
		case GeometryTypePoint:
			marker := "PUNKT"
			if f.Kind == "TEKST" {
				marker = "TEKST"
			}
			e.linef(".%s %d:", marker, id)
			e.writeAttributes(f.Attributes)
			e.writeCoordinates(f.Geometry.Coordinates)
		case GeometryTypeLineString:
			e.linef(".KURVE %d:", id)
			e.writeAttributes(f.Attributes)
			e.writeCoordinates(f.Geometry.Coordinates)
		case GeometryTypePolygon:
			e.writeSurface(id, &f)
		default:
			if len(f.Geometry.Coordinates) > 0 {
				return &ErrInvalidGeometry{
					Type:   f.Geometry.Type,
					Reason: "cannot encode geometry type",
				}
			}
			// Geometry-less record, attributes only.
			e.linef(".%s %d:", f.Kind, id)
			e.writeAttributes(f.Attributes)
		}
	}
	return nil
}

// writeSurface emits a polygon as synthesized KURVE records plus the FLATE
// that references them. Holes go into a parenthesised reference group.
func (e *encoder) writeSurface(id int64, f *Feature) {
	outerID := e.nextID
	e.nextID++
	e.linef(".KURVE %d:", outerID)
	e.writeCoordinates(f.Geometry.Coordinates)

	holeIDs := make([]int64, 0, len(f.Geometry.Holes))
	for _, hole := range f.Geometry.Holes {
		holeID := e.nextID
		e.nextID++
		holeIDs = append(holeIDs, holeID)
		e.linef(".KURVE %d:", holeID)
		e.writeCoordinates(hole)
	}

	e.linef(".FLATE %d:", id)
	e.writeAttributes(f.Attributes)

	ref := fmt.Sprintf("..REF :%d", outerID)
	for _, holeID := range holeIDs {
		ref += fmt.Sprintf(" (:%d)", holeID)
	}
	e.line(ref)
}

// writeAttributes emits attribute lines in sorted key order so output is
// deterministic for identical input.
func (e *encoder) writeAttributes(attrs map[string]string) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if attrs[k] == "" {
			e.linef("..%s", k)
			continue
		}
		e.linef("..%s %s", k, attrs[k])
	}
}

// writeCoordinates converts real-world tuples back to raw fixed-point
// values. Input tuples are (easting, northing[, height]); file order is
// north first.
func (e *encoder) writeCoordinates(coords [][]float64) {
	if len(coords) == 0 {
		return
	}

	marker := "..NØ"
	if len(coords[0]) >= 3 {
		marker = "..NØH"
	}
	e.line(marker)

	for _, c := range coords {
		n := e.rawValue(c[1], e.meta.OriginN)
		east := e.rawValue(c[0], e.meta.OriginE)
		if len(c) >= 3 {
			h := e.rawValue(c[2], 0)
			e.linef("%d %d %d", n, east, h)
			continue
		}
		e.linef("%d %d", n, east)
	}
}

// rawValue converts a real coordinate back to its fixed-point form:
// raw = round((real - origin) / scale).
func (e *encoder) rawValue(real, origin float64) int64 {
	return int64(math.Round((real - origin) / e.meta.UnitScale))
}

func formatReal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// computeBounds derives the dataset extent from feature coordinates when
// the header declared none. Nil when no feature carries coordinates.
func computeBounds(features []Feature) *Bounds {
	var b *Bounds
	visit := func(c []float64) {
		n, east := c[1], c[0]
		if b == nil {
			b = &Bounds{MinN: n, MinE: east, MaxN: n, MaxE: east}
			return
		}
		b.MinN = math.Min(b.MinN, n)
		b.MinE = math.Min(b.MinE, east)
		b.MaxN = math.Max(b.MaxN, n)
		b.MaxE = math.Max(b.MaxE, east)
	}

	for _, f := range features {
		for _, c := range f.Geometry.Coordinates {
			visit(c)
		}
		for _, hole := range f.Geometry.Holes {
			for _, c := range hole {
				visit(c)
			}
		}
	}
	return b
}
