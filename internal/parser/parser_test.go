package parser

import (
	"testing"
)

const sampleFile = `.HODE
..TEGNSETT UTF-8
..SOSI-VERSJON 4.5
..TRANSPAR
...KOORDSYS 22
...ENHET 0.01
..OMRÅDE
...MIN-NØ 0 0
...MAX-NØ 200 200
.PUNKT 1:
..OBJTYPE Teststed
..NØ
12345 67890
.KURVE 3:
..NØ
0 0
100 0
100 100
.KURVE 4:
..NØ
0 0
100 100
.FLATE 10:
..OBJTYPE Testområde
..REF :3 :-4
..NØ
50 50
.SLUTT
`

func decodeSample(t *testing.T, opts ParseOptions) *Dataset {
	t.Helper()
	opts.Logger = testLogger()
	ds, err := Decode([]byte(sampleFile), opts)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return ds
}

func featureByID(ds *Dataset, id int64) *Feature {
	for i := range ds.Features {
		if ds.Features[i].ID == id {
			return &ds.Features[i]
		}
	}
	return nil
}

// TestDecode tests the full pipeline over a small file
func TestDecode(t *testing.T) {
	ds := decodeSample(t, DefaultParseOptions())

	if ds.Metadata.EPSG != 25832 {
		t.Errorf("Expected EPSG 25832, got %d", ds.Metadata.EPSG)
	}
	if len(ds.Features) != 4 {
		t.Fatalf("Expected 4 features, got %d", len(ds.Features))
	}
	if len(ds.Diagnostics) != 0 {
		t.Errorf("Expected no diagnostics, got %v", ds.Diagnostics)
	}

	point := featureByID(ds, 1)
	if point == nil || point.Geometry.Type != GeometryTypePoint {
		t.Fatalf("Expected point feature 1, got %+v", point)
	}
	if !closeTo(point.Geometry.Coordinates[0][0], 678.90) || !closeTo(point.Geometry.Coordinates[0][1], 123.45) {
		t.Errorf("Expected point (678.90, 123.45), got %v", point.Geometry.Coordinates[0])
	}
	if point.Attributes["OBJTYPE"] != "Teststed" {
		t.Errorf("Expected OBJTYPE Teststed, got %q", point.Attributes["OBJTYPE"])
	}

	curve := featureByID(ds, 3)
	if curve == nil || curve.Geometry.Type != GeometryTypeLineString {
		t.Fatalf("Expected linestring feature 3, got %+v", curve)
	}
	if len(curve.Geometry.Coordinates) != 3 {
		t.Errorf("Expected 3 curve points, got %d", len(curve.Geometry.Coordinates))
	}

	surface := featureByID(ds, 10)
	if surface == nil || surface.Geometry.Type != GeometryTypePolygon {
		t.Fatalf("Expected polygon feature 10, got %+v", surface)
	}
	if len(surface.Geometry.Coordinates) != 4 {
		t.Errorf("Expected 4 ring points, got %d", len(surface.Geometry.Coordinates))
	}
	if len(surface.Geometry.Holes) != 0 {
		t.Errorf("Expected no holes, got %d", len(surface.Geometry.Holes))
	}
}

// TestDecodeParallel tests that parallel segment parsing matches the
// serial result
func TestDecodeParallel(t *testing.T) {
	serial := decodeSample(t, DefaultParseOptions())

	opts := DefaultParseOptions()
	opts.Parallel = true
	parallel := decodeSample(t, opts)

	if len(parallel.Features) != len(serial.Features) {
		t.Fatalf("Expected %d features, got %d", len(serial.Features), len(parallel.Features))
	}
	for i := range serial.Features {
		if parallel.Features[i].ID != serial.Features[i].ID {
			t.Errorf("Feature %d: expected ID %d, got %d",
				i, serial.Features[i].ID, parallel.Features[i].ID)
		}
	}
}

// TestDecodeUnresolvedReference tests that a dangling surface reference
// drops only that surface
func TestDecodeUnresolvedReference(t *testing.T) {
	file := `.HODE
..TRANSPAR
...ENHET 1
.KURVE 1:
..NØ
0 0
5 5
.FLATE 2:
..REF :1 :99
.SLUTT
`
	ds, err := Decode([]byte(file), ParseOptions{Flatten3D: true, Logger: testLogger()})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if featureByID(ds, 2) != nil {
		t.Error("Expected surface 2 to be dropped")
	}
	if featureByID(ds, 1) == nil {
		t.Error("Expected curve 1 to survive")
	}
	if len(ds.Diagnostics) == 0 {
		t.Fatal("Expected a diagnostic for the dropped surface")
	}
	if ds.Diagnostics[0].ObjectID != 2 {
		t.Errorf("Expected diagnostic for object 2, got %+v", ds.Diagnostics[0])
	}
}

// TestDecodeDuplicateID tests first-wins handling of duplicate serial
// numbers
func TestDecodeDuplicateID(t *testing.T) {
	file := `.HODE
..TRANSPAR
...ENHET 1
.PUNKT 7:
..NØ
1 1
.PUNKT 7:
..NØ
2 2
.SLUTT
`
	ds, err := Decode([]byte(file), ParseOptions{Flatten3D: true, Logger: testLogger()})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(ds.Diagnostics) != 1 {
		t.Errorf("Expected one duplicate diagnostic, got %v", ds.Diagnostics)
	}
}

// TestDecodeUnknownKind tests exclusion and opt-in retention of
// unrecognized object kinds
func TestDecodeUnknownKind(t *testing.T) {
	file := `.HODE
.SVERM 5:
..OBJTYPE Punktsky
.SLUTT
`
	ds, err := Decode([]byte(file), ParseOptions{Flatten3D: true, Logger: testLogger()})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(ds.Features) != 0 {
		t.Errorf("Expected unknown kind excluded, got %d features", len(ds.Features))
	}
	if len(ds.Diagnostics) != 1 {
		t.Errorf("Expected one diagnostic, got %v", ds.Diagnostics)
	}

	ds, err = Decode([]byte(file), ParseOptions{Flatten3D: true, KeepUnknownKinds: true, Logger: testLogger()})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(ds.Features) != 1 {
		t.Fatalf("Expected retained unknown feature, got %d", len(ds.Features))
	}
	if ds.Features[0].Kind != "SVERM" {
		t.Errorf("Expected kind SVERM, got %s", ds.Features[0].Kind)
	}
}

// TestDecodeMissingUnitScale tests the warn-and-default path against the
// strict option
func TestDecodeMissingUnitScale(t *testing.T) {
	file := `.HODE
.PUNKT 1:
..NØ
100 200
.SLUTT
`
	ds, err := Decode([]byte(file), ParseOptions{Flatten3D: true, Logger: testLogger()})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if ds.Metadata.UnitScale != 1.0 {
		t.Errorf("Expected assumed unit scale 1.0, got %v", ds.Metadata.UnitScale)
	}

	_, err = Decode([]byte(file), ParseOptions{Flatten3D: true, RequireUnitScale: true, Logger: testLogger()})
	if err == nil {
		t.Fatal("Expected error with RequireUnitScale")
	}
}
