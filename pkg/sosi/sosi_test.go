package sosi

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFile = `.HODE
..TEGNSETT UTF-8
..SOSI-VERSJON 4.5
..TRANSPAR
...KOORDSYS 22
...ENHET 0.01
..OMRÅDE
...MIN-NØ 0 0
...MAX-NØ 200 200
.PUNKT 1:
..OBJTYPE Hydrant
..NØ
5000 10000
.KURVE 3:
..OBJTYPE Veglenke
..NØ
0 0
10000 0
10000 10000
.KURVE 4:
..NØ
0 0
10000 10000
.FLATE 10:
..OBJTYPE Innsjø
..REF :3 :-4
..NØ
5000 5000
.SLUTT
`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReaderRead(t *testing.T) {
	path := writeTestFile(t, "test.sos", testFile)

	reader := NewReader()
	ds, err := reader.Read(path)
	require.NoError(t, err)

	assert.Equal(t, 25832, ds.EPSG())
	assert.Equal(t, 22, ds.Koordsys())
	assert.Equal(t, "UTF-8", ds.Charset())
	assert.Equal(t, "4.5", ds.SOSIVersion())
	assert.InDelta(t, 0.01, ds.UnitScale(), 1e-12)
	assert.Equal(t, 4, ds.FeatureCount())
	assert.Empty(t, ds.Diagnostics())

	var point *Feature
	for i := range ds.Features() {
		if ds.Features()[i].ID() == 1 {
			point = &ds.Features()[i]
		}
	}
	require.NotNil(t, point)
	assert.Equal(t, "PUNKT", point.Kind())
	assert.Equal(t, GeometryTypePoint, point.Geometry().Type)
	assert.InDelta(t, 100.0, point.Geometry().Coordinates[0][0], 1e-9)
	assert.InDelta(t, 50.0, point.Geometry().Coordinates[0][1], 1e-9)

	objtype, ok := point.Attribute("OBJTYPE")
	require.True(t, ok)
	assert.Equal(t, "Hydrant", objtype)

	_, ok = point.Attribute("MISSING")
	assert.False(t, ok)
}

func TestFeaturesInBounds(t *testing.T) {
	path := writeTestFile(t, "test.sos", testFile)

	ds, err := NewReader().Read(path)
	require.NoError(t, err)

	// Around the point at (100, 50) only.
	near := ds.FeaturesInBounds(Bounds{MinE: 95, MaxE: 105, MinN: 45, MaxN: 55})
	found := false
	for _, f := range near {
		if f.ID() == 1 {
			found = true
		}
	}
	assert.True(t, found, "expected point feature in viewport")

	// Far away from everything.
	far := ds.FeaturesInBounds(Bounds{MinE: 5000, MaxE: 5100, MinN: 5000, MaxN: 5100})
	assert.Empty(t, far)

	// Whole extent.
	all := ds.FeaturesInBounds(ds.Bounds())
	assert.Len(t, all, 4)
}

func TestFeaturesInBoundsLinearFallback(t *testing.T) {
	ds := &Dataset{
		features: []Feature{
			{id: 1, kind: "PUNKT", geometry: Geometry{
				Type:        GeometryTypePoint,
				Coordinates: [][]float64{{10, 20}},
			}},
		},
	}

	hits := ds.FeaturesInBounds(Bounds{MinE: 0, MaxE: 15, MinN: 15, MaxN: 25})
	assert.Len(t, hits, 1)

	misses := ds.FeaturesInBounds(Bounds{MinE: 100, MaxE: 200, MinN: 100, MaxN: 200})
	assert.Empty(t, misses)
}

func TestDecodeReader(t *testing.T) {
	ds, err := Decode(strings.NewReader(testFile), DefaultReadOptions())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.FeatureCount())

	surface := findFeature(t, ds, 10)
	assert.Equal(t, "FLATE", surface.Kind())
	assert.Equal(t, GeometryTypePolygon, surface.Geometry().Type)
	assert.Len(t, surface.Geometry().Coordinates, 4)
	assert.Empty(t, surface.Geometry().Holes)
}

func TestWriteRoundTrip(t *testing.T) {
	ds, err := Decode(strings.NewReader(testFile), DefaultReadOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(ds, &buf))

	back, err := Decode(&buf, DefaultReadOptions())
	require.NoError(t, err)

	assert.Equal(t, ds.EPSG(), back.EPSG())
	for _, id := range []int64{1, 3, 10} {
		orig := findFeature(t, ds, id)
		got := findFeature(t, back, id)
		assert.Equal(t, orig.Geometry().Type, got.Geometry().Type, "feature %d", id)
		require.Len(t, got.Geometry().Coordinates, len(orig.Geometry().Coordinates), "feature %d", id)
		for i := range orig.Geometry().Coordinates {
			for c := range orig.Geometry().Coordinates[i] {
				assert.InDelta(t, orig.Geometry().Coordinates[i][c], got.Geometry().Coordinates[i][c], 1e-9)
			}
		}
	}
}

func TestWriteFile(t *testing.T) {
	ds, err := Decode(strings.NewReader(testFile), DefaultReadOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.sos")
	require.NoError(t, WriteFile(ds, path))

	back, err := NewReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, ds.FeatureCount()+1, back.FeatureCount(),
		"round trip adds the synthesized boundary curve")
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.sos", "b.sos"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(testFile), 0o644))
		paths = append(paths, path)
	}
	paths = append(paths, filepath.Join(dir, "missing.sos"))

	opts := DefaultLoadOptions()
	opts.Parallel = false
	var calls int
	opts.Progress = func(loaded, total int) {
		calls++
		assert.Equal(t, 3, total)
	}

	datasets, errs := ReadFiles(paths, opts)
	require.Len(t, datasets, 3)
	assert.NotNil(t, datasets[0])
	assert.NotNil(t, datasets[1])
	assert.Nil(t, datasets[2])
	assert.Len(t, errs, 1)
	assert.Equal(t, 3, calls)
}

func TestReadFilesFailFast(t *testing.T) {
	opts := DefaultLoadOptions()
	opts.Parallel = false
	opts.SkipErrors = false

	datasets, errs := ReadFiles([]string{"does-not-exist.sos"}, opts)
	assert.Nil(t, datasets)
	require.Len(t, errs, 1)
}

func TestMerge(t *testing.T) {
	a, err := Decode(strings.NewReader(testFile), DefaultReadOptions())
	require.NoError(t, err)
	b, err := Decode(strings.NewReader(testFile), DefaultReadOptions())
	require.NoError(t, err)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, a.FeatureCount()+b.FeatureCount(), merged.FeatureCount())

	seen := make(map[int64]bool)
	for _, f := range merged.Features() {
		assert.False(t, seen[f.ID()], "duplicate id %d after merge", f.ID())
		seen[f.ID()] = true
	}
}

func TestMergeEPSGMismatch(t *testing.T) {
	a, err := Decode(strings.NewReader(testFile), DefaultReadOptions())
	require.NoError(t, err)

	other := strings.Replace(testFile, "...KOORDSYS 22", "...KOORDSYS 23", 1)
	b, err := Decode(strings.NewReader(other), DefaultReadOptions())
	require.NoError(t, err)

	_, err = Merge(a, b)
	assert.Error(t, err)
}

func TestBuildIndexFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sos"), []byte(testFile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not sosi"), 0o644))

	idx, err := BuildIndexFromDir(dir)
	require.NoError(t, err)
	require.Len(t, idx.Entries(), 1)

	entry := idx.Entries()[0]
	assert.Equal(t, 25832, entry.EPSG)
	assert.Equal(t, Bounds{MinE: 0, MinN: 0, MaxE: 200, MaxN: 200}, entry.Extent)

	hits := idx.Query(Bounds{MinE: 50, MaxE: 60, MinN: 50, MaxN: 60})
	require.Len(t, hits, 1)
	assert.Equal(t, entry.Path, hits[0].Path)

	misses := idx.Query(Bounds{MinE: 900, MaxE: 950, MinN: 900, MaxN: 950})
	assert.Empty(t, misses)
}

func TestLoadRegion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sos"), []byte(testFile), 0o644))

	datasets, errs := LoadRegion(dir, Bounds{MinE: 0, MaxE: 200, MinN: 0, MaxN: 200}, DefaultLoadOptions())
	assert.Empty(t, errs)
	require.Len(t, datasets, 1)
	assert.Equal(t, 4, datasets[0].FeatureCount())
}

func findFeature(t *testing.T, ds *Dataset, id int64) *Feature {
	t.Helper()
	for i := range ds.Features() {
		if ds.Features()[i].ID() == id {
			return &ds.Features()[i]
		}
	}
	t.Fatalf("feature %d not found", id)
	return nil
}
