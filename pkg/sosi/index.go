package sosi

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"

	"github.com/jesperfjellin/sosilogikk/internal/parser"
)

// FileIndex provides fast spatial queries over a directory of SOSI files.
//
// The index stores lightweight metadata for each file (declared extent,
// coordinate system, catalog version) read from the header only, and
// supports spatial filtering with an R-tree. This allows loading just the
// files that intersect a region of interest.
//
// Example:
//
//	idx, err := sosi.BuildIndexFromDir("/data/fkb")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	oslo := sosi.Bounds{
//	    MinE: 255000, MaxE: 275000,
//	    MinN: 6640000, MaxN: 6660000,
//	}
//	entries := idx.Query(oslo)
//	fmt.Printf("Found %d files covering the area\n", len(entries))
type FileIndex struct {
	entries []IndexEntry
	rtree   *rtreego.Rtree
}

// IndexEntry contains indexed metadata for a single SOSI file.
type IndexEntry struct {
	Path          string // Absolute path to the file
	Extent        Bounds // Declared ..OMRÅDE extent
	Koordsys      int    // SOSI coordinate system code
	EPSG          int    // Derived EPSG code, 0 when unmapped
	SOSIVersion   string
	ObjectCatalog string
}

// Bounds implements rtreego.Spatial.
func (e IndexEntry) Bounds() rtreego.Rect {
	point := rtreego.Point{e.Extent.MinE, e.Extent.MinN}

	width := e.Extent.MaxE - e.Extent.MinE
	height := e.Extent.MaxN - e.Extent.MinN
	const epsilon = 0.5
	if width < epsilon {
		width = epsilon
	}
	if height < epsilon {
		height = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{width, height})
	return rect
}

// BuildIndexFromDir walks a directory tree and indexes every SOSI file by
// its header metadata.
//
// Files without a declared ..OMRÅDE extent are indexed with zero bounds and
// only show up in queries touching the origin; files whose header cannot be
// decoded at all are skipped.
func BuildIndexFromDir(root string) (*FileIndex, error) {
	var entries []IndexEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".sos") {
			return nil
		}

		meta, err := parser.ReadMetadata(path, parser.ParseOptions{})
		if err != nil {
			// Unreadable file, leave it out of the index.
			return nil
		}

		entry := IndexEntry{
			Path:          path,
			Koordsys:      meta.Koordsys,
			EPSG:          meta.EPSG,
			SOSIVersion:   meta.SOSIVersion,
			ObjectCatalog: meta.ObjectCatalog,
		}
		if meta.DeclaredBounds != nil {
			entry.Extent = Bounds{
				MinE: meta.DeclaredBounds.MinE,
				MinN: meta.DeclaredBounds.MinN,
				MaxE: meta.DeclaredBounds.MaxE,
				MaxN: meta.DeclaredBounds.MaxN,
			}
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	idx := &FileIndex{entries: entries}
	if len(entries) > 0 {
		idx.rtree = rtreego.NewTree(2, 25, 50)
		for _, e := range entries {
			idx.rtree.Insert(e)
		}
	}
	return idx, nil
}

// Entries returns all indexed files sorted by path.
func (idx *FileIndex) Entries() []IndexEntry {
	return idx.entries
}

// Query returns the entries whose declared extent intersects the given
// bounds.
func (idx *FileIndex) Query(bounds Bounds) []IndexEntry {
	if idx.rtree == nil {
		return nil
	}

	point := rtreego.Point{bounds.MinE, bounds.MinN}
	lengths := []float64{
		bounds.MaxE - bounds.MinE,
		bounds.MaxN - bounds.MinN,
	}
	queryRect, _ := rtreego.NewRect(point, lengths)

	spatials := idx.rtree.SearchIntersect(queryRect)
	result := make([]IndexEntry, 0, len(spatials))
	for _, spatial := range spatials {
		result = append(result, spatial.(IndexEntry))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}

// LoadRegion indexes a directory, queries for files intersecting the given
// bounds, and loads the matches.
//
// This is the simplest way to read just the files covering an area from a
// larger delivery.
func LoadRegion(root string, bounds Bounds, opts LoadOptions) ([]*Dataset, []error) {
	idx, err := BuildIndexFromDir(root)
	if err != nil {
		return nil, []error{err}
	}

	entries := idx.Query(bounds)
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return ReadFiles(paths, opts)
}
