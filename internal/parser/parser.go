package parser

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
)

// ParseOptions configures decoding behavior.
type ParseOptions struct {
	// EncodingOverride forces a specific character set, skipping the
	// header-declared TEGNSETT re-decode. Empty means auto-detect.
	EncodingOverride string

	// Flatten3D drops the height component of NØH coordinates.
	// Default: true (2D output).
	Flatten3D bool

	// KeepUnknownKinds retains records of unrecognized object kinds as
	// geometry-less features instead of excluding them from output.
	KeepUnknownKinds bool

	// RequireUnitScale makes a missing ...ENHET header fatal when the file
	// contains coordinates. Default: false (assume 1.0 and warn).
	RequireUnitScale bool

	// ValidateGeometry runs structural validation on every assembled
	// geometry. Default: true.
	ValidateGeometry bool

	// Parallel parses object segments concurrently. Segment parsing is a
	// pure function of one segment's text, so the fan-out is safe; surface
	// resolution always waits for the complete record map.
	Parallel bool

	// Logger receives decode progress and skip diagnostics.
	// Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultParseOptions returns parse options with defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Flatten3D:        true,
		ValidateGeometry: true,
	}
}

// Feature is one decoded object: geometry plus the originating record's
// attributes. Features are never mutated after assembly.
type Feature struct {
	ID         int64
	Kind       string
	Geometry   Geometry
	Attributes map[string]string
}

// Dataset is the result of decoding one SOSI file.
type Dataset struct {
	Metadata    *Metadata
	Features    []Feature
	Diagnostics []Diagnostic
}

// DecodeFile reads and decodes a SOSI file.
func DecodeFile(filename string, opts ParseOptions) (*Dataset, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return Decode(raw, opts)
}

// Decode decodes raw SOSI bytes into a Dataset.
//
// The pipeline runs in fixed stages: charset resolution (two-pass when the
// header declares a different TEGNSETT than the fallback read), segment
// splitting, header parsing, record parsing, then geometry assembly.
// Record parsing may fan out across segments; assembly starts only after
// the full identifier map is built, and the map is read-only from then on.
func Decode(raw []byte, opts ParseOptions) (*Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	text, charset, err := decodeText(raw, opts.EncodingOverride, logger)
	if err != nil {
		return nil, err
	}

	headerSeg, objectSegs := splitSegments(text)
	meta := parseHeader(headerSeg, charset, logger)
	logger.Info("parsed SOSI header",
		"charset", meta.Charset,
		"unit_scale", meta.UnitScale,
		"koordsys", meta.Koordsys,
		"epsg", meta.EPSG,
	)

	records, diags := parseRecords(objectSegs, opts.Parallel)

	// Build-once identifier map. This is the fan-in barrier: every record
	// is registered before any surface resolution begins.
	byID := make(map[int64]*objectRecord, len(records))
	for _, rec := range records {
		if rec.ID == 0 {
			continue
		}
		if _, dup := byID[rec.ID]; dup {
			diags = append(diags, Diagnostic{
				ObjectID: rec.ID,
				Kind:     rec.Marker,
				Reason:   "duplicate serial number, keeping first record",
			})
			continue
		}
		byID[rec.ID] = rec
	}

	if !meta.UnitScaleDeclared && anyCoordinates(records) {
		if opts.RequireUnitScale {
			return nil, fmt.Errorf("file declares no ...ENHET value but contains coordinates")
		}
		logger.Warn("file declares no ...ENHET value, assuming unit scale 1.0")
	}

	asm := newAssembler(meta, byID, opts.Flatten3D)
	features := make([]Feature, 0, len(records))
	for _, rec := range records {
		if rec.Kind == KindUnknown {
			if opts.KeepUnknownKinds {
				features = append(features, Feature{
					ID:         rec.ID,
					Kind:       rec.Marker,
					Attributes: rec.Attributes,
				})
			} else {
				diags = append(diags, Diagnostic{
					ObjectID: rec.ID,
					Kind:     rec.Marker,
					Reason:   "unrecognized object kind, excluded from output",
				})
			}
			continue
		}

		geom, buildDiags, err := asm.build(rec)
		diags = append(diags, buildDiags...)
		if err != nil {
			// Partial-failure isolation: one object failing never aborts
			// the rest of the file.
			logger.Warn("skipping object", "id", rec.ID, "kind", rec.Marker, "error", err)
			diags = append(diags, Diagnostic{
				ObjectID: rec.ID,
				Kind:     rec.Marker,
				Reason:   err.Error(),
			})
			continue
		}

		if opts.ValidateGeometry {
			if err := ValidateGeometry(&geom); err != nil {
				logger.Warn("skipping object with invalid geometry", "id", rec.ID, "error", err)
				diags = append(diags, Diagnostic{
					ObjectID: rec.ID,
					Kind:     rec.Marker,
					Reason:   err.Error(),
				})
				continue
			}
		}

		features = append(features, Feature{
			ID:         rec.ID,
			Kind:       rec.Kind.String(),
			Geometry:   geom,
			Attributes: rec.Attributes,
		})
	}

	return &Dataset{
		Metadata:    meta,
		Features:    features,
		Diagnostics: diags,
	}, nil
}

// parseRecords parses all object segments, optionally fanning out over a
// worker pool. Results keep file order either way.
func parseRecords(segs []*segment, parallel bool) ([]*objectRecord, []Diagnostic) {
	if !parallel || len(segs) < 2 {
		var diags []Diagnostic
		records := make([]*objectRecord, 0, len(segs))
		for _, seg := range segs {
			rec, recDiags := parseObjectRecord(seg)
			records = append(records, rec)
			diags = append(diags, recDiags...)
		}
		return records, diags
	}

	workers := runtime.NumCPU()
	if workers > len(segs) {
		workers = len(segs)
	}

	type result struct {
		rec   *objectRecord
		diags []Diagnostic
	}
	results := make([]result, len(segs))
	jobs := make(chan int, len(segs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rec, diags := parseObjectRecord(segs[idx])
				results[idx] = result{rec: rec, diags: diags}
			}
		}()
	}
	for i := range segs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var diags []Diagnostic
	records := make([]*objectRecord, len(segs))
	for i, r := range results {
		records[i] = r.rec
		diags = append(diags, r.diags...)
	}
	return records, diags
}

func anyCoordinates(records []*objectRecord) bool {
	for _, rec := range records {
		if len(rec.Coords) > 0 {
			return true
		}
	}
	return false
}
