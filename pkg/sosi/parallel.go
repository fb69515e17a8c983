package sosi

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// LoadOptions controls multi-file loading behavior and error handling.
type LoadOptions struct {
	// Read configures how each individual file is decoded.
	Read ReadOptions

	// Parallel enables concurrent file loading with a worker pool.
	Parallel bool

	// Workers specifies the number of loader goroutines.
	// If 0, defaults to runtime.NumCPU(). Only used when Parallel is true.
	Workers int

	// SkipErrors causes loading to continue when individual files fail.
	// Failed files are skipped and their errors collected.
	// When false, the first error stops loading and is returned.
	SkipErrors bool

	// Progress is an optional callback invoked after each file finishes,
	// successfully or not. Parameters are (loaded, total).
	Progress func(loaded, total int)

	// ErrorLog is an optional writer for per-file error details.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns load options with sensible defaults.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Read:       DefaultReadOptions(),
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// ReadFiles loads multiple SOSI files, in parallel when enabled.
//
// Results keep the order of the input paths; failed files leave a nil
// entry when SkipErrors is set. Municipalities commonly deliver FKB data
// as one file per theme, so loading a directory's worth of files at once
// is the normal bulk case.
//
// Example:
//
//	paths := []string{"Arealdekke.sos", "Veg.sos", "Bygning.sos"}
//	datasets, errs := sosi.ReadFiles(paths, sosi.DefaultLoadOptions())
//	if len(errs) > 0 {
//	    fmt.Printf("skipped %d files\n", len(errs))
//	}
func ReadFiles(paths []string, opts LoadOptions) ([]*Dataset, []error) {
	if len(paths) == 0 {
		return nil, nil
	}

	reader := NewReader()

	if !opts.Parallel {
		return readFilesSerial(paths, reader, opts)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	datasets := make([]*Dataset, len(paths))
	fileErrs := make([]error, len(paths))
	jobs := make(chan int, len(paths))

	var loaded int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				ds, err := reader.ReadWithOptions(paths[idx], opts.Read)
				datasets[idx] = ds
				fileErrs[idx] = err

				mu.Lock()
				loaded++
				done := loaded
				mu.Unlock()
				if opts.Progress != nil {
					opts.Progress(done, len(paths))
				}
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return collectResults(paths, datasets, fileErrs, opts)
}

func readFilesSerial(paths []string, reader Reader, opts LoadOptions) ([]*Dataset, []error) {
	datasets := make([]*Dataset, len(paths))
	fileErrs := make([]error, len(paths))

	for i, path := range paths {
		datasets[i], fileErrs[i] = reader.ReadWithOptions(path, opts.Read)
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths))
		}
		if fileErrs[i] != nil && !opts.SkipErrors {
			break
		}
	}

	return collectResults(paths, datasets, fileErrs, opts)
}

func collectResults(paths []string, datasets []*Dataset, fileErrs []error, opts LoadOptions) ([]*Dataset, []error) {
	var errs []error
	for i, err := range fileErrs {
		if err == nil {
			continue
		}
		wrapped := fmt.Errorf("%s: %w", paths[i], err)
		if opts.ErrorLog != nil {
			fmt.Fprintf(opts.ErrorLog, "failed to load %s: %v\n", paths[i], err)
		}
		if !opts.SkipErrors {
			return nil, []error{wrapped}
		}
		errs = append(errs, wrapped)
	}
	return datasets, errs
}

// Merge combines several datasets into one.
//
// Header metadata is taken from the first non-nil dataset; later datasets
// must agree on the EPSG code or Merge fails, since coordinates are never
// reprojected. Feature serial numbers are renumbered when they collide
// across inputs.
func Merge(datasets ...*Dataset) (*Dataset, error) {
	var merged *Dataset
	seen := make(map[int64]bool)
	var nextID int64 = 1

	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		if merged == nil {
			copied := *ds
			copied.features = nil
			copied.spatialIndex = nil
			copied.diagnostics = append([]Diagnostic(nil), ds.diagnostics...)
			merged = &copied
		} else {
			if ds.epsg != merged.epsg {
				return nil, fmt.Errorf("cannot merge EPSG %d dataset into EPSG %d", ds.epsg, merged.epsg)
			}
			merged.bounds.Expand(ds.bounds)
			merged.diagnostics = append(merged.diagnostics, ds.diagnostics...)
		}

		for _, f := range ds.features {
			if f.id == 0 || seen[f.id] {
				for seen[nextID] {
					nextID++
				}
				f.id = nextID
			}
			seen[f.id] = true
			merged.features = append(merged.features, f)
		}
	}

	if merged == nil {
		return nil, fmt.Errorf("no datasets to merge")
	}

	merged.buildSpatialIndex(false)
	return merged, nil
}
