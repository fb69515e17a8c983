package sosi

import "log/slog"

// ReadOptions configures reading behavior.
type ReadOptions struct {
	// Encoding forces a specific character set instead of honoring the
	// file's ..TEGNSETT declaration. Accepted values: "UTF-8", "ISO8859-1",
	// "ISO8859-10", "ANSI", "DOSN8". Empty means auto-detect.
	Encoding string

	// Flatten3D drops heights from NØH coordinates so every geometry comes
	// out 2D. Default is true.
	Flatten3D bool

	// KeepUnknownKinds retains records of unrecognized object kinds as
	// geometry-less features. When false they are excluded and reported
	// via Diagnostics().
	KeepUnknownKinds bool

	// RequireUnitScale makes a missing ...ENHET declaration a fatal error
	// when the file contains coordinates. When false the reader assumes a
	// unit scale of 1.0 and logs a warning.
	RequireUnitScale bool

	// ValidateGeometry runs structural validation on every assembled
	// geometry. Invalid geometries are dropped with a diagnostic.
	// Default is true.
	ValidateGeometry bool

	// Parallel parses object records concurrently. Worth enabling for
	// large files; output order is unaffected.
	Parallel bool

	// Logger receives decode progress and warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultReadOptions returns read options with defaults.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Flatten3D:        true,
		ValidateGeometry: true,
	}
}
