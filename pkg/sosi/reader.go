package sosi

import (
	"fmt"
	"io"

	"github.com/jesperfjellin/sosilogikk/internal/parser"
)

// Reader reads SOSI geodata files.
//
// Create a reader with NewReader and use Read or ReadWithOptions to load
// files.
type Reader interface {
	// Read loads a SOSI file with default options.
	//
	// The filename should point to a SOSI text file (conventionally .sos).
	// Returns an error only for unreadable files or character set failures;
	// per-object problems are reported through Dataset.Diagnostics().
	Read(filename string) (*Dataset, error)

	// ReadWithOptions loads a SOSI file with custom options.
	//
	// Use ReadOptions to control character set handling, 3D flattening,
	// validation, and unknown-kind retention.
	ReadWithOptions(filename string, opts ReadOptions) (*Dataset, error)
}

// NewReader creates a SOSI reader with default settings.
//
// Example:
//
//	reader := sosi.NewReader()
//	dataset, err := reader.Read("Arealdekke.sos")
func NewReader() Reader {
	return &readerWrapper{}
}

// readerWrapper bridges the public API to the internal decoder.
type readerWrapper struct{}

func (r *readerWrapper) Read(filename string) (*Dataset, error) {
	return r.ReadWithOptions(filename, DefaultReadOptions())
}

func (r *readerWrapper) ReadWithOptions(filename string, opts ReadOptions) (*Dataset, error) {
	internal, err := parser.DecodeFile(filename, internalOptions(opts))
	if err != nil {
		return nil, err
	}
	return convertDataset(internal), nil
}

// Decode reads SOSI text from an arbitrary source instead of a file.
//
// The entire stream is consumed before decoding starts; SOSI requires the
// complete record set to resolve surface references.
func Decode(r io.Reader, opts ReadOptions) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	internal, err := parser.Decode(raw, internalOptions(opts))
	if err != nil {
		return nil, err
	}
	return convertDataset(internal), nil
}

func internalOptions(opts ReadOptions) parser.ParseOptions {
	return parser.ParseOptions{
		EncodingOverride: opts.Encoding,
		Flatten3D:        opts.Flatten3D,
		KeepUnknownKinds: opts.KeepUnknownKinds,
		RequireUnitScale: opts.RequireUnitScale,
		ValidateGeometry: opts.ValidateGeometry,
		Parallel:         opts.Parallel,
		Logger:           opts.Logger,
	}
}
