package parser

import (
	"fmt"
)

// EncodingError indicates the declared or requested character set could not
// decode the file bytes. This is the only fatal error during a read.
type EncodingError struct {
	Charset string
	Err     error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot decode file as %s: %v", e.Charset, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ErrUnresolvedReference indicates a FLATE references a KURVE serial number
// not present in the record map. Only the referencing surface is dropped.
type ErrUnresolvedReference struct {
	SurfaceID int64
	CurveID   int64
}

func (e *ErrUnresolvedReference) Error() string {
	return fmt.Sprintf("surface %d references missing curve %d", e.SurfaceID, e.CurveID)
}

// ErrInvalidGeometry indicates a geometry could not be assembled from its record
type ErrInvalidGeometry struct {
	Type   GeometryType
	Reason string
}

func (e *ErrInvalidGeometry) Error() string {
	if e.Type != 0 {
		return fmt.Sprintf("invalid geometry (%v): %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}

// ErrMalformedRecord indicates an object segment whose opening line could not
// be parsed into a kind and serial number
type ErrMalformedRecord struct {
	Line   string
	Reason string
}

func (e *ErrMalformedRecord) Error() string {
	return fmt.Sprintf("malformed object record %q: %s", e.Line, e.Reason)
}
