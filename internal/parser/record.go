package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// objectKind enumerates the SOSI object kinds the assembler understands.
// Unrecognized markers parse as KindUnknown: the record is kept with its
// attributes but produces no geometry.
type objectKind int

const (
	KindUnknown objectKind = iota
	KindPoint              // .PUNKT
	KindCurve              // .KURVE
	KindSurface            // .FLATE
	KindText               // .TEKST
)

func (k objectKind) String() string {
	switch k {
	case KindPoint:
		return "PUNKT"
	case KindCurve:
		return "KURVE"
	case KindSurface:
		return "FLATE"
	case KindText:
		return "TEKST"
	default:
		return "UKJENT"
	}
}

func kindFromMarker(marker string) objectKind {
	switch marker {
	case "PUNKT":
		return KindPoint
	case "KURVE":
		return KindCurve
	case "FLATE":
		return KindSurface
	case "TEKST":
		return KindText
	default:
		return KindUnknown
	}
}

// surfaceRef is one ..REF entry of a FLATE: a signed curve serial number.
// The sign encodes traversal direction (negative walks the curve
// tail-to-head); Hole marks entries inside a parenthesised group, which
// SOSI uses for interior boundaries.
type surfaceRef struct {
	ID   int64
	Hole bool
}

// objectRecord is the typed intermediate form of one object segment.
// Records are read-only once parsed; the assembler consumes them through
// the build-once identifier map.
type objectRecord struct {
	ID         int64
	Kind       objectKind
	Marker     string // original opening keyword, kept for unknown kinds
	Attributes map[string]string
	// Coords is the raw fixed-point coordinate sequence in file order,
	// each entry 2 or 3 components (north, east, height).
	Coords [][]int64
	// Refs is the ordered reference list, present only on surfaces.
	Refs []surfaceRef
}

// parseObjectRecord turns one object segment into an objectRecord.
// Unknown attribute keys are preserved verbatim; unknown line shapes are
// skipped and reported as diagnostics rather than failing the record.
func parseObjectRecord(seg *segment) (*objectRecord, []Diagnostic) {
	var diags []Diagnostic

	rec := &objectRecord{
		Kind:       kindFromMarker(seg.Marker),
		Marker:     seg.Marker,
		Attributes: make(map[string]string),
	}

	// Opening line like ".KURVE 123:", serial number with a trailing colon.
	fields := strings.Fields(seg.Lines[0])
	if len(fields) >= 2 {
		idTok := strings.TrimSuffix(fields[1], ":")
		id, err := strconv.ParseInt(idTok, 10, 64)
		if err != nil {
			diags = append(diags, Diagnostic{
				Kind:   seg.Marker,
				Reason: fmt.Sprintf("unparseable serial number %q", fields[1]),
			})
		} else {
			rec.ID = id
		}
	}

	coordDim := 0 // 0 = not inside a coordinate run
	inRef := false
	inHole := false

	for _, line := range seg.Lines[1:] {
		if strings.HasPrefix(line, "..") {
			key, value := splitKeyValue(strings.TrimLeft(line, "."))
			switch key {
			case "NØ":
				coordDim, inRef = 2, false
			case "NØH":
				coordDim, inRef = 3, false
			case "REF":
				coordDim, inRef = 0, true
				inHole = parseRefTokens(rec, value, inHole, &diags)
			default:
				coordDim, inRef = 0, false
				rec.Attributes[key] = value
			}
			continue
		}

		switch {
		case inRef:
			inHole = parseRefTokens(rec, line, inHole, &diags)
		case coordDim > 0:
			parseCoordinateLine(rec, line, coordDim, &diags)
		default:
			// Lenient: unknown line shape, keep going.
			diags = append(diags, Diagnostic{
				ObjectID: rec.ID,
				Kind:     rec.Marker,
				Reason:   fmt.Sprintf("skipped unrecognized line %q", line),
			})
		}
	}

	for i := range diags {
		diags[i].ObjectID = rec.ID
	}
	return rec, diags
}

// parseCoordinateLine parses one or more fixed-point coordinate tuples from
// a bare line inside a ..NØ / ..NØH run. A trailing "...KP n" annotation is
// captured as the KP attribute.
func parseCoordinateLine(rec *objectRecord, line string, dim int, diags *[]Diagnostic) {
	fields := strings.Fields(line)

	// ...KP marks a junction point annotation after the coordinates.
	for i, f := range fields {
		if f == "...KP" {
			if i+1 < len(fields) {
				rec.Attributes["KP"] = fields[i+1]
			}
			fields = fields[:i]
			break
		}
	}

	nums := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			*diags = append(*diags, Diagnostic{
				Kind:   rec.Marker,
				Reason: fmt.Sprintf("skipped coordinate line with non-integer token %q", f),
			})
			return
		}
		nums = append(nums, v)
	}

	if len(nums) == 0 || len(nums)%dim != 0 {
		*diags = append(*diags, Diagnostic{
			Kind:   rec.Marker,
			Reason: fmt.Sprintf("coordinate line has %d values, expected multiple of %d", len(nums), dim),
		})
		return
	}

	for i := 0; i < len(nums); i += dim {
		tuple := make([]int64, dim)
		copy(tuple, nums[i:i+dim])
		rec.Coords = append(rec.Coords, tuple)
	}
}

// parseRefTokens parses signed ":id" reference tokens from a ..REF line.
// Parenthesised groups mark hole boundaries; the returned flag carries the
// open-parenthesis state across wrapped reference lines.
func parseRefTokens(rec *objectRecord, s string, inHole bool, diags *[]Diagnostic) bool {
	for _, tok := range strings.Fields(s) {
		if strings.HasPrefix(tok, "(") {
			inHole = true
			tok = strings.TrimPrefix(tok, "(")
		}
		closes := strings.HasSuffix(tok, ")")
		tok = strings.TrimSuffix(tok, ")")

		if tok != "" {
			if !strings.HasPrefix(tok, ":") {
				*diags = append(*diags, Diagnostic{
					Kind:   rec.Marker,
					Reason: fmt.Sprintf("skipped malformed reference token %q", tok),
				})
			} else {
				id, err := strconv.ParseInt(tok[1:], 10, 64)
				if err != nil {
					*diags = append(*diags, Diagnostic{
						Kind:   rec.Marker,
						Reason: fmt.Sprintf("skipped malformed reference token %q", tok),
					})
				} else {
					rec.Refs = append(rec.Refs, surfaceRef{ID: id, Hole: inHole})
				}
			}
		}

		if closes {
			inHole = false
		}
	}
	return inHole
}
