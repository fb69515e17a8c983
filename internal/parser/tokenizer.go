package parser

import (
	"strings"
)

// segment holds the lines of one top-level dot-prefixed block.
// The SOSI format nests content by dot depth: a line with a single leading
// dot opens a new top-level block, deeper-dotted and bare lines belong to
// the block above them.
type segment struct {
	// Marker is the first token of the opening line without its leading dot,
	// e.g. "HODE", "KURVE", "FLATE".
	Marker string
	// Lines holds every line of the segment, opening line included,
	// trimmed of trailing whitespace. Blank and comment lines are dropped.
	Lines []string
}

// splitSegments splits decoded SOSI text into the header segment and the
// ordered object segments. The header is the first segment when it opens
// with .HODE; .SLUTT ends the file. Lines before the first marker and
// lines with no recognized shape are treated as continuations of the
// current segment rather than errors, tolerating minor format drift.
func splitSegments(text string) (header *segment, objects []*segment) {
	var current *segment

	flush := func() {
		if current == nil {
			return
		}
		if current.Marker == headerMarker && header == nil && len(objects) == 0 {
			header = current
		} else {
			objects = append(objects, current)
		}
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "!") {
			continue
		}

		if isTopLevel(trimmed) {
			marker := topLevelMarker(trimmed)
			if marker == endMarker {
				break
			}
			flush()
			current = &segment{Marker: marker, Lines: []string{trimmed}}
			continue
		}

		// Continuation, nested line, or format drift. Lenient: attach to the
		// current segment; with no segment open there is nothing to attach to.
		if current != nil {
			current.Lines = append(current.Lines, trimmed)
		}
	}
	flush()

	return header, objects
}

const (
	headerMarker = "HODE"
	endMarker    = "SLUTT"
)

// isTopLevel reports whether a trimmed line opens a new top-level segment:
// exactly one leading dot followed by a letter.
func isTopLevel(line string) bool {
	if len(line) < 2 || line[0] != '.' {
		return false
	}
	return line[1] != '.'
}

// topLevelMarker returns the opening keyword of a top-level line, e.g.
// ".KURVE 12:" yields "KURVE".
func topLevelMarker(line string) string {
	rest := strings.TrimPrefix(line, ".")
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
