package parser

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ReadMetadata decodes only the header of a SOSI file. Object records are
// never parsed, which makes this cheap enough to run over a whole directory
// when building a file index.
func ReadMetadata(filename string, opts ParseOptions) (*Metadata, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	text, charset, err := decodeText(raw, opts.EncodingOverride, logger)
	if err != nil {
		return nil, err
	}

	return parseHeader(scanHeaderSegment(text), charset, logger), nil
}

// scanHeaderSegment collects the .HODE block, stopping at the first object
// marker instead of splitting the rest of the file.
func scanHeaderSegment(text string) *segment {
	var seg *segment
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		if isTopLevel(line) {
			if seg != nil || topLevelMarker(line) != headerMarker {
				break
			}
			seg = &segment{Marker: headerMarker, Lines: []string{line}}
			continue
		}
		if seg != nil {
			seg.Lines = append(seg.Lines, line)
		}
	}
	return seg
}
