package parser

import (
	"log/slog"
	"strconv"
	"strings"
)

// parseHeader scans the .HODE segment and populates Metadata. Unknown or
// unparseable header lines are skipped without error: only recognized keys
// affect the result, everything else is format drift we tolerate.
func parseHeader(seg *segment, charset string, logger *slog.Logger) *Metadata {
	meta := defaultMetadata()
	meta.Charset = charset
	if seg == nil {
		return meta
	}

	// Header content nests one level deeper than object content: two-dot
	// lines open sections (..TRANSPAR, ..OMRÅDE) or carry direct keys,
	// three-dot lines are attributes of the current section.
	section := ""
	for _, line := range seg.Lines {
		switch {
		case strings.HasPrefix(line, "..."):
			key, value := splitKeyValue(line[3:])
			parseHeaderAttr(meta, section, key, value, logger)
		case strings.HasPrefix(line, ".."):
			key, value := splitKeyValue(line[2:])
			if value == "" {
				section = key
				continue
			}
			section = ""
			switch key {
			case "TEGNSETT":
				// Already applied during the decode stage; keep the
				// normalized token for round-tripping.
				meta.Charset = normalizeCharset(value)
			case "SOSI-VERSJON":
				meta.SOSIVersion = value
			case "SOSI-NIVÅ":
				meta.SOSILevel = value
			case "OBJEKTKATALOG":
				meta.ObjectCatalog = value
			}
		}
	}

	if meta.Koordsys != 0 {
		if epsg, ok := KoordsysToEPSG(meta.Koordsys); ok {
			meta.EPSG = epsg
		} else {
			logger.Warn("no EPSG mapping for coordinate system", "koordsys", meta.Koordsys)
		}
	}

	return meta
}

// parseHeaderAttr handles one three-dot attribute within a header section.
func parseHeaderAttr(meta *Metadata, section, key, value string, logger *slog.Logger) {
	switch section {
	case "TRANSPAR":
		switch key {
		case "ENHET":
			scale, err := strconv.ParseFloat(value, 64)
			if err != nil || scale <= 0 {
				logger.Warn("skipping unparseable ENHET value", "value", value)
				return
			}
			meta.UnitScale = scale
			meta.UnitScaleDeclared = true
		case "KOORDSYS":
			fields := strings.Fields(value)
			if len(fields) == 0 {
				logger.Warn("skipping empty KOORDSYS value")
				return
			}
			code, err := strconv.Atoi(fields[0])
			if err != nil {
				logger.Warn("skipping unparseable KOORDSYS value", "value", value)
				return
			}
			meta.Koordsys = code
		case "ORIGO-NØ":
			n, e, ok := parsePair(value)
			if !ok {
				logger.Warn("skipping unparseable ORIGO-NØ value", "value", value)
				return
			}
			meta.OriginN, meta.OriginE = n, e
		case "VERT-DATUM":
			meta.VertDatum = value
		}
	case "OMRÅDE":
		switch key {
		case "MIN-NØ":
			n, e, ok := parsePair(value)
			if !ok {
				return
			}
			if meta.DeclaredBounds == nil {
				meta.DeclaredBounds = &Bounds{}
			}
			meta.DeclaredBounds.MinN, meta.DeclaredBounds.MinE = n, e
		case "MAX-NØ":
			n, e, ok := parsePair(value)
			if !ok {
				return
			}
			if meta.DeclaredBounds == nil {
				meta.DeclaredBounds = &Bounds{}
			}
			meta.DeclaredBounds.MaxN, meta.DeclaredBounds.MaxE = n, e
		}
	}
}

// splitKeyValue splits "KEY rest of line" into key and value. The value is
// empty for bare section openers.
func splitKeyValue(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// parsePair parses two whitespace-separated floats, north first.
func parsePair(value string) (float64, float64, bool) {
	fields := strings.Fields(value)
	if len(fields) < 2 {
		return 0, 0, false
	}
	n, err1 := strconv.ParseFloat(fields[0], 64)
	e, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return n, e, true
}
