package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// utf8BOM is stripped before validating a native UTF-8 read. Files exported
// from Windows tooling frequently carry one.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charsetTable maps SOSI ..TEGNSETT tokens to decoders. A nil entry means
// native UTF-8 (no transformation needed).
var charsetTable = map[string]encoding.Encoding{
	"UTF-8":      nil,
	"UTF8":       nil,
	"ISO8859-1":  charmap.ISO8859_1,
	"ISO8859-10": charmap.ISO8859_10,
	"ANSI":       charmap.Windows1252,
	"DOSN8":      charmap.CodePage865, // Norwegian/Danish DOS codepage
}

// normalizeCharset canonicalizes a TEGNSETT token for table lookup.
func normalizeCharset(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "UTF8" {
		return "UTF-8"
	}
	return name
}

// decodeAs decodes raw bytes with the named SOSI charset.
func decodeAs(raw []byte, name string) (string, error) {
	name = normalizeCharset(name)
	enc, ok := charsetTable[name]
	if !ok {
		return "", &EncodingError{Charset: name, Err: fmt.Errorf("unsupported character set")}
	}
	if enc == nil {
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return "", &EncodingError{Charset: name, Err: fmt.Errorf("byte stream is not valid UTF-8")}
		}
		return string(raw), nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &EncodingError{Charset: name, Err: err}
	}
	return string(decoded), nil
}

// encodeAs encodes text into the named SOSI charset for writing.
func encodeAs(text string, name string) ([]byte, error) {
	name = normalizeCharset(name)
	enc, ok := charsetTable[name]
	if !ok {
		return nil, &EncodingError{Charset: name, Err: fmt.Errorf("unsupported character set")}
	}
	if enc == nil {
		return []byte(text), nil
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, &EncodingError{Charset: name, Err: err}
	}
	return encoded, nil
}

// scanCharset looks for the ..TEGNSETT declaration in already-decoded text.
// The scan stops at the first object marker: TEGNSETT belongs to the header
// and anything past the first geometry cannot declare it.
func scanCharset(text string) (string, bool) {
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "..TEGNSETT") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				return normalizeCharset(fields[len(fields)-1]), true
			}
			return "", false
		}
		if isTopLevel(line) && topLevelMarker(line) != headerMarker {
			break
		}
	}
	return "", false
}

// decodeText performs the two-stage charset pipeline: decode once with a
// fallback to locate the declared TEGNSETT, then re-decode the raw bytes
// when the declaration differs from the charset actually used. An explicit
// override skips the second stage entirely.
//
// Returns the decoded text and the charset it was decoded with.
func decodeText(raw []byte, override string, logger *slog.Logger) (string, string, error) {
	if override != "" {
		name := normalizeCharset(override)
		text, err := decodeAs(raw, name)
		if err != nil {
			return "", "", err
		}
		return text, name, nil
	}

	// Stage one: UTF-8 first, Latin-1 as the universal fallback (every byte
	// sequence is valid ISO 8859-1, so this stage cannot fail to produce
	// text we can scan for TEGNSETT).
	used := "UTF-8"
	text, err := decodeAs(raw, used)
	if err != nil {
		used = "ISO8859-1"
		text, err = decodeAs(raw, used)
		if err != nil {
			return "", "", err
		}
	}

	declared, ok := scanCharset(text)
	if !ok || declared == used {
		return text, used, nil
	}

	// Stage two: the header declares a different charset than the fallback
	// read. Re-decode the original bytes before any further processing.
	redecoded, err := decodeAs(raw, declared)
	if err != nil {
		if _, supported := charsetTable[declared]; !supported {
			logger.Warn("declared character set unsupported, keeping fallback decode",
				"declared", declared, "used", used)
			return text, used, nil
		}
		return "", "", err
	}
	logger.Info("re-decoded file with declared character set", "charset", declared)
	return redecoded, declared, nil
}
