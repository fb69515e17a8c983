package parser

import (
	"testing"
)

// TestSplitSegments tests splitting decoded text into header and objects
func TestSplitSegments(t *testing.T) {
	text := `.HODE
..TEGNSETT UTF-8
..TRANSPAR
...ENHET 0.01
! a comment line

.PUNKT 1:
..NØ
100 200
.KURVE 2:
..NØ
0 0
10 10
.SLUTT
.PUNKT 99:
`

	header, objects := splitSegments(text)

	if header == nil {
		t.Fatal("Expected header segment, got nil")
	}
	if header.Marker != "HODE" {
		t.Errorf("Expected header marker HODE, got %s", header.Marker)
	}
	if len(header.Lines) != 4 {
		t.Errorf("Expected 4 header lines, got %d", len(header.Lines))
	}

	if len(objects) != 2 {
		t.Fatalf("Expected 2 object segments, got %d", len(objects))
	}
	if objects[0].Marker != "PUNKT" {
		t.Errorf("Expected first object PUNKT, got %s", objects[0].Marker)
	}
	if objects[1].Marker != "KURVE" {
		t.Errorf("Expected second object KURVE, got %s", objects[1].Marker)
	}
}

// TestSplitSegmentsNoHeader tests that files without .HODE still split
func TestSplitSegmentsNoHeader(t *testing.T) {
	text := ".PUNKT 1:\n..NØ\n100 200\n.SLUTT\n"

	header, objects := splitSegments(text)

	if header != nil {
		t.Errorf("Expected no header, got %v", header)
	}
	if len(objects) != 1 {
		t.Fatalf("Expected 1 object segment, got %d", len(objects))
	}
	if len(objects[0].Lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(objects[0].Lines))
	}
}

// TestSplitSegmentsLeadingGarbage tests that lines before the first marker
// are dropped instead of failing the split
func TestSplitSegmentsLeadingGarbage(t *testing.T) {
	text := "stray line\n.PUNKT 1:\n..NØ\n1 2\n.SLUTT\n"

	header, objects := splitSegments(text)
	if header != nil {
		t.Errorf("Expected no header, got %v", header)
	}
	if len(objects) != 1 {
		t.Fatalf("Expected 1 object segment, got %d", len(objects))
	}
}

// TestTopLevelMarker tests marker extraction from opening lines
func TestTopLevelMarker(t *testing.T) {
	tests := []struct {
		line     string
		topLevel bool
		marker   string
	}{
		{".KURVE 12:", true, "KURVE"},
		{".HODE", true, "HODE"},
		{".SLUTT", true, "SLUTT"},
		{"..NØ", false, ""},
		{"...ENHET 0.01", false, ""},
		{"100 200", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := isTopLevel(tt.line); got != tt.topLevel {
				t.Errorf("isTopLevel(%q) = %v, expected %v", tt.line, got, tt.topLevel)
			}
			if tt.topLevel {
				if got := topLevelMarker(tt.line); got != tt.marker {
					t.Errorf("topLevelMarker(%q) = %q, expected %q", tt.line, got, tt.marker)
				}
			}
		})
	}
}
