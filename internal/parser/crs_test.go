package parser

import (
	"fmt"
	"testing"
)

// TestKoordsysToEPSG tests the UTM band and NTM zone mappings
func TestKoordsysToEPSG(t *testing.T) {
	tests := []struct {
		code     int
		epsg     int
		expected bool
	}{
		{21, 25831, true},
		{22, 25832, true},
		{23, 25833, true},
		{24, 25834, true},
		{25, 25835, true},
		{26, 25836, true},
		{105, 5105, true},
		{118, 5118, true},
		{130, 5130, true},
		{0, 0, false},
		{1, 0, false},
		{27, 0, false},
		{104, 0, false},
		{131, 0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("koordsys_%d", tt.code), func(t *testing.T) {
			epsg, ok := KoordsysToEPSG(tt.code)
			if ok != tt.expected {
				t.Errorf("Expected ok=%v, got %v", tt.expected, ok)
			}
			if epsg != tt.epsg {
				t.Errorf("Expected EPSG %d, got %d", tt.epsg, epsg)
			}
		})
	}
}
