package parser

// koordsysEPSG maps SOSI KOORDSYS codes to EPSG codes for the Kartverket
// UTM bands (ETRS89). The table is deliberately small and fixed: mapping is
// labeling only, never reprojection.
var koordsysEPSG = map[int]int{
	21: 25831, // ETRS89 / UTM 31N
	22: 25832, // ETRS89 / UTM 32N
	23: 25833, // ETRS89 / UTM 33N
	24: 25834, // ETRS89 / UTM 34N
	25: 25835, // ETRS89 / UTM 35N
	26: 25836, // ETRS89 / UTM 36N
}

// KoordsysToEPSG maps a SOSI KOORDSYS code to its EPSG code.
// Unmapped codes yield (0, false), never an error.
func KoordsysToEPSG(code int) (int, bool) {
	if epsg, ok := koordsysEPSG[code]; ok {
		return epsg, true
	}
	// NTM zones 5-30 (ETRS89 / NTM, EUREF89) use codes 105-130 which map
	// directly onto EPSG 5105-5130.
	if code >= 105 && code <= 130 {
		return 5000 + code, true
	}
	return 0, false
}
