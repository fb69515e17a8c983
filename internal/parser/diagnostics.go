package parser

// Diagnostic records one dropped object or recovered anomaly. The decoder
// collects diagnostics instead of failing: a caller can always inspect what
// was skipped without interrupting the dominant success path.
type Diagnostic struct {
	ObjectID int64
	Kind     string
	Reason   string
}
