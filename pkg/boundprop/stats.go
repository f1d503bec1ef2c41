package boundprop

// Stats counts the work done by a Propagator since it was created.
type Stats struct {
	// Pass statistics
	Passes int // Number of Init calls

	// Equality statistics
	OffsetRows    int // Rows classified as offset rows (counted per classification)
	ZeroOffsetEqs int // Equalities from a single row with zero offset
	CrossRowEqs   int // Equalities from two rows sharing a (y, k) table key
	TreeEqs       int // Equalities found by tree exploration

	// Tree statistics
	TreesBuilt       int // Explorations started from an offset row
	LastTreeRows     int // Rows visited by the last exploration
	LastTreeColumns  int // Columns visited by the last exploration
	LastTreeVertices int // Vertices allocated by the last exploration
	MaxTreeVertices  int // Largest tree built so far

	// Bound statistics
	BoundsAdded    int // First bound recorded for a (variable, direction) in a pass
	BoundsImproved int // Recorded bounds replaced by a tighter one

	// Overflows counts rows, tree edges and bound candidates skipped because
	// their arithmetic does not fit in int64.
	Overflows int
}

// Equalities returns the total number of equalities reported.
func (s Stats) Equalities() int {
	return s.ZeroOffsetEqs + s.CrossRowEqs + s.TreeEqs
}
