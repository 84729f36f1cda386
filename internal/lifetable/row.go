package lifetable

// ReferenceRow is one life-table entry as loaded from a source dataset.
// Rows are never synthesized: every row handed to Build exists verbatim in
// the source data.
type ReferenceRow struct {
	Country        string  // canonical country code, empty for sources without one
	Sex            string  // normalized sex code (M/F, or MLE/FMLE for WHO)
	Year           int
	Age            int
	LifeExpectancy float64

	// Extra holds source-specific output fields keyed by column suffix
	// (e.g. "age_interval", "region"). Values are emitted as-is.
	Extra map[string]string
}

// Query is one caller-supplied lookup tuple. Sex and Country carry the raw
// input values; normalization happens during resolution.
type Query struct {
	Age     int
	Sex     string
	Year    int
	Country string
}

// Match pairs a matched reference row with the distance metadata describing
// which reference values were actually used.
type Match struct {
	Row ReferenceRow

	MatchedAge     int
	MatchedYear    int
	MatchedSex     string // normalized code, where remapping occurred
	MatchedCountry string // canonical code, empty for sources without country
}

// Exact reports whether the match required no nearest-value substitution.
func (m Match) Exact(q Query) bool {
	return m.MatchedAge == q.Age && m.MatchedYear == q.Year
}
