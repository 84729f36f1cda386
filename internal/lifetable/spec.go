package lifetable

import "strings"

// Policy controls what happens to query rows that fail category or
// partition resolution.
type Policy string

const (
	// PolicyNull keeps the row and leaves the appended columns empty.
	PolicyNull Policy = "null"
	// PolicyDrop excludes the row from the output.
	PolicyDrop Policy = "drop"
)

// Field selects which part of a Match a declared output column is fed from.
type Field int

const (
	FieldAge Field = iota
	FieldYear
	FieldSex
	FieldCountry
	FieldLifeExpectancy
	// FieldExtra reads Match.Row.Extra at the column's suffix. Extra
	// columns are only emitted when at least one matched row has a value.
	FieldExtra
)

// Column declares one appended output column: its suffix (the full name is
// Prefix + Suffix) and the match field it is populated from.
type Column struct {
	Suffix string
	Field  Field
}

// SourceSpec is the declarative per-source configuration consumed by the
// shared matching and join logic. It carries no algorithmic behavior.
type SourceSpec struct {
	Name   string // "ssa", "hld", "who"
	Prefix string // output column prefix, e.g. "ssa_"

	// HasCountry declares whether the country dimension participates in
	// partitioning. When false, the query's country field is ignored.
	HasCountry bool

	// FanOut declares whether multiple rows may share one (country, sex,
	// year, age) key due to sub-population dimensions. When true, all such
	// rows are returned as separate matches.
	FanOut bool

	// SexCodes maps lowercase accepted input forms to the source's
	// normalized code. Inputs absent from the map are UnknownCategory.
	SexCodes map[string]string

	// Columns lists the appended output columns in contract order.
	Columns []Column

	// Unmatched is the source's default policy for rows that fail with
	// UnknownCategory or NoPartitionFound.
	Unmatched Policy
}

// NormalizeSex maps a raw sex value to the source's normalized code.
func (s *SourceSpec) NormalizeSex(value string) (string, error) {
	if code, ok := s.SexCodes[strings.ToLower(strings.TrimSpace(value))]; ok {
		return code, nil
	}
	return "", &CategoryError{Dimension: "sex", Value: value}
}
