package lifetable

import (
	"errors"
	"fmt"
)

// Sentinel errors for the matching taxonomy. Callers distinguish them with
// errors.Is; the concrete wrapper types below carry row/field detail.
var (
	// ErrUnknownCategory means a categorical input (sex, country) does not
	// map to any recognized code. It fails before any partition lookup.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNoPartition means the category was recognized but the country/sex
	// combination has zero reference coverage. This is a hard miss, not a
	// nearest-match situation.
	ErrNoPartition = errors.New("no reference partition")

	// ErrMissingField means a query row lacks a required input field.
	// Batch validation treats this as fatal for the whole batch.
	ErrMissingField = errors.New("missing required field")

	// ErrMalformedRow means a reference row failed build-time validation.
	// Index construction aborts on the first such row.
	ErrMalformedRow = errors.New("malformed reference row")
)

// CategoryError reports an unrecognized categorical value.
type CategoryError struct {
	Dimension string // "sex" or "country"
	Value     string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Dimension, e.Value)
}

func (e *CategoryError) Unwrap() error { return ErrUnknownCategory }

// PartitionError reports a country/sex combination with no reference rows.
type PartitionError struct {
	Country string
	Sex     string
}

func (e *PartitionError) Error() string {
	if e.Country == "" {
		return fmt.Sprintf("no reference rows for sex %q", e.Sex)
	}
	return fmt.Sprintf("no reference rows for country %q, sex %q", e.Country, e.Sex)
}

func (e *PartitionError) Unwrap() error { return ErrNoPartition }

// MissingFieldError reports an absent or unparseable required query field.
type MissingFieldError struct {
	Row    int    // 0-based row index, -1 when the whole column is absent
	Column string // actual column name after mapping
	Reason string
}

func (e *MissingFieldError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("column `%s`: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("row %d, column `%s`: %s", e.Row, e.Column, e.Reason)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// MalformedRowError reports a defective reference row at build time.
type MalformedRowError struct {
	Source string
	Row    int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s reference row %d: %s", e.Source, e.Row, e.Reason)
}

func (e *MalformedRowError) Unwrap() error { return ErrMalformedRow }
