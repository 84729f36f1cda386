package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/table"
)

// Validator checks a query table against a source's required input
// dimensions before any matching runs. Validation is all-or-nothing: every
// required-field defect across the whole batch is collected and reported,
// and the batch fails entirely if any exists.
type Validator struct {
	spec    *lifetable.SourceSpec
	mapping table.Mapping
}

// NewValidator creates a validator for the given source spec and column
// mapping.
func NewValidator(spec *lifetable.SourceSpec, mapping table.Mapping) *Validator {
	return &Validator{spec: spec, mapping: mapping}
}

// required returns the logical input dimensions the source needs.
func (v *Validator) required() []string {
	dims := []string{"age", "sex", "year"}
	if v.spec.HasCountry {
		dims = append(dims, "country")
	}
	return dims
}

// ValidateTable verifies that every required column exists and that every
// row's required fields are present and parseable. The returned error
// wraps lifetable.ErrMissingField and lists all defects.
func (v *Validator) ValidateTable(t *table.Table) error {
	var errs []*lifetable.MissingFieldError

	// Missing columns make per-row checks meaningless; report them alone.
	for _, dim := range v.required() {
		col := v.mapping.Resolve(dim)
		if !t.HasColumn(col) {
			errs = append(errs, &lifetable.MissingFieldError{
				Row:    -1,
				Column: col,
				Reason: "column not found in the input",
			})
		}
	}
	if len(errs) > 0 {
		return &BatchError{Defects: errs}
	}

	for i, row := range t.Rows {
		for _, dim := range v.required() {
			col := v.mapping.Resolve(dim)
			raw := strings.TrimSpace(row[col])
			if raw == "" {
				errs = append(errs, &lifetable.MissingFieldError{Row: i, Column: col, Reason: "empty value"})
				continue
			}
			if dim == "age" || dim == "year" {
				if _, err := strconv.Atoi(raw); err != nil {
					errs = append(errs, &lifetable.MissingFieldError{
						Row:    i,
						Column: col,
						Reason: fmt.Sprintf("not an integer: %q", raw),
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return &BatchError{Defects: errs}
	}
	return nil
}

// BatchError aggregates every required-field defect found in one batch.
type BatchError struct {
	Defects []*lifetable.MissingFieldError
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d required-field defect(s):", len(e.Defects))
	for _, d := range e.Defects {
		b.WriteString("\n  - ")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Unwrap exposes the individual defects so errors.Is matches
// lifetable.ErrMissingField.
func (e *BatchError) Unwrap() []error {
	out := make([]error, len(e.Defects))
	for i, d := range e.Defects {
		out[i] = d
	}
	return out
}
