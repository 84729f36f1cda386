package lifetable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gojiplus/lostyears/internal/table"
)

// RowFailure records one query row that failed category or partition
// resolution. Failures are aggregated and reported after the batch rather
// than aborting it.
type RowFailure struct {
	Row    int    `json:"row"` // 0-based index into the input rows
	Reason string `json:"reason"`
}

// Stats summarizes one join run.
type Stats struct {
	Input     int          `json:"input_rows"`
	Output    int          `json:"output_rows"`
	Exact     int          `json:"exact_matches"`
	Nearest   int          `json:"nearest_matches"`
	FanOut    int          `json:"fan_out_rows"`
	Unmatched int          `json:"unmatched_rows"`
	Failures  []RowFailure `json:"failures,omitempty"`
}

// Add folds another stats block into this one, used when chunked joins
// are reassembled.
func (s *Stats) Add(o *Stats) {
	s.Input += o.Input
	s.Output += o.Output
	s.Exact += o.Exact
	s.Nearest += o.Nearest
	s.FanOut += o.FanOut
	s.Unmatched += o.Unmatched
	s.Failures = append(s.Failures, o.Failures...)
}

// Joiner expands query rows into output rows carrying the matched
// reference fields. The index is read-only; one Joiner may serve
// concurrent JoinRows calls over disjoint row ranges.
type Joiner struct {
	index    *Index
	resolver *Resolver
	mapping  table.Mapping
	policy   Policy
}

// NewJoiner creates a joiner for the given index. An empty policy falls
// back to the source's declared default.
func NewJoiner(index *Index, mapping table.Mapping, policy Policy) *Joiner {
	if policy == "" {
		policy = index.Spec().Unmatched
	}
	return &Joiner{
		index:    index,
		resolver: NewResolver(index),
		mapping:  mapping,
		policy:   policy,
	}
}

// AppendedColumns returns the full output column names this joiner can add,
// in contract order.
func (j *Joiner) AppendedColumns() []string {
	spec := j.index.Spec()
	out := make([]string, 0, len(spec.Columns))
	for _, col := range spec.Columns {
		out = append(out, spec.Prefix+col.Suffix)
	}
	return out
}

// Join matches every row of the input table and returns a new table with
// the source's columns appended. Original columns and input row order are
// preserved; fan-out duplicates follow their origin row in reference-row
// order. Extra (sub-population) columns appear only when at least one
// matched row populated them.
func (j *Joiner) Join(t *table.Table) (*table.Table, *Stats, error) {
	rows, stats, err := j.JoinRows(t.Rows, 0)
	if err != nil {
		return nil, nil, err
	}

	return j.Assemble(t.Columns, rows), stats, nil
}

// Assemble builds the output table from joined rows, declaring the
// appended columns in contract order after the original columns. It is
// split from Join so chunked joins can reassemble one table from
// concurrently produced row slices.
func (j *Joiner) Assemble(columns []string, rows []table.Row) *table.Table {
	out := table.New(columns...)
	out.Rows = rows
	j.appendColumns(out, rows)
	return out
}

// JoinRows matches a slice of rows whose first element has the given
// absolute index within the batch. It exists so a host can split a large
// query set into chunks and join them concurrently against the shared
// index.
func (j *Joiner) JoinRows(rows []table.Row, offset int) ([]table.Row, *Stats, error) {
	stats := &Stats{Input: len(rows)}
	out := make([]table.Row, 0, len(rows))

	for i, row := range rows {
		abs := offset + i

		q, err := j.query(row, abs)
		if err != nil {
			// Required-field defects are batch-fatal and should have
			// been caught by up-front validation.
			return nil, nil, err
		}

		matches, err := j.resolver.Resolve(q)
		if err != nil {
			if !errors.Is(err, ErrUnknownCategory) && !errors.Is(err, ErrNoPartition) {
				return nil, nil, err
			}
			stats.Unmatched++
			stats.Failures = append(stats.Failures, RowFailure{Row: abs, Reason: err.Error()})
			if j.policy == PolicyNull {
				out = append(out, row.Clone())
				stats.Output++
			}
			continue
		}

		if matches[0].Exact(q) {
			stats.Exact++
		} else {
			stats.Nearest++
		}
		stats.FanOut += len(matches) - 1

		for _, m := range matches {
			out = append(out, j.merge(row, m))
			stats.Output++
		}
	}

	return out, stats, nil
}

// query extracts the typed lookup tuple from a raw row.
func (j *Joiner) query(row table.Row, abs int) (Query, error) {
	spec := j.index.Spec()

	age, err := intField(row, j.mapping.Resolve("age"), abs)
	if err != nil {
		return Query{}, err
	}
	year, err := intField(row, j.mapping.Resolve("year"), abs)
	if err != nil {
		return Query{}, err
	}

	sexCol := j.mapping.Resolve("sex")
	sex := strings.TrimSpace(row[sexCol])
	if sex == "" {
		return Query{}, &MissingFieldError{Row: abs, Column: sexCol, Reason: "empty value"}
	}

	q := Query{Age: age, Year: year, Sex: sex}
	if spec.HasCountry {
		countryCol := j.mapping.Resolve("country")
		q.Country = strings.TrimSpace(row[countryCol])
		if q.Country == "" {
			return Query{}, &MissingFieldError{Row: abs, Column: countryCol, Reason: "empty value"}
		}
	}
	return q, nil
}

// merge copies the original row and lays the matched reference fields over
// it under the source's column prefix.
func (j *Joiner) merge(row table.Row, m Match) table.Row {
	spec := j.index.Spec()
	out := row.Clone()

	for _, col := range spec.Columns {
		name := spec.Prefix + col.Suffix
		switch col.Field {
		case FieldAge:
			out[name] = strconv.Itoa(m.MatchedAge)
		case FieldYear:
			out[name] = strconv.Itoa(m.MatchedYear)
		case FieldSex:
			out[name] = m.MatchedSex
		case FieldCountry:
			out[name] = m.MatchedCountry
		case FieldLifeExpectancy:
			out[name] = formatExpectancy(m.Row.LifeExpectancy)
		case FieldExtra:
			if v, ok := m.Row.Extra[col.Suffix]; ok && v != "" {
				out[name] = v
			}
		}
	}
	return out
}

// appendColumns declares the appended columns on the output table,
// skipping extra columns no matched row populated.
func (j *Joiner) appendColumns(out *table.Table, rows []table.Row) {
	spec := j.index.Spec()
	for _, col := range spec.Columns {
		name := spec.Prefix + col.Suffix
		if col.Field != FieldExtra {
			out.AddColumns(name)
			continue
		}
		for _, row := range rows {
			if row[name] != "" {
				out.AddColumns(name)
				break
			}
		}
	}
}

func intField(row table.Row, col string, abs int) (int, error) {
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return 0, &MissingFieldError{Row: abs, Column: col, Reason: "empty value"}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &MissingFieldError{Row: abs, Column: col, Reason: fmt.Sprintf("not an integer: %q", raw)}
	}
	return v, nil
}

// formatExpectancy renders a life expectancy without trailing zero noise,
// matching the source CSV representation for typical values.
func formatExpectancy(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
