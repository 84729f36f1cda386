package source

import (
	"strconv"
	"strings"

	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/table"
)

// SSA returns the US Social Security Administration actuarial life table
// source. The table has no country dimension; each published row carries
// both sexes, so loading fans one CSV row into an M and an F reference row.
func SSA() Source {
	return Source{
		Spec: &lifetable.SourceSpec{
			Name:       "ssa",
			Prefix:     "ssa_",
			HasCountry: false,
			FanOut:     false,
			SexCodes:   mfCodes(),
			Columns: []lifetable.Column{
				{Suffix: "age", Field: lifetable.FieldAge},
				{Suffix: "year", Field: lifetable.FieldYear},
				{Suffix: "life_expectancy", Field: lifetable.FieldLifeExpectancy},
			},
			Unmatched: lifetable.PolicyNull,
		},
		DataFile: "ssa/ssa.csv",
		Load:     loadSSA,
	}
}

func loadSSA(t *table.Table) ([]lifetable.ReferenceRow, error) {
	rows := make([]lifetable.ReferenceRow, 0, 2*t.Len())

	for i, row := range t.Rows {
		age, err := refInt(row, "age", "ssa", i)
		if err != nil {
			return nil, err
		}
		year, err := refInt(row, "year", "ssa", i)
		if err != nil {
			return nil, err
		}

		for _, sex := range []struct {
			code   string
			column string
		}{
			{"M", "male_life_expectancy"},
			{"F", "female_life_expectancy"},
		} {
			le, err := refFloat(row, sex.column, "ssa", i)
			if err != nil {
				return nil, err
			}
			rows = append(rows, lifetable.ReferenceRow{
				Sex:            sex.code,
				Year:           year,
				Age:            age,
				LifeExpectancy: le,
			})
		}
	}
	return rows, nil
}

// refInt parses a required integer reference field.
func refInt(row table.Row, col, source string, i int) (int, error) {
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return 0, &lifetable.MalformedRowError{Source: source, Row: i, Reason: "empty " + col}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &lifetable.MalformedRowError{Source: source, Row: i, Reason: col + " not an integer: " + raw}
	}
	return v, nil
}

// refFloat parses a required float reference field.
func refFloat(row table.Row, col, source string, i int) (float64, error) {
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return 0, &lifetable.MalformedRowError{Source: source, Row: i, Reason: "empty " + col}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &lifetable.MalformedRowError{Source: source, Row: i, Reason: col + " not a number: " + raw}
	}
	return v, nil
}
