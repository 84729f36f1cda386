package source

import (
	"strings"

	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/table"
)

// hldSubpop lists the HLD sub-population dimensions in output order. Rows
// sharing (country, sex, year1, age) but differing in any of these fan out
// into separate matches.
var hldSubpop = []struct {
	column string // header in hld.csv.gz
	suffix string // appended output column suffix
}{
	{"Region", "region"},
	{"Residence", "residence"},
	{"Ethnicity", "ethnicity"},
	{"SocDem", "socdem"},
	{"Version", "version"},
}

// HLD returns the Human Life-Table Database source (lifetable.de),
// covering historical life tables for 100+ countries. Year matching runs
// on Year1, the start of the published period.
func HLD() Source {
	cols := []lifetable.Column{
		{Suffix: "country", Field: lifetable.FieldCountry},
		{Suffix: "age", Field: lifetable.FieldAge},
		{Suffix: "age_interval", Field: lifetable.FieldExtra},
		{Suffix: "sex", Field: lifetable.FieldSex},
		{Suffix: "year1", Field: lifetable.FieldYear},
		{Suffix: "life_expectancy", Field: lifetable.FieldLifeExpectancy},
		{Suffix: "life_expectancy_orig", Field: lifetable.FieldExtra},
	}
	for _, sp := range hldSubpop {
		cols = append(cols, lifetable.Column{Suffix: sp.suffix, Field: lifetable.FieldExtra})
	}

	return Source{
		Spec: &lifetable.SourceSpec{
			Name:       "hld",
			Prefix:     "hld_",
			HasCountry: true,
			FanOut:     true,
			SexCodes:   mfCodes(),
			Columns:    cols,
			Unmatched:  lifetable.PolicyNull,
		},
		DataFile: "hld/hld.csv.gz",
		Load:     loadHLD,
	}
}

func loadHLD(t *table.Table) ([]lifetable.ReferenceRow, error) {
	rows := make([]lifetable.ReferenceRow, 0, t.Len())

	for i, row := range t.Rows {
		// HLD publishes incomplete rows; skip them the way the
		// upstream dataset documentation prescribes rather than
		// failing the whole load.
		if hldIncomplete(row) {
			continue
		}

		year, err := refInt(row, "Year1", "hld", i)
		if err != nil {
			return nil, err
		}
		age, err := refInt(row, "Age", "hld", i)
		if err != nil {
			return nil, err
		}
		le, err := refFloat(row, "e(x)", "hld", i)
		if err != nil {
			return nil, err
		}

		sex, err := hldSex(row["Sex"], i)
		if err != nil {
			return nil, err
		}

		extra := map[string]string{
			"age_interval":         strings.TrimSpace(row["AgeInt"]),
			"life_expectancy_orig": strings.TrimSpace(row["e(x)"]),
		}
		for _, sp := range hldSubpop {
			if v := strings.TrimSpace(row[sp.column]); v != "" {
				extra[sp.suffix] = v
			}
		}

		rows = append(rows, lifetable.ReferenceRow{
			Country:        strings.TrimSpace(row["Country"]),
			Sex:            sex,
			Year:           year,
			Age:            age,
			LifeExpectancy: le,
			Extra:          extra,
		})
	}
	return rows, nil
}

// hldIncomplete reports whether a published row lacks any required
// dimension and should be dropped during load.
func hldIncomplete(row table.Row) bool {
	for _, col := range []string{"Country", "Year1", "Sex", "Age", "e(x)"} {
		if strings.TrimSpace(row[col]) == "" {
			return true
		}
	}
	return false
}

// hldSex converts the HLD numeric sex codes (1=male, 2=female) to the
// normalized M/F code set.
func hldSex(raw string, i int) (string, error) {
	switch strings.TrimSpace(raw) {
	case "1", "M", "m":
		return "M", nil
	case "2", "F", "f":
		return "F", nil
	default:
		return "", &lifetable.MalformedRowError{Source: "hld", Row: i, Reason: "unrecognized sex code: " + raw}
	}
}
