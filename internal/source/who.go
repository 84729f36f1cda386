package source

import (
	"strings"

	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/table"
)

// whoBirthAge is the age every WHO row is indexed under: the dataset is
// life expectancy at birth, so any requested age resolves to it.
const whoBirthAge = 1

// WHO returns the World Health Organization life-expectancy-at-birth
// source (GHO indicator WHOSIS_000001). Sex codes follow the GHO
// convention: MLE and FMLE.
func WHO() Source {
	return Source{
		Spec: &lifetable.SourceSpec{
			Name:       "who",
			Prefix:     "who_",
			HasCountry: true,
			FanOut:     false,
			SexCodes: map[string]string{
				"m": "MLE", "male": "MLE", "1": "MLE", "mle": "MLE",
				"f": "FMLE", "female": "FMLE", "2": "FMLE", "fmle": "FMLE",
			},
			Columns: []lifetable.Column{
				{Suffix: "country", Field: lifetable.FieldCountry},
				{Suffix: "age", Field: lifetable.FieldAge},
				{Suffix: "year", Field: lifetable.FieldYear},
				{Suffix: "sex", Field: lifetable.FieldSex},
				{Suffix: "life_expectancy", Field: lifetable.FieldLifeExpectancy},
			},
			Unmatched: lifetable.PolicyNull,
		},
		DataFile: "who/who.csv.gz",
		Load:     loadWHO,
	}
}

func loadWHO(t *table.Table) ([]lifetable.ReferenceRow, error) {
	rows := make([]lifetable.ReferenceRow, 0, t.Len())

	for i, row := range t.Rows {
		sex := strings.TrimSpace(row["sex_code"])
		country := strings.TrimSpace(row["country_code"])
		if sex == "" || country == "" {
			continue
		}
		// Only the per-sex series participates in matching; the
		// both-sexes aggregate (BTSX) has no query spelling.
		if sex != "MLE" && sex != "FMLE" {
			continue
		}

		year, err := refInt(row, "year", "who", i)
		if err != nil {
			return nil, err
		}
		le, err := refFloat(row, "life_expectancy", "who", i)
		if err != nil {
			return nil, err
		}

		rows = append(rows, lifetable.ReferenceRow{
			Country:        country,
			Sex:            sex,
			Year:           year,
			Age:            whoBirthAge,
			LifeExpectancy: le,
		})
	}
	return rows, nil
}
