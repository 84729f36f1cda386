package source

import (
	"errors"
	"testing"

	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/table"
)

func hldReference() *table.Table {
	t := table.New("Country", "Region", "Residence", "Ethnicity", "SocDem",
		"Version", "Year1", "Sex", "Age", "AgeInt", "e(x)")
	t.Append(table.Row{
		"Country": "USA", "Year1": "2000", "Sex": "1", "Age": "60",
		"AgeInt": "1", "e(x)": "19.40",
	})
	t.Append(table.Row{
		"Country": "USA", "Residence": "Urban", "Year1": "2000", "Sex": "1",
		"Age": "60", "AgeInt": "1", "e(x)": "19.10",
	})
	t.Append(table.Row{
		"Country": "USA", "Residence": "Rural", "Year1": "2000", "Sex": "1",
		"Age": "60", "AgeInt": "1", "e(x)": "19.80",
	})
	t.Append(table.Row{
		"Country": "CAN", "Year1": "2001", "Sex": "2", "Age": "60",
		"AgeInt": "1", "e(x)": "24.30",
	})
	// Incomplete row, dropped on load.
	t.Append(table.Row{
		"Country": "CAN", "Year1": "2001", "Sex": "2", "Age": "61",
		"AgeInt": "1", "e(x)": "",
	})
	return t
}

func TestLoadHLD_SkipsIncompleteRows(t *testing.T) {
	rows, err := HLD().Load(hldReference())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 (incomplete row dropped)", len(rows))
	}
	if rows[3].Country != "CAN" || rows[3].Sex != "F" || rows[3].Age != 60 {
		t.Errorf("last row = %+v", rows[3])
	}
}

func TestLoadHLD_SexCodes(t *testing.T) {
	ref := table.New("Country", "Year1", "Sex", "Age", "AgeInt", "e(x)")
	ref.Append(table.Row{"Country": "USA", "Year1": "2000", "Sex": "3", "Age": "0", "AgeInt": "1", "e(x)": "76.0"})

	_, err := HLD().Load(ref)
	if !errors.Is(err, lifetable.ErrMalformedRow) {
		t.Errorf("sex code 3: expected ErrMalformedRow, got %v", err)
	}
}

func TestLoadHLD_OrigExpectancyKeepsSourceText(t *testing.T) {
	rows, err := HLD().Load(hldReference())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := rows[0].Extra["life_expectancy_orig"]; got != "19.40" {
		t.Errorf("life_expectancy_orig = %q, want the unparsed %q", got, "19.40")
	}
	if rows[0].LifeExpectancy != 19.4 {
		t.Errorf("LifeExpectancy = %v, want 19.4", rows[0].LifeExpectancy)
	}
}

// One query row fans out into one output row per matching sub-population,
// in reference order, with the sub-population columns appended only when
// at least one match carries them.
func TestHLD_FanOutJoin(t *testing.T) {
	src := HLD()
	refRows, err := src.Load(hldReference())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	idx, err := lifetable.Build(src.Spec, refRows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	in := table.New("age", "sex", "year", "country")
	in.Append(table.Row{"age": "60", "sex": "male", "year": "2002", "country": "usa"})

	out, stats, err := lifetable.NewJoiner(idx, nil, "").Join(in)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("output rows = %d, want 3 (total + urban + rural)", out.Len())
	}
	if stats.FanOut != 2 || stats.Nearest != 1 {
		t.Errorf("stats = %+v", stats)
	}

	for _, row := range out.Rows {
		if row["hld_country"] != "USA" || row["hld_sex"] != "M" || row["hld_year1"] != "2000" {
			t.Errorf("matched dims = %q/%q/%q", row["hld_country"], row["hld_sex"], row["hld_year1"])
		}
	}
	if out.Rows[0]["hld_residence"] != "" {
		t.Errorf("total row residence = %q, want empty", out.Rows[0]["hld_residence"])
	}
	if out.Rows[1]["hld_residence"] != "Urban" || out.Rows[2]["hld_residence"] != "Rural" {
		t.Errorf("fan-out order = %q, %q", out.Rows[1]["hld_residence"], out.Rows[2]["hld_residence"])
	}

	if !out.HasColumn("hld_residence") {
		t.Error("hld_residence should be declared, a match populated it")
	}
	if out.HasColumn("hld_ethnicity") {
		t.Error("hld_ethnicity declared but no match populated it")
	}
	if out.HasColumn("hld_life_expectancy_orig") != true {
		t.Error("hld_life_expectancy_orig should be declared")
	}
}

func TestHLD_CountryWithoutSexPartition(t *testing.T) {
	src := HLD()
	refRows, err := src.Load(hldReference())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	idx, err := lifetable.Build(src.Spec, refRows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// CAN has only female rows; a male query is a partition miss, not an
	// unknown country.
	in := table.New("age", "sex", "year", "country")
	in.Append(table.Row{"age": "60", "sex": "M", "year": "2001", "country": "CAN"})

	out, stats, err := lifetable.NewJoiner(idx, nil, lifetable.PolicyDrop).Join(in)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("drop policy kept %d rows", out.Len())
	}
	if stats.Unmatched != 1 || len(stats.Failures) != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}
