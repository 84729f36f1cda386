package source

import (
	"errors"
	"testing"

	"github.com/gojiplus/lostyears/internal/lifetable"
	"github.com/gojiplus/lostyears/internal/table"
)

func ssaReference() *table.Table {
	t := table.New("age", "male_life_expectancy", "female_life_expectancy", "year")
	t.Append(table.Row{"age": "80", "male_life_expectancy": "7.62", "female_life_expectancy": "9.10", "year": "2004"})
	t.Append(table.Row{"age": "5", "male_life_expectancy": "70.90", "female_life_expectancy": "76.20", "year": "2004"})
	t.Append(table.Row{"age": "80", "male_life_expectancy": "7.90", "female_life_expectancy": "9.50", "year": "2016"})
	t.Append(table.Row{"age": "5", "male_life_expectancy": "71.60", "female_life_expectancy": "76.80", "year": "2016"})
	return t
}

func TestLoadSSA_FansBothSexes(t *testing.T) {
	rows, err := SSA().Load(ssaReference())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("rows = %d, want 8 (4 CSV rows x 2 sexes)", len(rows))
	}
	if rows[0].Sex != "M" || rows[1].Sex != "F" {
		t.Errorf("expected alternating M/F rows, got %q, %q", rows[0].Sex, rows[1].Sex)
	}
	if rows[0].LifeExpectancy != 7.62 || rows[1].LifeExpectancy != 9.10 {
		t.Errorf("life expectancies = %v, %v", rows[0].LifeExpectancy, rows[1].LifeExpectancy)
	}
}

func TestLoadSSA_Malformed(t *testing.T) {
	bad := table.New("age", "male_life_expectancy", "female_life_expectancy", "year")
	bad.Append(table.Row{"age": "80", "male_life_expectancy": "", "female_life_expectancy": "9.10", "year": "2004"})

	_, err := SSA().Load(bad)
	if !errors.Is(err, lifetable.ErrMalformedRow) {
		t.Errorf("expected ErrMalformedRow, got %v", err)
	}
}

// The two documented SSA reference cases: a year absent from the table
// resolves to the nearest available year (ties to the lower), and an
// out-of-range year clamps to the boundary.
func TestSSA_NearestYearExamples(t *testing.T) {
	src := SSA()
	refRows, err := src.Load(ssaReference())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	idx, err := lifetable.Build(src.Spec, refRows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	joiner := lifetable.NewJoiner(idx, nil, "")

	in := table.New("age", "sex", "year")
	in.Append(table.Row{"age": "80", "sex": "M", "year": "2003"})
	in.Append(table.Row{"age": "5", "sex": "M", "year": "2019"})

	out, stats, err := joiner.Join(in)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if stats.Output != 2 || stats.Unmatched != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	first := out.Rows[0]
	if first["ssa_age"] != "80" || first["ssa_year"] != "2004" || first["ssa_life_expectancy"] != "7.62" {
		t.Errorf("2003 query: got %q/%q/%q, want 80/2004/7.62",
			first["ssa_age"], first["ssa_year"], first["ssa_life_expectancy"])
	}

	second := out.Rows[1]
	if second["ssa_age"] != "5" || second["ssa_year"] != "2016" || second["ssa_life_expectancy"] != "71.6" {
		t.Errorf("2019 query: got %q/%q/%q, want 5/2016/71.6",
			second["ssa_age"], second["ssa_year"], second["ssa_life_expectancy"])
	}
}

func TestSSA_ExactStoredValue(t *testing.T) {
	src := SSA()
	refRows, err := src.Load(ssaReference())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	idx, err := lifetable.Build(src.Spec, refRows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	in := table.New("age", "sex", "year")
	in.Append(table.Row{"age": "5", "sex": "F", "year": "2016"})

	out, stats, err := lifetable.NewJoiner(idx, nil, "").Join(in)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if stats.Exact != 1 {
		t.Errorf("stats.Exact = %d, want 1", stats.Exact)
	}
	row := out.Rows[0]
	if row["ssa_age"] != "5" || row["ssa_year"] != "2016" || row["ssa_life_expectancy"] != "76.8" {
		t.Errorf("exact query: got %q/%q/%q", row["ssa_age"], row["ssa_year"], row["ssa_life_expectancy"])
	}
}
