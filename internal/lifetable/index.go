package lifetable

import (
	"sort"
	"strings"
)

// Index is an immutable lookup structure over one reference dataset,
// partitioned by country and sex with sorted year and age levels inside.
// Build it once per load; it is read-only afterwards and safe to share
// across concurrent joins.
type Index struct {
	spec       *SourceSpec
	partitions map[partitionKey]*partition
	countries  map[string]string // uppercased code -> canonical code
}

type partitionKey struct {
	country string
	sex     string
}

// partition holds the rows sharing one (country, sex) key.
type partition struct {
	years  []int
	byYear map[int]*ageSet
}

// ageSet holds the rows of one year, keyed by age. The slice per age has
// exactly one element unless the source allows sub-population fan-out.
type ageSet struct {
	ages  []int
	byAge map[int][]ReferenceRow
}

// Build constructs the index for a source from already-typed reference
// rows. Rows missing a required dimension are rejected with a
// MalformedRowError; construction aborts on the first defect.
func Build(spec *SourceSpec, rows []ReferenceRow) (*Index, error) {
	idx := &Index{
		spec:       spec,
		partitions: make(map[partitionKey]*partition),
		countries:  make(map[string]string),
	}

	for i, row := range rows {
		if row.Sex == "" {
			return nil, &MalformedRowError{Source: spec.Name, Row: i, Reason: "empty sex code"}
		}
		if spec.HasCountry && row.Country == "" {
			return nil, &MalformedRowError{Source: spec.Name, Row: i, Reason: "empty country code"}
		}
		if row.Age < 0 {
			return nil, &MalformedRowError{Source: spec.Name, Row: i, Reason: "negative age"}
		}

		key := partitionKey{sex: row.Sex}
		if spec.HasCountry {
			key.country = row.Country
			idx.countries[strings.ToUpper(row.Country)] = row.Country
		}

		part := idx.partitions[key]
		if part == nil {
			part = &partition{byYear: make(map[int]*ageSet)}
			idx.partitions[key] = part
		}

		set := part.byYear[row.Year]
		if set == nil {
			set = &ageSet{byAge: make(map[int][]ReferenceRow)}
			part.byYear[row.Year] = set
			part.years = append(part.years, row.Year)
		}

		existing := set.byAge[row.Age]
		if len(existing) > 0 && !spec.FanOut {
			return nil, &MalformedRowError{
				Source: spec.Name,
				Row:    i,
				Reason: "duplicate age within partition",
			}
		}
		if len(existing) == 0 {
			set.ages = append(set.ages, row.Age)
		}
		set.byAge[row.Age] = append(existing, row)
	}

	for _, part := range idx.partitions {
		sort.Ints(part.years)
		for _, set := range part.byYear {
			sort.Ints(set.ages)
		}
	}

	return idx, nil
}

// Spec returns the source configuration the index was built for.
func (idx *Index) Spec() *SourceSpec { return idx.spec }

// CanonicalCountry maps a raw country value to the canonical code used in
// the reference data. A country absent from the reference entirely is an
// UnknownCategory failure, distinct from NoPartitionFound.
func (idx *Index) CanonicalCountry(value string) (string, error) {
	if !idx.spec.HasCountry {
		return "", nil
	}
	canonical, ok := idx.countries[strings.ToUpper(strings.TrimSpace(value))]
	if !ok {
		return "", &CategoryError{Dimension: "country", Value: value}
	}
	return canonical, nil
}

// lookup returns the candidate partition for a canonical country and
// normalized sex code, or a PartitionError when the combination has zero
// rows anywhere.
func (idx *Index) lookup(country, sex string) (*partition, error) {
	part := idx.partitions[partitionKey{country: country, sex: sex}]
	if part == nil {
		return nil, &PartitionError{Country: country, Sex: sex}
	}
	return part, nil
}

// Len returns the total number of indexed rows.
func (idx *Index) Len() int {
	n := 0
	for _, part := range idx.partitions {
		for _, set := range part.byYear {
			for _, rows := range set.byAge {
				n += len(rows)
			}
		}
	}
	return n
}
