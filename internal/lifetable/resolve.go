package lifetable

// Closest returns the value in available (sorted ascending) nearest to
// want. Exact matches win; otherwise the minimal absolute distance wins,
// and when two values are equidistant the LOWER value is chosen. This
// tie-break is the documented default: a symmetric "closest year" must not
// silently prefer future data over past data.
//
// The comparison is explicit rather than derived from a sort so the
// tie-break cannot drift with incidental ordering behavior.
func Closest(available []int, want int) int {
	best := available[0]
	bestDist := abs(best - want)
	for _, v := range available[1:] {
		d := abs(v - want)
		// Strict less-than keeps the earlier (lower) value on ties,
		// since available is sorted ascending.
		if d < bestDist {
			best = v
			bestDist = d
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Resolver implements nearest-age / nearest-year / exact-category matching
// against one Index.
type Resolver struct {
	index *Index
}

// NewResolver creates a resolver for the given index.
func NewResolver(index *Index) *Resolver {
	return &Resolver{index: index}
}

// ResolveYear picks the matched year from the partition's available years.
func (r *Resolver) ResolveYear(available []int, requested int) int {
	return Closest(available, requested)
}

// ResolveAge picks the matched age within the already-fixed year. Year is
// resolved first because age coverage varies by year and country more than
// the reverse; age is never matched across the full year cross-product.
func (r *Resolver) ResolveAge(available []int, requested int) int {
	return Closest(available, requested)
}

// Resolve matches one query against the index. It returns one match, or
// several when the source's sub-population fan-out applies. Category
// failures surface as ErrUnknownCategory, empty partitions as
// ErrNoPartition; both leave the caller's row policy to the join stage.
func (r *Resolver) Resolve(q Query) ([]Match, error) {
	spec := r.index.Spec()

	sex, err := spec.NormalizeSex(q.Sex)
	if err != nil {
		return nil, err
	}
	country, err := r.index.CanonicalCountry(q.Country)
	if err != nil {
		return nil, err
	}

	part, err := r.index.lookup(country, sex)
	if err != nil {
		return nil, err
	}

	year := r.ResolveYear(part.years, q.Year)
	set := part.byYear[year]
	age := r.ResolveAge(set.ages, q.Age)

	rows := set.byAge[age]
	if !spec.FanOut {
		rows = rows[:1]
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, Match{
			Row:            row,
			MatchedAge:     age,
			MatchedYear:    year,
			MatchedSex:     sex,
			MatchedCountry: country,
		})
	}
	return matches, nil
}
