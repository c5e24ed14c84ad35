package charts

import "campfin/internal/core"

// Selector picks a grouping key out of a row.
type Selector func(core.Row) string

// ValueOf picks the summed quantity out of a row.
type ValueOf func(core.Row) float64

// ByCategory is the default category selector.
func ByCategory(r core.Row) string { return r.Category }

// AmountOf is the default value selector.
func AmountOf(r core.Row) float64 { return r.Amount }

// entityMeta pins the display attributes of one entity. Populated from
// the first row seen for the entity, or from the contest roster for
// entities with no rows at all.
type entityMeta struct {
	Name       string
	Position   string
	Subregion  string
	SboeID     string
	OrgGroupID string
}

// Totals is the output of one aggregation pass: per-entity per-category
// sums plus the marginals both orderings and the percentage variants
// need.
type Totals struct {
	// Values maps entity name -> category -> summed value.
	Values map[string]map[string]float64
	// EntityTotal maps entity name -> sum across its categories.
	EntityTotal map[string]float64
	// CategoryTotal maps category -> sum across all entities, used for
	// the descending-total fallback ordering.
	CategoryTotal map[string]float64

	meta map[string]entityMeta
}

// Aggregate groups rows by entity and category, summing the selected
// value per cell. Entities whose rows all sum to zero stay in the
// result; dropping them would make known candidates vanish from their
// contest's charts.
func Aggregate(rows []core.Row, categoryOf Selector, valueOf ValueOf) Totals {
	if categoryOf == nil {
		categoryOf = ByCategory
	}
	if valueOf == nil {
		valueOf = AmountOf
	}
	t := Totals{
		Values:        make(map[string]map[string]float64),
		EntityTotal:   make(map[string]float64),
		CategoryTotal: make(map[string]float64),
		meta:          make(map[string]entityMeta),
	}
	for _, r := range rows {
		name := r.CandidateName
		cell, ok := t.Values[name]
		if !ok {
			cell = make(map[string]float64)
			t.Values[name] = cell
			t.meta[name] = entityMeta{
				Name:       name,
				Position:   r.Position,
				Subregion:  r.Subregion,
				SboeID:     r.SboeID,
				OrgGroupID: r.OrgGroupID,
			}
		}
		cat := categoryOf(r)
		v := valueOf(r)
		cell[cat] += v
		t.EntityTotal[name] += v
		t.CategoryTotal[cat] += v
	}
	return t
}

// addRoster folds contest-roster entries into the totals so candidates
// with zero matching rows still get an (empty) entry.
func (t *Totals) addRoster(roster []core.CandidateRef) {
	for _, ref := range roster {
		if ref.Name == "" {
			continue
		}
		if _, ok := t.Values[ref.Name]; ok {
			continue
		}
		t.Values[ref.Name] = make(map[string]float64)
		t.meta[ref.Name] = entityMeta{
			Name:      ref.Name,
			Position:  ref.Position,
			Subregion: ref.Subregion,
		}
	}
}

// entities returns the aggregated entities in canonical display order:
// contest order first, then candidate order within a contest.
func (t *Totals) entities() []entityMeta {
	out := make([]entityMeta, 0, len(t.meta))
	for _, m := range t.meta {
		out = append(out, m)
	}
	sortEntities(out)
	return out
}
