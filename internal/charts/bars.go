package charts

import (
	"sort"

	"campfin/internal/core"
)

// BarOptions configures one segmented-bar build.
type BarOptions struct {
	// Category picks the segment label from a row; defaults to the
	// row's category field.
	Category Selector
	// Value picks the summed quantity; defaults to the dollar amount.
	Value ValueOf
	// CategoryColors maps segment labels to colors. When set, labels
	// missing from the map get the neutral fallback. When nil, each
	// bar's segments take the candidate's registry color instead.
	CategoryColors map[string]string
	// CategoryOrder forces an explicit segment order (e.g. the
	// geographic buckets). Empty means descending global total.
	CategoryOrder []string
	// Roster lists every candidate registered in the covered contests,
	// so candidates with no rows still appear as no-data bars.
	Roster []core.CandidateRef
	// Registry assigns candidate colors; required when CategoryColors
	// is nil.
	Registry *Registry
}

// BuildBars reshapes rows into one segmented bar per candidate, in
// canonical contest and candidate order. Zero-valued cells produce no
// segment; candidates whose total is zero (no rows, or rows summing to
// zero) come back with HasNoData set and an empty segment list, the
// same way at every call site. The returned bars carry absolute
// display values; see PercentBars and AbsoluteBars for the two
// presentation variants.
func BuildBars(rows []core.Row, opts BarOptions) []core.Bar {
	totals := Aggregate(rows, opts.Category, opts.Value)
	totals.addRoster(opts.Roster)

	allCats := make([]string, 0, len(totals.CategoryTotal))
	for c := range totals.CategoryTotal {
		allCats = append(allCats, c)
	}
	sort.Strings(allCats)
	catOrder := OrderCategories(allCats, opts.CategoryOrder, totals.CategoryTotal)

	entities := totals.entities()
	bars := make([]core.Bar, 0, len(entities))
	for _, e := range entities {
		cells := totals.Values[e.Name]
		total := totals.EntityTotal[e.Name]
		bar := core.Bar{
			Label:          e.Name,
			ImageURL:       ImageFor(e.Name),
			LinkURL:        LinkFor(e.Name, e.SboeID, e.OrgGroupID),
			Position:       e.Position,
			Subregion:      e.Subregion,
			Segments:       []core.Segment{},
			FormattedTotal: core.FormatUSD(total),
		}
		if total == 0 {
			bar.HasNoData = true
			bars = append(bars, bar)
			continue
		}
		for _, cat := range catOrder {
			v := cells[cat]
			if v == 0 {
				continue
			}
			color := ""
			if opts.CategoryColors != nil {
				color = CategoryColor(opts.CategoryColors, cat)
			} else if opts.Registry != nil {
				color = opts.Registry.ColorFor(e.Name)
			} else {
				color = NeutralColor
			}
			bar.Segments = append(bar.Segments, core.Segment{
				Label:        cat,
				RawValue:     v,
				Color:        color,
				DisplayValue: v,
				Tooltip:      core.FormatUSD(v),
			})
		}
		bars = append(bars, bar)
	}
	return bars
}

// PercentBars returns a copy of bars with each segment's display value
// normalized to its share of the bar total, tooltip "42% ($1.2K)". A
// zero bar total yields 0, never NaN.
func PercentBars(bars []core.Bar) []core.Bar {
	return remapSegments(bars, func(s core.Segment, total float64) core.Segment {
		pct := 0.0
		if total > 0 {
			pct = s.RawValue / total * 100
		}
		s.DisplayValue = pct
		s.Tooltip = core.FormatPercent(pct) + " (" + core.FormatUSD(s.RawValue) + ")"
		return s
	})
}

// AbsoluteBars returns a copy of bars with raw display values, tooltip
// "$1.2K (42%)".
func AbsoluteBars(bars []core.Bar) []core.Bar {
	return remapSegments(bars, func(s core.Segment, total float64) core.Segment {
		pct := 0.0
		if total > 0 {
			pct = s.RawValue / total * 100
		}
		s.DisplayValue = s.RawValue
		s.Tooltip = core.FormatUSD(s.RawValue) + " (" + core.FormatPercent(pct) + ")"
		return s
	})
}

// remapSegments deep-copies bars, rewriting each segment through f.
// RawValue survives untouched for downstream recomputation.
func remapSegments(bars []core.Bar, f func(core.Segment, float64) core.Segment) []core.Bar {
	out := make([]core.Bar, len(bars))
	for i, b := range bars {
		nb := b
		nb.Segments = make([]core.Segment, len(b.Segments))
		total := b.Total()
		for j, s := range b.Segments {
			nb.Segments[j] = f(s, total)
		}
		out[i] = nb
	}
	return out
}
