package charts

import (
	"sort"

	"campfin/internal/core"
)

// LineOptions configures one line-series build.
type LineOptions struct {
	// Value picks the plotted quantity; defaults to the dollar amount.
	Value ValueOf
	// Registry assigns candidate colors.
	Registry *Registry
}

// BuildLines reshapes rows into one point series per candidate, in
// canonical candidate order. Each point holds the sum of that date's
// rows, not a running total. Rows tagged with a funds
// type split into paired private/public lines sharing a CandidateID so
// hovering either highlights both. A line whose values never rise
// above zero is suppressed: it would only render as baseline noise.
func BuildLines(rows []core.Row, opts LineOptions) core.LineBundle {
	valueOf := opts.Value
	if valueOf == nil {
		valueOf = AmountOf
	}

	type seriesAcc struct {
		meta    entityMeta
		private map[string]float64 // date -> value
		public  map[string]float64
	}
	byName := make(map[string]*seriesAcc)
	order := make([]entityMeta, 0)

	for _, r := range rows {
		acc, ok := byName[r.CandidateName]
		if !ok {
			acc = &seriesAcc{
				meta: entityMeta{
					Name:       r.CandidateName,
					Position:   r.Position,
					Subregion:  r.Subregion,
					SboeID:     r.SboeID,
					OrgGroupID: r.OrgGroupID,
				},
				private: make(map[string]float64),
				public:  make(map[string]float64),
			}
			byName[r.CandidateName] = acc
			order = append(order, acc.meta)
		}
		if r.FundsType == core.PublicFunds {
			acc.public[r.Date] += valueOf(r)
		} else {
			acc.private[r.Date] += valueOf(r)
		}
	}
	sortEntities(order)

	bundle := core.LineBundle{Series: []core.PairedSeries{}}
	for _, meta := range order {
		acc := byName[meta.Name]
		private := buildLine(meta, core.PrivateFunds, acc.private, opts.Registry)
		public := buildLine(meta, core.PublicFunds, acc.public, opts.Registry)

		switch {
		case private != nil && public != nil:
			// Paired lines share the candidate id so the highlight
			// coordinator treats them as one logical unit.
			private.CandidateID = meta.Name
			public.CandidateID = meta.Name
			bundle.Series = append(bundle.Series, core.PairedSeries{Primary: *private, Secondary: public})
		case private != nil:
			private.Type = ""
			bundle.Series = append(bundle.Series, core.PairedSeries{Primary: *private})
		case public != nil:
			bundle.Series = append(bundle.Series, core.PairedSeries{Primary: *public})
		}
	}
	return bundle
}

// buildLine materializes one line from a date->value map, or nil when
// every point is at or below zero.
func buildLine(meta entityMeta, funds core.FundsType, byDate map[string]float64, reg *Registry) *core.Line {
	if len(byDate) == 0 {
		return nil
	}
	points := make([]core.Point, 0, len(byDate))
	anyPositive := false
	for date, v := range byDate {
		if v > 0 {
			anyPositive = true
		}
		points = append(points, core.Point{Date: date, Value: v})
	}
	if !anyPositive {
		return nil
	}
	// ISO date strings sort correctly as plain strings.
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	color := NeutralColor
	if reg != nil {
		color = reg.ColorFor(meta.Name)
	}
	line := &core.Line{
		Label:     meta.Name,
		DataKey:   meta.Name,
		Color:     color,
		Position:  meta.Position,
		Subregion: meta.Subregion,
		Type:      funds,
		LinkURL:   LinkFor(meta.Name, meta.SboeID, meta.OrgGroupID),
		Points:    points,
	}
	if funds == core.PublicFunds {
		line.Label = meta.Name + " (public funds)"
		line.DataKey = meta.Name + ":public"
	}
	return line
}
