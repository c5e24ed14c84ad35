package core

import "strings"

// FundsType distinguishes the two halves of a matched-funds campaign:
// money raised privately versus public matching funds paid out.
type FundsType string

const (
	PrivateFunds FundsType = "private"
	PublicFunds  FundsType = "public"
)

type (
	// Candidate carries the display metadata attached to every bar and
	// line built for one entity. Color is assigned once per registry
	// lifetime and is stable across charts.
	Candidate struct {
		Name      string `json:"name"`
		Position  string `json:"position"`
		Subregion string `json:"subregion,omitempty"`
		Color     string `json:"color"`
		ImageURL  string `json:"imageUrl,omitempty"`
		LinkURL   string `json:"linkUrl,omitempty"`
	}

	// Segment is one colored portion of a bar: one category's share of
	// an entity's total. RawValue is always the summed source amount;
	// DisplayValue is either a percentage or the raw value depending on
	// which bar variant produced it.
	Segment struct {
		Label        string  `json:"label"`
		RawValue     float64 `json:"rawValue"`
		Color        string  `json:"color"`
		DisplayValue float64 `json:"displayValue"`
		Tooltip      string  `json:"tooltip"`
	}

	// Bar is one candidate's fully decomposed total for a segmented-bar
	// chart. HasNoData marks candidates that appear in the contest
	// roster but have nothing to show; such bars carry no segments.
	Bar struct {
		Label          string    `json:"label"`
		ImageURL       string    `json:"imageUrl,omitempty"`
		LinkURL        string    `json:"linkUrl,omitempty"`
		Position       string    `json:"position"`
		Subregion      string    `json:"subregion,omitempty"`
		Segments       []Segment `json:"segments"`
		HasNoData      bool      `json:"hasNoData"`
		FormattedTotal string    `json:"formattedTotal"`
	}

	// Point is a single dated value on a line. Date is an ISO yyyy-mm-dd
	// string treated as an opaque sort key, never parsed into a
	// calendar-aware instant.
	Point struct {
		Date  string  `json:"date"`
		Value float64 `json:"value"`
	}

	// Line is one point series. Paired public/private lines share a
	// CandidateID so hover and filtering treat them as one unit.
	Line struct {
		Label       string    `json:"label"`
		DataKey     string    `json:"dataKey"`
		Color       string    `json:"color"`
		Position    string    `json:"position"`
		Subregion   string    `json:"subregion,omitempty"`
		CandidateID string    `json:"candidateId,omitempty"`
		Type        FundsType `json:"type,omitempty"`
		LinkURL     string    `json:"linkUrl,omitempty"`
		Points      []Point   `json:"points"`
	}

	// PairedSeries makes the public/private pairing explicit instead of
	// leaving consumers to re-match CandidateID strings. Secondary is
	// nil for candidates without a funding split.
	PairedSeries struct {
		Primary   Line  `json:"primary"`
		Secondary *Line `json:"secondary,omitempty"`
	}

	// LineBundle is the render-ready output of the line builder.
	LineBundle struct {
		Series []PairedSeries `json:"series"`
	}
)

// Lines flattens the bundle into draw order: each primary line followed
// by its secondary, candidates in bundle order.
func (b LineBundle) Lines() []Line {
	out := make([]Line, 0, len(b.Series)*2)
	for _, s := range b.Series {
		out = append(out, s.Primary)
		if s.Secondary != nil {
			out = append(out, *s.Secondary)
		}
	}
	return out
}

// Total sums the raw values of the bar's segments.
func (b Bar) Total() float64 {
	var t float64
	for _, s := range b.Segments {
		t += s.RawValue
	}
	return t
}

// ContestKey clusters entities competing for the same seat. Subregion
// is empty for city-wide offices.
func ContestKey(position, subregion string) string {
	if subregion == "" {
		return position
	}
	return position + ":" + subregion
}

// LastName returns the final whitespace-separated token of a full name,
// used for alphabetical candidate ordering within a contest.
func LastName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
