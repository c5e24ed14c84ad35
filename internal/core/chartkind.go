package core

// Chart kinds the dashboard serves. Each kind maps to its own row set
// in the data store: rows arrive already bucketed by donor location,
// donation size, donor industry, funding totals, or filing date.
const (
	ChartLocation = "location"
	ChartSize     = "size"
	ChartIndustry = "industry"
	ChartTotals   = "totals"
	ChartTimeline = "timeline"
)

// ChartKinds lists every served chart in display order.
func ChartKinds() []string {
	return []string{ChartLocation, ChartSize, ChartIndustry, ChartTotals, ChartTimeline}
}

// ValidChart reports whether s names a served chart.
func ValidChart(s string) bool {
	switch s {
	case ChartLocation, ChartSize, ChartIndustry, ChartTotals, ChartTimeline:
		return true
	}
	return false
}
