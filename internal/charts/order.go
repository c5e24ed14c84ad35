package charts

import (
	"sort"
	"strconv"
	"strings"

	"campfin/internal/core"
)

// positionRanks fixes the display hierarchy of contests. Unlisted
// positions rank last.
var positionRanks = map[string]int{
	"Governor":          1,
	"Mayor":             1,
	"Public Advocate":   2,
	"Comptroller":       3,
	"District Attorney": 4,
	"Borough President": 5,
	"City Council":      6,
	"Council":           6,
}

const unrankedPosition = 999

// Donor-location buckets in their fixed presentation order. These
// override the descending-total fallback: geography reads outward from
// the district regardless of which bucket raised the most.
const (
	LocUnitemized = "Unitemized"
	LocInCity     = "In City"
	LocInState    = "In State"
	LocOutOfState = "Out of State"
	LocUnknown    = "Unknown"
)

// GeoCategoryOrder is the canonical segment order for donor-location
// charts.
var GeoCategoryOrder = []string{LocUnitemized, LocInCity, LocInState, LocOutOfState, LocUnknown}

// PositionRank maps a position name onto the contest hierarchy.
func PositionRank(position string) int {
	if r, ok := positionRanks[position]; ok {
		return r
	}
	return unrankedPosition
}

// CompareContests orders two contests: position rank first, then
// subregion. Subregions containing integers compare numerically so
// district 3 precedes district 10; otherwise the comparison is
// lexicographic. When positions tie, a contest without a subregion
// sorts after one with it.
func CompareContests(posA, subA, posB, subB string) int {
	ra, rb := PositionRank(posA), PositionRank(posB)
	if ra != rb {
		return ra - rb
	}
	if posA != posB {
		return strings.Compare(posA, posB)
	}
	switch {
	case subA == "" && subB == "":
		return 0
	case subA == "":
		return 1
	case subB == "":
		return -1
	}
	na, okA := subregionNumber(subA)
	nb, okB := subregionNumber(subB)
	if okA && okB {
		return na - nb
	}
	return strings.Compare(subA, subB)
}

// subregionNumber extracts the first integer run from a subregion
// value ("District 12" -> 12).
func subregionNumber(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start == -1 {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:])
	return n, err == nil
}

// CompareCandidates orders candidates within a contest alphabetically
// by last name, case-insensitive, falling back to the full name.
func CompareCandidates(a, b string) int {
	la := strings.ToLower(core.LastName(a))
	lb := strings.ToLower(core.LastName(b))
	if la != lb {
		return strings.Compare(la, lb)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// sortEntities applies the canonical bar/line order: contests first,
// candidates alphabetically within each contest.
func sortEntities(entities []entityMeta) {
	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if c := CompareContests(a.Position, a.Subregion, b.Position, b.Subregion); c != 0 {
			return c < 0
		}
		return CompareCandidates(a.Name, b.Name) < 0
	})
}

// OrderCategories computes the canonical segment order. A preferred
// list is used verbatim with unlisted categories appended last in
// stable order; without one, categories sort by descending total value
// across all entities.
func OrderCategories(categories []string, preferred []string, totals map[string]float64) []string {
	if len(preferred) > 0 {
		seen := make(map[string]bool, len(categories))
		for _, c := range categories {
			seen[c] = true
		}
		out := make([]string, 0, len(categories))
		inPreferred := make(map[string]bool, len(preferred))
		for _, p := range preferred {
			inPreferred[p] = true
			if seen[p] {
				out = append(out, p)
			}
		}
		for _, c := range categories {
			if !inPreferred[c] {
				out = append(out, c)
			}
		}
		return out
	}
	out := append([]string(nil), categories...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := totals[out[i]], totals[out[j]]
		if ti != tj {
			return ti > tj
		}
		return out[i] < out[j]
	})
	return out
}
