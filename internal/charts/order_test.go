package charts

import (
	"sort"
	"testing"
)

func TestCompareContestsCanonicalOrder(t *testing.T) {
	type contest struct{ pos, sub string }
	contests := []contest{
		{"Council", "3"},
		{"Mayor", ""},
		{"Council", "10"},
	}
	sort.SliceStable(contests, func(i, j int) bool {
		return CompareContests(contests[i].pos, contests[i].sub, contests[j].pos, contests[j].sub) < 0
	})
	want := []contest{{"Mayor", ""}, {"Council", "3"}, {"Council", "10"}}
	for i := range want {
		if contests[i] != want[i] {
			t.Fatalf("position %d: expected %+v, got %+v (full order %+v)", i, want[i], contests[i], contests)
		}
	}
}

func TestCompareContestsNumericSubregions(t *testing.T) {
	// "10" must not sort before "3".
	if CompareContests("City Council", "3", "City Council", "10") >= 0 {
		t.Error("district 3 should precede district 10")
	}
	if CompareContests("City Council", "District 9", "City Council", "District 12") >= 0 {
		t.Error("District 9 should precede District 12")
	}
}

func TestCompareContestsLexicalSubregions(t *testing.T) {
	if CompareContests("Borough President", "Bronx", "Borough President", "Queens") >= 0 {
		t.Error("Bronx should precede Queens")
	}
}

func TestCompareContestsMissingSubregionSortsLast(t *testing.T) {
	if CompareContests("City Council", "", "City Council", "40") <= 0 {
		t.Error("contest without subregion should sort after one with it")
	}
}

func TestCompareContestsUnrankedPositionsLast(t *testing.T) {
	if CompareContests("Mayor", "", "School Board", "") >= 0 {
		t.Error("ranked position should precede unranked")
	}
}

func TestCompareCandidatesByLastName(t *testing.T) {
	cases := []struct {
		a, b string
		less bool
	}{
		{"B Jones", "A Smith", true},
		{"A Smith", "B Jones", false},
		{"carol ADAMS", "Dan Baker", true}, // case-insensitive
		{"Ann Lee", "Bob Lee", true},       // tie on last name falls to full name
	}
	for _, tc := range cases {
		if got := CompareCandidates(tc.a, tc.b) < 0; got != tc.less {
			t.Errorf("CompareCandidates(%q, %q) < 0 = %v, expected %v", tc.a, tc.b, got, tc.less)
		}
	}
}

func TestOrderCategoriesPreferredList(t *testing.T) {
	got := OrderCategories(
		[]string{"Unknown", "In City", "Misc", "Unitemized"},
		GeoCategoryOrder,
		nil,
	)
	want := []string{"Unitemized", "In City", "Unknown", "Misc"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestOrderCategoriesByDescendingTotal(t *testing.T) {
	totals := map[string]float64{"Tech": 500, "Retail": 900, "Energy": 100}
	got := OrderCategories([]string{"Energy", "Tech", "Retail"}, nil, totals)
	want := []string{"Retail", "Tech", "Energy"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSubregionNumber(t *testing.T) {
	cases := []struct {
		in string
		n  int
		ok bool
	}{
		{"3", 3, true},
		{"District 12", 12, true},
		{"Bronx", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		n, ok := subregionNumber(tc.in)
		if n != tc.n || ok != tc.ok {
			t.Errorf("%q: expected (%d,%v), got (%d,%v)", tc.in, tc.n, tc.ok, n, ok)
		}
	}
}
