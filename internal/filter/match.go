package filter

// Entity is the minimal view of anything filterable: bars, lines and
// legend entries all reduce to a top-level category (the position) and
// an optional subcategory (the subregion).
type Entity struct {
	Category    string
	Subcategory string
}

// Matches is the single source of truth for filter evaluation. Every
// chart type and the global filter bar must go through this predicate
// so that a token selects exactly the same entities everywhere.
//
// Rules, in order: the all token matches everything; a category token
// matches entities with that top-level category; a compound token
// matches only when both halves agree; anything else does not match.
func Matches(e Entity, t Token) bool {
	switch t.Kind {
	case KindAll:
		return true
	case KindCategory:
		return e.Category == t.Category
	case KindSubcategory:
		return e.Category == t.Category && e.Subcategory == t.Sub
	default:
		return false
	}
}
