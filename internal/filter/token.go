// Package filter implements the selector logic shared by every chart:
// the filter-token wire format, the single matching predicate, and the
// coordinator that reconciles global, per-chart and hover state.
package filter

import "strings"

// Separator joins category and subcategory in the compound wire form.
const Separator = ":"

// allLiteral is the wire spelling of the match-everything token.
const allLiteral = "all"

// Kind discriminates the three token shapes.
type Kind int

const (
	KindAll Kind = iota
	KindCategory
	KindSubcategory
)

// Token is the parsed form of a filter selector. Consumers switch on
// Kind instead of re-splitting strings at every call site.
type Token struct {
	Kind     Kind   `json:"kind"`
	Category string `json:"category,omitempty"`
	Sub      string `json:"sub,omitempty"`
}

// All returns the match-everything token.
func All() Token { return Token{Kind: KindAll} }

// Category returns a top-level category token.
func Category(id string) Token { return Token{Kind: KindCategory, Category: id} }

// Subcategory returns a compound category+subcategory token.
func Subcategory(category, id string) Token {
	return Token{Kind: KindSubcategory, Category: category, Sub: id}
}

// Parse decodes the wire format: "all", a bare category id, or
// "category:subcategory". Empty input decodes as the all token. The
// subcategory half keeps any further separators intact.
func Parse(s string) Token {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, allLiteral) {
		return All()
	}
	if cat, sub, found := strings.Cut(s, Separator); found {
		return Subcategory(cat, sub)
	}
	return Category(s)
}

// String encodes the token back into the wire format. Parse(t.String())
// round-trips for every token.
func (t Token) String() string {
	switch t.Kind {
	case KindCategory:
		return t.Category
	case KindSubcategory:
		return t.Category + Separator + t.Sub
	default:
		return allLiteral
	}
}

// IsAll reports whether the token matches everything.
func (t Token) IsAll() bool { return t.Kind == KindAll }
