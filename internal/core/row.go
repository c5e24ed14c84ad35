// Package core holds the domain types and pure transforms shared by
// every chart builder: raw-row normalization, contest/candidate keys,
// and value formatting.
//
// Everything in this package is a total function over its documented
// input: malformed rows are coerced or dropped, never rejected with an
// error, because aggregation is a best-effort reshape rather than a
// validator.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawRow is a contribution record exactly as a row source hands it
// over: stringly typed, unvalidated, possibly incomplete. Amount may
// arrive as a float, an int, a json.Number or a string with currency
// noise, depending on the backend.
type RawRow struct {
	CandidateName string `json:"candidate_name"`
	Position      string `json:"position"`
	Subregion     string `json:"subregion,omitempty"`
	Category      string `json:"category"`
	Amount        any    `json:"amount"`
	Date          string `json:"date,omitempty"`
	FundsType     string `json:"funds_type,omitempty"`
	SboeID        string `json:"sboe_id,omitempty"`
	OrgGroupID    string `json:"org_group_id,omitempty"`
	CFBCandID     string `json:"cfb_candid,omitempty"`
}

// Row is a normalized contribution record ready for grouping. Date is
// kept as the source ISO string; it is only ever compared and
// displayed, never converted between timezones.
type Row struct {
	CandidateName string
	Position      string
	Subregion     string
	Category      string
	Amount        float64
	Date          string
	FundsType     FundsType
	SboeID        string
	OrgGroupID    string
	CFBCandID     string
}

// CandidateRef identifies one candidate registered in a contest,
// independent of whether any contribution rows exist for them. Rosters
// feed the no-data placeholder bars.
type CandidateRef struct {
	Name      string `json:"name"`
	Position  string `json:"position"`
	Subregion string `json:"subregion,omitempty"`
}

// NormalizeRows coerces raw rows into typed ones. Rows without a
// candidate name are dropped silently; they cannot be grouped. No
// other field is validated, so a garbage category value flows through
// and surfaces as its literal label.
func NormalizeRows(raws []RawRow) []Row {
	rows := make([]Row, 0, len(raws))
	for _, r := range raws {
		name := strings.TrimSpace(r.CandidateName)
		if name == "" {
			continue
		}
		rows = append(rows, Row{
			CandidateName: name,
			Position:      strings.TrimSpace(r.Position),
			Subregion:     strings.TrimSpace(r.Subregion),
			Category:      strings.TrimSpace(r.Category),
			Amount:        CoerceAmount(r.Amount),
			Date:          strings.TrimSpace(r.Date),
			FundsType:     normalizeFundsType(r.FundsType),
			SboeID:        strings.TrimSpace(r.SboeID),
			OrgGroupID:    strings.TrimSpace(r.OrgGroupID),
			CFBCandID:     strings.TrimSpace(r.CFBCandID),
		})
	}
	return rows
}

// CoerceAmount turns whatever a row source put in the amount field
// into a finite float64. Anything unparseable, NaN or infinite maps to
// 0 so downstream sums stay defined.
func CoerceAmount(v any) float64 {
	var f float64
	switch a := v.(type) {
	case nil:
		return 0
	case float64:
		f = a
	case float32:
		f = float64(a)
	case int:
		f = float64(a)
	case int64:
		f = float64(a)
	case json.Number:
		f, _ = a.Float64()
	case string:
		f = parseAmountString(a)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseAmountString handles amounts exported as text, tolerating a
// leading dollar sign and thousands separators ("$1,234.50").
func parseAmountString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func normalizeFundsType(s string) FundsType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public", "match", "matching":
		return PublicFunds
	case "private":
		return PrivateFunds
	default:
		return ""
	}
}
