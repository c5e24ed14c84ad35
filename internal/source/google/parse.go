package google

import (
	"strconv"
	"strings"

	"campfin/internal/core"
)

// parseRows converts a values matrix (as returned by the Sheets API)
// into raw chart rows. The first row is a header; unknown columns are
// ignored and missing cells read as empty. Amounts stay untyped here;
// normalization handles the coercion.
func parseRows(values [][]interface{}) []core.RawRow {
	if len(values) < 2 {
		return nil
	}
	idx := headerIndex(toStrings(values[0]))
	var out []core.RawRow
	for _, rowVals := range values[1:] {
		row := toStrings(rowVals)
		raw := core.RawRow{
			CandidateName: cell(row, idx, "candidate_name"),
			Position:      cell(row, idx, "position"),
			Subregion:     cell(row, idx, "subregion"),
			Category:      cell(row, idx, "category"),
			Amount:        cell(row, idx, "amount"),
			Date:          cell(row, idx, "date"),
			FundsType:     cell(row, idx, "funds_type"),
			SboeID:        cell(row, idx, "sboe_id"),
			OrgGroupID:    cell(row, idx, "org_group_id"),
			CFBCandID:     cell(row, idx, "cfb_candid"),
		}
		out = append(out, raw)
	}
	return out
}

// parseRoster converts a values matrix into roster entries, skipping
// rows without a name.
func parseRoster(values [][]interface{}) []core.CandidateRef {
	if len(values) < 2 {
		return nil
	}
	idx := headerIndex(toStrings(values[0]))
	var out []core.CandidateRef
	for _, rowVals := range values[1:] {
		row := toStrings(rowVals)
		name := cell(row, idx, "name")
		if name == "" {
			continue
		}
		out = append(out, core.CandidateRef{
			Name:      name,
			Position:  cell(row, idx, "position"),
			Subregion: cell(row, idx, "subregion"),
		})
	}
	return out
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func toStrings(vals []interface{}) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		switch s := v.(type) {
		case string:
			out[i] = s
		case float64:
			// Sheets hands numeric cells over as float64.
			out[i] = strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return out
}
