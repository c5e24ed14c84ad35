package core

import (
	"fmt"
	"math"
	"strconv"
)

// FormatUSD renders a dollar amount compactly for axis labels and
// tooltips: $2.4M, $340K, $750. The same function backs every call
// site so a value never formats two different ways on one page.
//
// Examples:
//
//	FormatUSD(2400000) -> "$2.4M"
//	FormatUSD(340000)  -> "$340K"
//	FormatUSD(750)     -> "$750"
func FormatUSD(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	var s string
	switch {
	case amount >= 1_000_000:
		s = "$" + trimZero(amount/1_000_000) + "M"
	case amount >= 1_000:
		s = "$" + strconv.FormatInt(int64(math.Round(amount/1_000)), 10) + "K"
	default:
		s = "$" + trimZero(amount)
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatCount renders donor counts the same way minus the currency
// sign: 12.5K, 980.
func FormatCount(n float64) string {
	if n >= 1_000 {
		return trimZero(n/1_000) + "K"
	}
	return trimZero(n)
}

// FormatPercent renders a bar-share percentage with one decimal at
// most ("42%", "7.5%").
func FormatPercent(pct float64) string {
	return trimZero(math.Round(pct*10)/10) + "%"
}

// trimZero formats with one decimal place, dropping a trailing ".0".
func trimZero(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
