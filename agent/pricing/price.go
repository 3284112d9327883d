package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice converts a raw price string from the price list into a decimal.
// Price sources are hand-maintained spreadsheets, so parsing is deliberately
// forgiving: comma and dot decimal separators are both accepted, and empty,
// "N/A", or unparseable values degrade to zero instead of failing. A zero
// price means "absent" everywhere downstream and triggers a fallback.
func ParsePrice(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || strings.EqualFold(cleaned, "N/A") {
		return decimal.Zero
	}

	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSpace(cleaned)

	switch {
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		// Both separators present: the rightmost one is the decimal mark,
		// the other one groups thousands.
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Contains(cleaned, ","):
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// positive reports whether a parsed price counts as present.
func positive(d decimal.Decimal) bool {
	return d.IsPositive()
}
