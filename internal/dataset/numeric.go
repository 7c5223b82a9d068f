package dataset

import (
	"math"
	"strconv"
	"strings"
)

// parseCount reads an interaction count. Blank cells are 0. Thousands
// separators and a trailing ".0" (spreadsheet exports) are accepted.
func parseCount(s string) (int64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, true
	}
	switch strings.ToLower(raw) {
	case "nan", "null", "none", "n/a", "-":
		return 0, true
	}
	raw = strings.ReplaceAll(raw, " ", "")
	raw = strings.ReplaceAll(raw, "\u00A0", "")
	raw = strings.ReplaceAll(raw, "_", "")
	// a comma is a thousands separator unless it is the only separator and
	// followed by one or two digits ("12,5")
	if c := strings.LastIndex(raw, ","); c >= 0 && !strings.Contains(raw, ".") && len(raw)-c-1 < 3 {
		raw = raw[:c] + "." + raw[c+1:]
	}
	raw = strings.ReplaceAll(raw, ",", "")
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f)), true
}
