package services

import (
	"strconv"
	"strings"
	"time"
)

// ParseMoney parses a money-like cell under the locale convention used by the
// supplier spreadsheets: "." as thousands separator and "," as decimal
// separator (e.g. "22.300,00" -> 22300). A plain float ("5900" or "5900.5")
// is accepted as-is. Unparsable values yield 0; a bad cell must never abort
// an import batch.
func ParseMoney(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	// Strip currency sign and inner whitespace
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}

	if strings.Contains(s, ",") {
		// Locale form: thousands "." decimal ","
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 || thousandsOnly(s) {
		s = strings.ReplaceAll(s, ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// thousandsOnly reports whether a single dot in s groups thousands
// ("22.300") rather than marking a decimal point ("5900.5"). Under the
// spreadsheet locale a dot followed by exactly three digits is a separator.
func thousandsOnly(s string) bool {
	i := strings.Index(s, ".")
	if i <= 0 {
		return false
	}
	return len(s)-i-1 == 3
}

// dayLayouts are the date formats accepted in spreadsheet cells.
var dayLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	time.RFC3339,
}

// ParseDay parses a date-like cell. Excel renders dates in several shapes
// depending on the cell format, so a handful of layouts plus the xlsx serial
// number form are tried. Unparsable values yield nil.
func ParseDay(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	// xlsx serial date: days since 1899-12-30
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		t := epoch.AddDate(0, 0, int(serial))
		return &t
	}

	return nil
}
