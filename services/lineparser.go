package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParsedLine is one order line extracted from a free-text products cell.
type ParsedLine struct {
	Code      string
	Name      string
	Quantity  int
	UnitPrice float64
}

// LineResult is the tagged outcome of parsing a single entry: either a
// recognized line or a reason it was dropped. Unrecognized entries never
// abort the batch; callers collect the reasons as row diagnostics.
type LineResult struct {
	Line   *ParsedLine
	Reason string
}

// Recognized reports whether the entry parsed into a line.
func (r LineResult) Recognized() bool {
	return r.Line != nil
}

// humanLinePattern matches the human-readable form "Name xN ($price)",
// e.g. "Sal marina x1 ($2600)". The price may carry locale separators.
var humanLinePattern = regexp.MustCompile(`^(.*?)\s+x\s*(\d+)\s*\(\s*\$?\s*([\d.,]+)\s*\)$`)

// ParseProductsCell splits a free-text products cell into entries (separated
// by newlines or ";") and parses each one. Two formats are recognized:
//
//	code|name|quantity|price      pipe-delimited quadruple
//	Name xN ($price)              human-readable
//
// Entries matching neither format come back as unrecognized with a reason.
func ParseProductsCell(cell string) []LineResult {
	var results []LineResult
	for _, entry := range splitEntries(cell) {
		results = append(results, parseEntry(entry))
	}
	return results
}

func splitEntries(cell string) []string {
	split := func(r rune) bool { return r == '\n' || r == ';' }
	var entries []string
	for _, part := range strings.FieldsFunc(cell, split) {
		if p := strings.TrimSpace(part); p != "" {
			entries = append(entries, p)
		}
	}
	return entries
}

func parseEntry(entry string) LineResult {
	if strings.Contains(entry, "|") {
		return parsePipeEntry(entry)
	}
	return parseHumanEntry(entry)
}

// parsePipeEntry parses "code|name|quantity|price".
func parsePipeEntry(entry string) LineResult {
	fields := strings.Split(entry, "|")
	if len(fields) != 4 {
		return LineResult{Reason: fmt.Sprintf("%q: expected code|name|quantity|price, got %d fields", entry, len(fields))}
	}

	code := strings.TrimSpace(fields[0])
	name := strings.TrimSpace(fields[1])
	if name == "" {
		return LineResult{Reason: fmt.Sprintf("%q: empty product name", entry)}
	}

	qty, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil || qty < 1 {
		return LineResult{Reason: fmt.Sprintf("%q: invalid quantity %q", entry, fields[2])}
	}

	price := ParseMoney(fields[3])

	return LineResult{Line: &ParsedLine{
		Code:      code,
		Name:      name,
		Quantity:  qty,
		UnitPrice: price,
	}}
}

// parseHumanEntry parses "Name xN ($price)".
func parseHumanEntry(entry string) LineResult {
	m := humanLinePattern.FindStringSubmatch(entry)
	if m == nil {
		return LineResult{Reason: fmt.Sprintf("%q: unrecognized format", entry)}
	}

	name := strings.TrimSpace(m[1])
	if name == "" {
		return LineResult{Reason: fmt.Sprintf("%q: empty product name", entry)}
	}

	qty, err := strconv.Atoi(m[2])
	if err != nil || qty < 1 {
		return LineResult{Reason: fmt.Sprintf("%q: invalid quantity %q", entry, m[2])}
	}

	return LineResult{Line: &ParsedLine{
		Name:      name,
		Quantity:  qty,
		UnitPrice: ParseMoney(m[3]),
	}}
}
